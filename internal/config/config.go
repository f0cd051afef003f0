package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Host string `koanf:"host"`
		Port int    `koanf:"port"`
	} `koanf:"server"`

	AI struct {
		Provider            string  `koanf:"provider"`
		Model               string  `koanf:"model"`
		APIKey              string  `koanf:"api_key"`
		BaseURL             string  `koanf:"base_url"`
		Temperature         float64 `koanf:"temperature"`
		MaxTokens           int     `koanf:"max_tokens"`
		TurnTimeoutSeconds  int     `koanf:"turn_timeout_seconds"`
		ColorTimeoutSeconds int     `koanf:"color_timeout_seconds"`
	} `koanf:"ai"`

	Docs struct {
		URL    string `koanf:"url"`
		APIKey string `koanf:"api_key"`
	} `koanf:"docs"`

	Cards struct {
		FallbackColor string `koanf:"fallback_color"`
	} `koanf:"cards"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"server.host":              "0.0.0.0",
		"server.port":              8000,
		"ai.provider":              "ollama",
		"ai.model":                 "qwen3:8b",
		"ai.temperature":           0.7,
		"ai.turn_timeout_seconds":  60,
		"ai.color_timeout_seconds": 10,
		"docs.url":                 "http://localhost:3000",
		"cards.fallback_color":     "bg-blue-500",
		"log.level":                "info",
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{"./cardboard.toml", "$HOME/.cardboard.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix CARDBOARD_
	k.Load(env.Provider("CARDBOARD_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "CARDBOARD_")), "_", ".", 1)
	}), nil)

	// Unmarshal into Config struct
	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# Cardboard Configuration

[server]
host = "0.0.0.0"
port = 8000

[ai]
provider = "ollama"
model = "qwen3:8b"
# api_key = "your-api-key"
# base_url = "http://localhost:11434"
temperature = 0.7
turn_timeout_seconds = 60
color_timeout_seconds = 10

[docs]
url = "http://localhost:3000"
# api_key = "your-context7-api-key"

[cards]
fallback_color = "bg-blue-500"

[log]
level = "info"
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", config.Server.Port)
	}

	switch config.AI.Provider {
	case "ollama":
		// local models need no key
	case "openai", "gemini", "claude":
		if config.AI.APIKey == "" {
			return fmt.Errorf("%s api_key is required", config.AI.Provider)
		}
	default:
		return fmt.Errorf("unknown AI provider %q", config.AI.Provider)
	}

	if config.AI.Model == "" {
		return fmt.Errorf("ai model is required")
	}

	return nil
}
