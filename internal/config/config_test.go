package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "ollama", cfg.AI.Provider)
	assert.Equal(t, "qwen3:8b", cfg.AI.Model)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
	assert.Equal(t, 60, cfg.AI.TurnTimeoutSeconds)
	assert.Equal(t, 10, cfg.AI.ColorTimeoutSeconds)
	assert.Equal(t, "http://localhost:3000", cfg.Docs.URL)
	assert.Equal(t, "bg-blue-500", cfg.Cards.FallbackColor)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardboard.toml")
	content := `
[server]
port = 9090

[ai]
provider = "openai"
model = "gpt-4o-mini"
api_key = "sk-test"
max_tokens = 2048
turn_timeout_seconds = 120
color_timeout_seconds = 5

[cards]
fallback_color = "bg-slate-500"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, 2048, cfg.AI.MaxTokens)
	assert.Equal(t, 120, cfg.AI.TurnTimeoutSeconds)
	assert.Equal(t, 5, cfg.AI.ColorTimeoutSeconds)
	assert.Equal(t, "bg-slate-500", cfg.Cards.FallbackColor)
	// untouched sections keep their defaults
	assert.Equal(t, "http://localhost:3000", cfg.Docs.URL)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardboard.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ai]\nmodel = \"from-file\"\n"), 0644))

	t.Setenv("CARDBOARD_AI_MODEL", "from-env")
	t.Setenv("CARDBOARD_SERVER_PORT", "8081")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.Model)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardboard.toml")

	require.NoError(t, InitConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.AI.Provider)

	assert.Error(t, InitConfig(path), "must not overwrite an existing file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		return cfg
	}

	cfg := valid()
	assert.NoError(t, Validate(cfg))

	cfg = valid()
	cfg.AI.Provider = "openai"
	require.Error(t, Validate(cfg), "cloud provider without api_key")
	cfg.AI.APIKey = "sk-test"
	assert.NoError(t, Validate(cfg))

	cfg = valid()
	cfg.AI.Provider = "watson"
	assert.Error(t, Validate(cfg))

	cfg = valid()
	cfg.AI.Model = ""
	assert.Error(t, Validate(cfg))

	cfg = valid()
	cfg.Server.Port = 0
	assert.Error(t, Validate(cfg))
}
