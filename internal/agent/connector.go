// Package agent wraps a langchaingo model behind the narrow interface the
// chat layer needs: run one conversational turn with history, or ask a
// bare side question. Provider selection mirrors the connector pattern
// used across our AI services.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/cardboard/internal/retry"
	"github.com/cardboard/internal/tools"
)

// Provider identifies an AI backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOllama Provider = "ollama"
)

// maxToolRounds bounds the tool-calling loop within one turn so a
// misbehaving model cannot spin forever.
const maxToolRounds = 8

// Options configures the connector.
type Options struct {
	Provider    Provider
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Connector is the Agent Client: it owns the LLM handle, the system
// prompt, and the tool set, and it serializes model access through a
// rate limiter.
type Connector struct {
	llm         llms.Model
	opts        Options
	limiter     *rate.Limiter
	tools       []tools.Tool
	toolDefs    []llms.Tool
	retryConfig retry.Config
}

// New creates a connector for the configured provider and registers the
// given tool set.
func New(ctx context.Context, opts Options, toolset []tools.Tool) (*Connector, error) {
	var model llms.Model
	var err error

	log.Debug().
		Str("provider", string(opts.Provider)).
		Str("model", opts.Model).
		Float64("temperature", opts.Temperature).
		Msg("Creating agent connector")

	switch opts.Provider {
	case ProviderOpenAI:
		model, err = createOpenAIModel(opts)
	case ProviderGemini:
		model, err = createGeminiModel(ctx, opts)
	case ProviderClaude:
		model, err = createAnthropicModel(opts)
	case ProviderOllama:
		model, err = createOllamaModel(opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create model for provider %s: %w", opts.Provider, err)
	}

	defs := make([]llms.Tool, 0, len(toolset))
	for _, t := range toolset {
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	return &Connector{
		llm:         model,
		opts:        opts,
		limiter:     rate.NewLimiter(rate.Every(1*time.Second), 5),
		tools:       toolset,
		toolDefs:    defs,
		retryConfig: retry.LLMConfig(),
	}, nil
}

func createOpenAIModel(opts Options) (llms.Model, error) {
	o := []openai.Option{
		openai.WithModel(opts.Model),
		openai.WithToken(opts.APIKey),
	}
	if opts.BaseURL != "" {
		o = append(o, openai.WithBaseURL(opts.BaseURL))
	}
	return openai.New(o...)
}

func createGeminiModel(ctx context.Context, opts Options) (llms.Model, error) {
	return googleai.New(ctx,
		googleai.WithAPIKey(opts.APIKey),
		googleai.WithDefaultModel(opts.Model),
	)
}

func createAnthropicModel(opts Options) (llms.Model, error) {
	return anthropic.New(
		anthropic.WithToken(opts.APIKey),
		anthropic.WithModel(opts.Model),
	)
}

func createOllamaModel(opts Options) (llms.Model, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(opts.Model),
	)
}

// Run processes one conversational turn: the user message is appended to
// history, tool calls requested by the model are executed, and the final
// assistant text is returned together with the updated history. On error
// the original history is returned unchanged.
func (c *Connector) Run(ctx context.Context, message string, history []llms.MessageContent) (string, []llms.MessageContent, error) {
	msgs := make([]llms.MessageContent, 0, len(history)+2)
	if len(history) == 0 {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	} else {
		msgs = append(msgs, history...)
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, message))

	for round := 0; round < maxToolRounds; round++ {
		choice, err := c.generateWithRetry(ctx, msgs, true)
		if err != nil {
			return "", history, err
		}

		if len(choice.ToolCalls) == 0 {
			msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeAI, choice.Content))
			return choice.Content, msgs, nil
		}

		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, tc := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, tc)
		}
		msgs = append(msgs, assistant)

		for _, tc := range choice.ToolCalls {
			content := c.dispatch(ctx, tc)
			msgs = append(msgs, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       tc.FunctionCall.Name,
					Content:    content,
				}},
			})
		}
	}

	return "", history, fmt.Errorf("model requested tools for %d rounds without answering", maxToolRounds)
}

// Ask sends a side question with the given history attached and returns
// the reply plus the history extended by this exchange. No tools and no
// retries: callers of Ask have their own fallbacks and want to fail fast.
func (c *Connector) Ask(ctx context.Context, prompt string, history []llms.MessageContent) (string, []llms.MessageContent, error) {
	msgs := make([]llms.MessageContent, 0, len(history)+2)
	if len(history) == 0 {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	} else {
		msgs = append(msgs, history...)
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	choice, err := c.generate(ctx, msgs, false)
	if err != nil {
		return "", history, err
	}

	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeAI, choice.Content))
	return choice.Content, msgs, nil
}

func (c *Connector) generateWithRetry(ctx context.Context, msgs []llms.MessageContent, withTools bool) (*llms.ContentChoice, error) {
	var choice *llms.ContentChoice
	result := retry.Do(ctx, c.retryConfig, func() error {
		var err error
		choice, err = c.generate(ctx, msgs, withTools)
		return err
	})
	if !result.Success {
		return nil, fmt.Errorf("LLM call failed after %d attempts: %w", result.Attempts, result.LastError)
	}
	return choice, nil
}

func (c *Connector) generate(ctx context.Context, msgs []llms.MessageContent, withTools bool) (*llms.ContentChoice, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callOpts := []llms.CallOption{
		llms.WithTemperature(c.opts.Temperature),
	}
	if c.opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(c.opts.MaxTokens))
	}
	if withTools && len(c.toolDefs) > 0 {
		callOpts = append(callOpts, llms.WithTools(c.toolDefs))
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, msgs, callOpts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("messages", len(msgs)).
		Int("tool_calls", len(resp.Choices[0].ToolCalls)).
		Msg("LLM call completed")
	return resp.Choices[0], nil
}

// dispatch executes one requested tool call. Failures become result text:
// the model is expected to read the error and recover, and a bad tool
// call must never abort the turn.
func (c *Connector) dispatch(ctx context.Context, tc llms.ToolCall) string {
	name := tc.FunctionCall.Name

	var tool *tools.Tool
	for i := range c.tools {
		if c.tools[i].Name == name {
			tool = &c.tools[i]
			break
		}
	}
	if tool == nil {
		log.Warn().Str("tool", name).Msg("Model requested unknown tool")
		return fmt.Sprintf("unknown tool: %s", name)
	}

	args := map[string]any{}
	if tc.FunctionCall.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
			return fmt.Sprintf("invalid tool arguments: %v", err)
		}
	}

	result, err := tool.Call(ctx, args)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("Tool call failed")
		return err.Error()
	}

	log.Debug().Str("tool", name).Int("result_len", len(result)).Msg("Tool call completed")
	return result
}
