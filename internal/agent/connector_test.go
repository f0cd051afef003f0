package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"

	"github.com/cardboard/internal/retry"
	"github.com/cardboard/internal/tools"
)

// fakeModel scripts GenerateContent responses and records the message
// sequences it was called with.
type fakeModel struct {
	responses []*llms.ContentResponse
	errs      []error
	calls     [][]llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls = append(f.calls, messages)
	i := len(f.calls) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return textResponse("default"), nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func textResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}
}

func toolCallResponse(id, name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:   id,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      name,
					Arguments: args,
				},
			}},
		}},
	}
}

func newTestConnector(model llms.Model, toolset []tools.Tool) *Connector {
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
		llm:      model,
		opts:     Options{Provider: ProviderGemini, Model: "test"},
		limiter:  rate.NewLimiter(rate.Inf, 1),
		tools:    toolset,
		toolDefs: defs,
		retryConfig: retry.Config{
			MaxRetries: 1,
			BaseDelay:  time.Millisecond,
			MaxDelay:   time.Millisecond,
			Multiplier: 1.0,
		},
	}
}

func TestRun_TextReply(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		textResponse("Hello there!"),
	}}
	c := newTestConnector(model, nil)

	reply, history, err := c.Run(context.Background(), "hi", nil)

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", reply)

	// system + user + assistant
	require.Len(t, history, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, history[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, history[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, history[2].Role)
}

func TestRun_SystemPromptOnlyOnFirstTurn(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		textResponse("first"),
		textResponse("second"),
	}}
	c := newTestConnector(model, nil)

	_, history, err := c.Run(context.Background(), "one", nil)
	require.NoError(t, err)

	_, history, err = c.Run(context.Background(), "two", history)
	require.NoError(t, err)

	var systems int
	for _, m := range history {
		if m.Role == llms.ChatMessageTypeSystem {
			systems++
		}
	}
	assert.Equal(t, 1, systems)
	assert.Len(t, history, 5)
}

func TestRun_ExecutesToolCalls(t *testing.T) {
	called := false
	echo := tools.Tool{
		Name:        "echo",
		Description: "echoes",
		Parameters:  map[string]any{"type": "object"},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			called = true
			return "echoed: " + args["text"].(string), nil
		},
	}

	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "echo", `{"text":"hi"}`),
		textResponse("done"),
	}}
	c := newTestConnector(model, []tools.Tool{echo})

	reply, history, err := c.Run(context.Background(), "please echo", nil)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "done", reply)

	// The second model call must include the tool response message.
	require.Len(t, model.calls, 2)
	second := model.calls[1]
	last := second[len(second)-1]
	assert.Equal(t, llms.ChatMessageTypeTool, last.Role)
	toolResp, ok := last.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call-1", toolResp.ToolCallID)
	assert.Equal(t, "echoed: hi", toolResp.Content)

	// system + user + assistant(tool call) + tool response + assistant
	assert.Len(t, history, 5)
}

func TestRun_UnknownToolReportedToModel(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "nonexistent", `{}`),
		textResponse("ok"),
	}}
	c := newTestConnector(model, nil)

	reply, _, err := c.Run(context.Background(), "go", nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", reply)

	second := model.calls[1]
	last := second[len(second)-1]
	toolResp := last.Parts[0].(llms.ToolCallResponse)
	assert.Contains(t, toolResp.Content, "unknown tool")
}

func TestRun_ErrorLeavesHistoryUnchanged(t *testing.T) {
	boom := errors.New("backend down")
	model := &fakeModel{errs: []error{boom, boom}}
	c := newTestConnector(model, nil)

	original := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "s"),
		llms.TextParts(llms.ChatMessageTypeHuman, "hello"),
	}

	_, history, err := c.Run(context.Background(), "hi", original)

	require.Error(t, err)
	assert.Equal(t, original, history)
}

func TestRun_BoundsToolRounds(t *testing.T) {
	loop := tools.Tool{
		Name:       "loop",
		Parameters: map[string]any{"type": "object"},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			return "again", nil
		},
	}

	var responses []*llms.ContentResponse
	for i := 0; i < maxToolRounds+1; i++ {
		responses = append(responses, toolCallResponse("c", "loop", `{}`))
	}
	model := &fakeModel{responses: responses}
	c := newTestConnector(model, []tools.Tool{loop})

	_, _, err := c.Run(context.Background(), "go", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "without answering")
	assert.Len(t, model.calls, maxToolRounds)
}

func TestAsk_AppendsExchange(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		textResponse("bg-yellow-400"),
	}}
	c := newTestConnector(model, nil)

	history := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "s"),
		llms.TextParts(llms.ChatMessageTypeHuman, "add banana"),
		llms.TextParts(llms.ChatMessageTypeAI, "done"),
	}

	reply, updated, err := c.Ask(context.Background(), "pick a color", history)

	require.NoError(t, err)
	assert.Equal(t, "bg-yellow-400", reply)
	require.Len(t, updated, 5)
	assert.Equal(t, llms.ChatMessageTypeHuman, updated[3].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, updated[4].Role)
}

func TestAsk_NoRetry(t *testing.T) {
	model := &fakeModel{errs: []error{errors.New("down")}}
	c := newTestConnector(model, nil)

	_, _, err := c.Ask(context.Background(), "pick a color", nil)

	require.Error(t, err)
	assert.Len(t, model.calls, 1)
}
