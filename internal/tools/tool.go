// Package tools implements the utility functions exposed to the chat
// agent: a couple of local helpers, web lookups, and a documentation
// fetcher backed by a Context7 MCP server. Tool failures are reported as
// result text rather than errors so a bad lookup never aborts a chat turn.
package tools

import (
	"context"
	"fmt"
)

// Tool is one callable function offered to the model. Parameters is a
// JSON-schema object describing the arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Call        func(ctx context.Context, args map[string]any) (string, error)
}

// Config carries the settings external tools need.
type Config struct {
	DocsURL    string // Context7 MCP server base URL
	DocsAPIKey string // optional bearer token for the MCP server
}

// All returns the full tool set offered to the agent.
func All(cfg Config) []Tool {
	wikipedia := NewWikipediaClient()
	ddg := NewDuckDuckGoClient()
	docs := NewDocsClient(cfg.DocsURL, cfg.DocsAPIKey)

	return []Tool{
		multiplyTool(),
		currentTimeTool(),
		listDirectoryTool(),
		readFileTool(),
		writeFileTool(),
		replaceInFileTool(),
		wikipediaTool(wikipedia),
		webSearchTool(ddg),
		docsTool(docs),
	}
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	return s, nil
}

// intArg extracts a required integer argument. JSON numbers decode as
// float64, so both forms are accepted.
func intArg(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", key)
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("argument %q must be a number", key)
	}
}
