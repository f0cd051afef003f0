package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"
)

// DefaultDocsURL is the local development address of the Context7 MCP
// server.
const DefaultDocsURL = "http://localhost:3000"

// DocsClient fetches documentation from a Context7 MCP server over the
// Model Context Protocol (JSON-RPC tools/call).
type DocsClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewDocsClient creates a docs client. An empty baseURL falls back to the
// localhost development server; apiKey is optional.
func NewDocsClient(baseURL, apiKey string) *DocsClient {
	if baseURL == "" {
		baseURL = DefaultDocsURL
	}
	return &DocsClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type mcpRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Method  string    `json:"method"`
	Params  mcpParams `json:"params"`
}

type mcpParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type mcpResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *mcpError       `json:"error"`
}

type mcpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type mcpResult struct {
	Content []mcpContentBlock `json:"content"`
	Text    string            `json:"text"`
}

type mcpContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// FetchDocs asks the MCP server's fetch_documentation tool for docs
// matching query. docType is one of general, api, tutorial, reference.
func (c *DocsClient) FetchDocs(ctx context.Context, query, docType string) (string, error) {
	if docType == "" {
		docType = "general"
	}

	payload := mcpRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params: mcpParams{
			Name: "fetch_documentation",
			Arguments: map[string]any{
				"query":    query,
				"doc_type": docType,
				"format":   "markdown",
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding MCP request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/mcp/v1", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building MCP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connecting to MCP server: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading MCP response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("MCP server returned status %d", resp.StatusCode)
	}

	var rpc mcpResponse
	if err := json.Unmarshal(raw, &rpc); err != nil {
		// MCP servers occasionally emit sloppy JSON; try to repair it
		// before giving up.
		repaired, repairErr := jsonrepair.JSONRepair(string(raw))
		if repairErr != nil {
			return "", fmt.Errorf("decoding MCP response: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &rpc); err != nil {
			return "", fmt.Errorf("decoding repaired MCP response: %w", err)
		}
		log.Debug().Msg("Repaired malformed MCP response JSON")
	}

	if rpc.Error != nil {
		return fmt.Sprintf("MCP Error: %s", rpc.Error.Message), nil
	}
	if len(rpc.Result) == 0 {
		return fmt.Sprintf("Unexpected MCP response: %s", string(raw)), nil
	}

	return flattenMCPResult(rpc.Result), nil
}

// flattenMCPResult extracts readable text from an MCP tools/call result:
// content blocks first, a bare text field second, raw JSON as a last
// resort.
func flattenMCPResult(raw json.RawMessage) string {
	var result mcpResult
	if err := json.Unmarshal(raw, &result); err == nil {
		if len(result.Content) > 0 {
			lines := make([]string, 0, len(result.Content))
			for _, block := range result.Content {
				lines = append(lines, block.Text)
			}
			return strings.Join(lines, "\n")
		}
		if result.Text != "" {
			return result.Text
		}
	}

	// Scalar results ("result": "some text") decode as a plain string.
	var scalar string
	if err := json.Unmarshal(raw, &scalar); err == nil {
		return scalar
	}
	return string(raw)
}

func docsTool(client *DocsClient) Tool {
	return Tool{
		Name: "fetch_docs",
		Description: "Fetch documentation from the Context7 documentation server. " +
			"doc_type is one of: general, api, tutorial, reference.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query or document identifier",
				},
				"doc_type": map[string]any{
					"type":        "string",
					"description": "Type of documentation to fetch",
				},
			},
			"required": []string{"query"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			query, err := stringArg(args, "query")
			if err != nil {
				return "", err
			}
			docType, _ := stringArg(args, "doc_type")
			result, err := client.FetchDocs(ctx, query, docType)
			if err != nil {
				return fmt.Sprintf("Error connecting to Context7 MCP server: %v", err), nil
			}
			return result, nil
		},
	}
}
