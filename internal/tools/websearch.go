package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DuckDuckGoClient queries the DuckDuckGo Instant Answer API, which needs
// no API key.
type DuckDuckGoClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewDuckDuckGoClient creates a client against the public API.
func NewDuckDuckGoClient() *DuckDuckGoClient {
	return &DuckDuckGoClient{
		BaseURL:    "https://api.duckduckgo.com",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type instantAnswer struct {
	Abstract      string `json:"Abstract"`
	AbstractURL   string `json:"AbstractURL"`
	Definition    string `json:"Definition"`
	DefinitionURL string `json:"DefinitionURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search returns the best instant answer for query: the abstract if one
// exists, then the definition, then up to three related topics.
func (c *DuckDuckGoClient) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_html":       {"1"},
		"skip_disambig": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}

	var parts []string
	switch {
	case answer.Abstract != "":
		parts = append(parts, fmt.Sprintf("**Answer:**\n%s", answer.Abstract))
		if answer.AbstractURL != "" {
			parts = append(parts, fmt.Sprintf("Source: %s", answer.AbstractURL))
		}
	case answer.Definition != "":
		parts = append(parts, fmt.Sprintf("**Definition:**\n%s", answer.Definition))
		if answer.DefinitionURL != "" {
			parts = append(parts, fmt.Sprintf("Source: %s", answer.DefinitionURL))
		}
	case len(answer.RelatedTopics) > 0:
		parts = append(parts, "**Related Information:**")
		for i, topic := range answer.RelatedTopics {
			if i >= 3 {
				break
			}
			if topic.Text == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, topic.Text))
			if topic.FirstURL != "" {
				parts = append(parts, fmt.Sprintf("   %s", topic.FirstURL))
			}
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("No direct answer found for '%s'. You may need to search more specifically or try Wikipedia.", query), nil
	}
	return strings.Join(parts, "\n\n"), nil
}

func webSearchTool(client *DuckDuckGoClient) Tool {
	return Tool{
		Name: "search_web",
		Description: "Search the web for quick facts and information. Use this for current " +
			"information or when Wikipedia doesn't have the answer.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query or question",
				},
			},
			"required": []string{"query"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			query, err := stringArg(args, "query")
			if err != nil {
				return "", err
			}
			result, err := client.Search(ctx, query)
			if err != nil {
				return fmt.Sprintf("Error searching the web: %v", err), nil
			}
			return result, nil
		},
	}
}
