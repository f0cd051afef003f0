package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const userAgent = "Cardboard-Agent/1.0 (Educational Purpose)"

// WikipediaClient fetches article summaries from the Wikipedia REST API.
type WikipediaClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewWikipediaClient creates a client against the public English Wikipedia.
func NewWikipediaClient() *WikipediaClient {
	return &WikipediaClient{
		BaseURL:    "https://en.wikipedia.org/api/rest_v1",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type wikipediaSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Summary looks up the article summary for query. Lookup misses come back
// as explanatory text so the model can rephrase and retry.
func (c *WikipediaClient) Summary(ctx context.Context, query string) (string, error) {
	endpoint := c.BaseURL + "/page/summary/" + url.PathEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building wikipedia request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("No Wikipedia article found for '%s'. The topic might not exist or is spelled differently.", query), nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return "", fmt.Errorf("decoding wikipedia response: %w", err)
	}

	if summary.Type != "standard" {
		return fmt.Sprintf("No Wikipedia article found for '%s'. Try rephrasing your search.", query), nil
	}

	log.Debug().Str("title", summary.Title).Msg("Wikipedia lookup succeeded")
	return fmt.Sprintf("**%s**\n\n%s\n\nRead more: %s",
		summary.Title, summary.Extract, summary.ContentURLs.Desktop.Page), nil
}

func wikipediaTool(client *WikipediaClient) Tool {
	return Tool{
		Name: "search_wikipedia",
		Description: "Search Wikipedia for information about a topic. Use this for factual " +
			"information about people, places, concepts, or events.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The topic or term to search for",
				},
			},
			"required": []string{"query"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			query, err := stringArg(args, "query")
			if err != nil {
				return "", err
			}
			result, err := client.Summary(ctx, query)
			if err != nil {
				return fmt.Sprintf("Error searching Wikipedia: %v", err), nil
			}
			return result, nil
		},
	}
}
