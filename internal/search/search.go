// Package search wraps the DuckDuckGo instant-answer API for fully
// general queries. Failures come back as errors; the router decides
// what fallback text, if any, stands in for missing results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.duckduckgo.com/"

// Client queries the instant-answer endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// instantAnswer is the slice of the response we read.
type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	Answer        string `json:"Answer"`
	Definition    string `json:"Definition"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// NewClient builds a search client. An empty endpoint selects the
// public API.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search returns a short text summary for the query. An empty summary
// with a nil error means the engine had nothing relevant.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read search response: %w", err)
	}

	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return "", fmt.Errorf("failed to parse search response: %w", err)
	}

	return summarize(answer), nil
}

// summarize picks the best available field, falling back through
// abstract, direct answer, definition, then related topics.
func summarize(a instantAnswer) string {
	if a.AbstractText != "" {
		return a.AbstractText
	}
	if a.Answer != "" {
		return a.Answer
	}
	if a.Definition != "" {
		return a.Definition
	}

	var topics []string
	for _, t := range a.RelatedTopics {
		if t.Text != "" {
			topics = append(topics, t.Text)
		}
		if len(topics) == 3 {
			break
		}
	}
	return strings.Join(topics, "\n")
}
