package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cvalyze/pkg/httpx"
)

// Client talks to the Gemini generateContent endpoint. The API key is
// passed per call so the key pool can rotate credentials without
// rebuilding the client.
type Client struct {
	apiURL string
	http   *httpx.Client
}

func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		http:   httpx.NewClient(timeout),
	}
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one prompt to the completion service and returns the raw
// candidate text. No schema conformance is assumed; callers parse
// defensively.
func (c *Client) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	resp, err := c.http.PostJSON(ctx, c.apiURL, map[string]string{"X-goog-api-key": apiKey}, reqBody)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("Gemini error: %s", result.Error.Message)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// Ping sends a minimal test request to verify that an API key is accepted.
// Only the status code matters.
func (c *Client) Ping(ctx context.Context, apiKey string) error {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": "ping"},
				},
			},
		},
	}

	resp, err := c.http.PostJSON(ctx, c.apiURL, map[string]string{"X-goog-api-key": apiKey}, reqBody)
	if err != nil {
		return fmt.Errorf("key check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("key rejected with status %d", resp.StatusCode)
	}
	return nil
}
