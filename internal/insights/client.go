// Package insights produces the short narrative paragraphs attached to
// report documents. Text comes from an OpenAI-compatible chat endpoint
// when an API key is configured; otherwise, and on any call failure,
// deterministic fallback sentences derived from the numbers are used,
// so report generation never fails because of the insights layer.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fleetsnap/internal/config"
	apperrors "fleetsnap/internal/errors"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewClient creates a chat client from the insights configuration.
func NewClient(cfg config.InsightsConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether remote calls are configured. Without an API
// key every insight request resolves to its fallback text.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Complete sends one user prompt and returns the model's reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.NewInsightsError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", apperrors.NewInsightsError("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.NewInsightsError("failed to send request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewInsightsError("failed to read response body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewInsightsError(
			fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(body)), nil)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", apperrors.NewInsightsError("failed to parse response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", apperrors.NewInsightsError("no choices in response", nil)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
