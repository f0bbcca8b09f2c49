// Package inference talks to the external LLM serving endpoint.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/neuralfit/backend/internal/config"
)

// GenerateRequest is the wire format of the generate endpoint.
type GenerateRequest struct {
	Prompt            string  `json:"prompt"`
	MaxNewTokens      int     `json:"max_new_tokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

// GenerateResponse is the reply of the generate endpoint.
type GenerateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Client is an HTTP client for the inference server.
type Client struct {
	cfg        config.AIConfig
	httpClient *http.Client
}

// NewClient creates a new inference client
func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout.Duration,
		},
	}
}

// Generate sends the prompt to the inference server and returns the
// generated text. Generation parameters come from configuration.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(GenerateRequest{
		Prompt:            prompt,
		MaxNewTokens:      c.cfg.MaxNewTokens,
		Temperature:       c.cfg.Temperature,
		TopP:              c.cfg.TopP,
		RepetitionPenalty: c.cfg.RepetitionPenalty,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GenerateURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference server returned status %d", resp.StatusCode)
	}

	var generated GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}

	if generated.GeneratedText == "" {
		return "", fmt.Errorf("inference server returned empty generation")
	}

	return generated.GeneratedText, nil
}

// Ready probes the inference server. Any HTTP response counts as ready;
// only transport failures mean the model is still initializing or down.
func (c *Client) Ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ServerURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return true
}
