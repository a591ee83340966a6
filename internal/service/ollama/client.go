package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// fallbackResponse stands in when the server answers without a response field.
const fallbackResponse = "No se pudo obtener una respuesta"

// Client talks to a local Ollama server over its HTTP API.
type Client struct {
	baseURL string
	model   string
	httpc   *http.Client
}

// New builds a client for the given API base, e.g. http://localhost:11434/api.
// timeout bounds each request; zero disables the bound, matching the
// original deployment.
func New(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// ModelName reports the configured model.
func (c *Client) ModelName() string {
	return c.model
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	// Pointer distinguishes an absent field from an empty completion.
	Response *string `json:"response"`
}

// Generate sends the assembled prompt and returns the completion text.
// Streaming is always disabled.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("ollama generate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama generate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama generate: unexpected status %s", resp.Status)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama generate: decode response: %w", err)
	}
	if out.Response == nil {
		return fallbackResponse, nil
	}
	return *out.Response, nil
}

// ModelInfo describes one locally available model.
type ModelInfo struct {
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	Size       int64  `json:"size,omitempty"`
}

type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ListModels queries the server for locally available models.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("ollama tags: build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama tags: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama tags: unexpected status %s", resp.Status)
	}

	var out tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ollama tags: decode response: %w", err)
	}
	return out.Models, nil
}
