package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultCohereBaseURL is the default Cohere API endpoint.
const DefaultCohereBaseURL = "https://api.cohere.com"

// CohereClient implements Client for Cohere's chat API, which uses a
// single-message request shape instead of a message list.
type CohereClient struct {
	clientConfig
}

// NewCohereClient creates a Client for the Cohere API.
func NewCohereClient(opts ...Option) *CohereClient {
	c := &CohereClient{
		clientConfig: newClientConfig(DefaultCohereBaseURL),
	}
	for _, opt := range opts {
		opt(&c.clientConfig)
	}
	return c
}

// Name returns the provider identifier.
func (c *CohereClient) Name() string {
	return "cohere"
}

type cohereRequest struct {
	Model       string   `json:"model"`
	Message     string   `json:"message"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

type cohereResponse struct {
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Complete performs a chat request against the Cohere API.
func (c *CohereClient) Complete(ctx context.Context, apiKey, model, prompt string, opts Options) (string, error) {
	cohereReq := cohereRequest{
		Model:   model,
		Message: prompt,
	}
	if temperature, ok := opts.Float("temperature"); ok {
		cohereReq.Temperature = &temperature
	}
	if maxTokens, ok := opts.Int("max_tokens"); ok {
		cohereReq.MaxTokens = &maxTokens
	}

	body, err := json.Marshal(cohereReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cohere request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute cohere request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read cohere response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(respBody)
		var cohereResp cohereResponse
		if err := json.Unmarshal(respBody, &cohereResp); err == nil && cohereResp.Message != "" {
			message = cohereResp.Message
		}
		return "", &APIError{
			Provider:   "cohere",
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	var cohereResp cohereResponse
	if err := json.Unmarshal(respBody, &cohereResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal cohere response: %w", err)
	}
	if cohereResp.Text == "" {
		return "", fmt.Errorf("cohere response contained no text")
	}

	return cohereResp.Text, nil
}
