package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Base URLs for the OpenAI-compatible providers.
const (
	DefaultMistralBaseURL  = "https://api.mistral.ai/v1"
	DefaultGroqBaseURL     = "https://api.groq.com/openai/v1"
	DefaultCerebrasBaseURL = "https://api.cerebras.ai/v1"
)

// ChatClient implements Client for providers exposing an OpenAI-style
// POST {base}/chat/completions endpoint with Bearer authentication. Mistral,
// Groq and Cerebras all share this wire shape and differ only in base URL.
type ChatClient struct {
	name string
	clientConfig
}

// NewMistralClient creates a Client for the Mistral API.
func NewMistralClient(opts ...Option) *ChatClient {
	return newChatClient("mistral", DefaultMistralBaseURL, opts...)
}

// NewGroqClient creates a Client for the Groq API.
func NewGroqClient(opts ...Option) *ChatClient {
	return newChatClient("groq", DefaultGroqBaseURL, opts...)
}

// NewCerebrasClient creates a Client for the Cerebras API.
func NewCerebrasClient(opts ...Option) *ChatClient {
	return newChatClient("cerebras", DefaultCerebrasBaseURL, opts...)
}

func newChatClient(name, baseURL string, opts ...Option) *ChatClient {
	c := &ChatClient{
		name:         name,
		clientConfig: newClientConfig(baseURL),
	}
	for _, opt := range opts {
		opt(&c.clientConfig)
	}
	return c
}

// Name returns the provider identifier.
func (c *ChatClient) Name() string {
	return c.name
}

// chatResponse is the subset of the chat-completions response the client
// consumes.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse is the error envelope used by OpenAI-compatible APIs.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// Option keys the chat payload builder understands. Anything else the caller
// supplies is forwarded into the request body untouched.
var chatKnownOptions = map[string]struct{}{
	"messages":         {},
	"temperature":      {},
	"max_tokens":       {},
	"reasoning_effort": {},
	"response_format":  {},
	"mode":             {},
}

// Complete performs a chat completion request against the provider.
func (c *ChatClient) Complete(ctx context.Context, apiKey, model, prompt string, opts Options) (string, error) {
	payload := c.buildPayload(model, prompt, opts)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s request: %w", c.name, err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute %s request: %w", c.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", c.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			Provider:   c.name,
			StatusCode: resp.StatusCode,
			Message:    extractChatError(respBody),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal %s response: %w", c.name, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%s response contained no choices", c.name)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// buildPayload maps the prompt and options onto the chat-completions body.
// A caller-supplied "messages" value replaces the single-user-message
// default; unrecognized option keys are forwarded as-is.
func (c *ChatClient) buildPayload(model, prompt string, opts Options) map[string]any {
	payload := map[string]any{
		"model": model,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	if messages, ok := opts["messages"]; ok {
		payload["messages"] = messages
	}
	if temperature, ok := opts["temperature"]; ok {
		payload["temperature"] = temperature
	}
	if maxTokens, ok := opts["max_tokens"]; ok {
		payload["max_tokens"] = maxTokens
	}
	if effort, ok := opts["reasoning_effort"]; ok {
		payload["reasoning_effort"] = effort
	}
	if format, ok := opts["response_format"]; ok {
		payload["response_format"] = format
	} else if opts["mode"] == "json" {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	for key, value := range opts {
		if _, known := chatKnownOptions[key]; !known {
			payload[key] = value
		}
	}

	return payload
}

// extractChatError pulls the human-readable message out of an error body,
// falling back to the raw body when it does not match the envelope.
func extractChatError(body []byte) string {
	var errResp chatErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error.Message != "" {
			return errResp.Error.Message
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	return string(body)
}
