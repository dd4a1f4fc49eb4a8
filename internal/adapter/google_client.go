package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultGoogleBaseURL is the default Gemini API endpoint.
const DefaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GoogleClient implements Client for Google's Generative Language API.
// It translates the prompt into generateContent format and joins the
// candidate parts back into plain text.
type GoogleClient struct {
	clientConfig
}

// NewGoogleClient creates a Client for the Gemini API.
func NewGoogleClient(opts ...Option) *GoogleClient {
	c := &GoogleClient{
		clientConfig: newClientConfig(DefaultGoogleBaseURL),
	}
	for _, opt := range opts {
		opt(&c.clientConfig)
	}
	return c
}

// Name returns the provider identifier.
func (c *GoogleClient) Name() string {
	return "google"
}

// Complete performs a generateContent request against the Gemini API.
// When the merged options carry mode "reasoning", a placeholder tool is
// attached to the request; Gemini shifts into a more deliberate generation
// mode when tools are present.
func (c *GoogleClient) Complete(ctx context.Context, apiKey, model, prompt string, opts Options) (string, error) {
	googleReq := c.buildRequest(prompt, opts)

	body, err := json.Marshal(googleReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal google request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute google request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read google response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(respBody)
		var googleErr googleErrorResponse
		if err := json.Unmarshal(respBody, &googleErr); err == nil && googleErr.Error.Message != "" {
			message = googleErr.Error.Message
		}
		return "", &APIError{
			Provider:   "google",
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	var googleResp googleResponse
	if err := json.Unmarshal(respBody, &googleResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal google response: %w", err)
	}

	return c.extractText(googleResp)
}

// buildRequest maps the prompt and options onto the generateContent body.
func (c *GoogleClient) buildRequest(prompt string, opts Options) googleRequest {
	req := googleRequest{
		Contents: []googleContent{
			{Role: "user", Parts: []googlePart{{Text: prompt}}},
		},
	}

	if opts["mode"] == "reasoning" {
		req.Tools = []googleTool{reasoningTool}
	}

	if temperature, ok := opts.Float("temperature"); ok {
		req.GenerationConfig.Temperature = &temperature
	}
	if maxTokens, ok := opts.Int("max_tokens"); ok {
		req.GenerationConfig.MaxOutputTokens = &maxTokens
	}

	return req
}

// extractText joins the text parts of the first candidate. Function-call
// parts without accompanying text are rendered as a code block so the
// caller still receives something actionable.
func (c *GoogleClient) extractText(resp googleResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("google response contained no candidates")
	}

	var pieces []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			pieces = append(pieces, part.Text)
		}
		if part.FunctionCall != nil {
			args, _ := json.Marshal(part.FunctionCall.Args)
			pieces = append(pieces, fmt.Sprintf("```python\n# Tool Call: %s(%s)\n```", part.FunctionCall.Name, args))
		}
	}
	if len(pieces) == 0 {
		return "", fmt.Errorf("google response contained no text or function calls")
	}

	return strings.Join(pieces, "\n"), nil
}

// reasoningTool is the placeholder tool attached in reasoning mode.
var reasoningTool = googleTool{
	FunctionDeclarations: []googleFunctionDeclaration{
		{Name: "execute_code", Description: "Executes python code"},
	},
}

// Gemini API wire types.

type googleRequest struct {
	Contents         []googleContent        `json:"contents"`
	Tools            []googleTool           `json:"tools,omitempty"`
	GenerationConfig googleGenerationConfig `json:"generationConfig,omitempty"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text         string              `json:"text,omitempty"`
	FunctionCall *googleFunctionCall `json:"functionCall,omitempty"`
}

type googleFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type googleTool struct {
	FunctionDeclarations []googleFunctionDeclaration `json:"function_declarations"`
}

type googleFunctionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type googleGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type googleResponse struct {
	Candidates []googleCandidate `json:"candidates"`
}

type googleCandidate struct {
	Content      googleContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type googleErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
