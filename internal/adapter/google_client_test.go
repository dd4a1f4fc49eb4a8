package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func googleStub(t *testing.T, status int, responseBody string, lastReq *googleRequest, lastURL *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastURL != nil {
			*lastURL = r.URL.String()
		}
		if lastReq != nil {
			if err := json.NewDecoder(r.Body).Decode(lastReq); err != nil {
				t.Errorf("failed to decode request body: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(responseBody))
	}))
}

const googleOKBody = `{"candidates":[{"content":{"role":"model","parts":[{"text":"generated text"}]}}]}`

func TestGoogleClient_Complete(t *testing.T) {
	var gotReq googleRequest
	var gotURL string
	srv := googleStub(t, http.StatusOK, googleOKBody, &gotReq, &gotURL)
	defer srv.Close()

	client := NewGoogleClient(WithBaseURL(srv.URL))
	text, err := client.Complete(context.Background(), "AIza-test", "gemini-2.5-pro", "write a poem", nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "generated text" {
		t.Errorf("Complete() = %q, want %q", text, "generated text")
	}

	if !strings.Contains(gotURL, "/models/gemini-2.5-pro:generateContent") {
		t.Errorf("request URL = %s, want generateContent path", gotURL)
	}
	if !strings.Contains(gotURL, "key=AIza-test") {
		t.Errorf("request URL = %s, want key query parameter", gotURL)
	}

	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 {
		t.Fatalf("request contents = %+v, want one user part", gotReq.Contents)
	}
	if gotReq.Contents[0].Parts[0].Text != "write a poem" {
		t.Errorf("prompt = %q, want %q", gotReq.Contents[0].Parts[0].Text, "write a poem")
	}
}

func TestGoogleClient_ReasoningModeAttachesTool(t *testing.T) {
	var gotReq googleRequest
	srv := googleStub(t, http.StatusOK, googleOKBody, &gotReq, nil)
	defer srv.Close()

	client := NewGoogleClient(WithBaseURL(srv.URL))
	if _, err := client.Complete(context.Background(), "key", "gemini-2.5-pro", "think", Options{"mode": "reasoning"}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if len(gotReq.Tools) != 1 {
		t.Fatalf("request tools = %+v, want exactly one", gotReq.Tools)
	}
	decls := gotReq.Tools[0].FunctionDeclarations
	if len(decls) != 1 || decls[0].Name != "execute_code" {
		t.Errorf("function declarations = %+v, want execute_code", decls)
	}
}

func TestGoogleClient_NoToolWithoutReasoning(t *testing.T) {
	var gotReq googleRequest
	srv := googleStub(t, http.StatusOK, googleOKBody, &gotReq, nil)
	defer srv.Close()

	client := NewGoogleClient(WithBaseURL(srv.URL))
	if _, err := client.Complete(context.Background(), "key", "gemma-3-27b-it", "hi", nil); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(gotReq.Tools) != 0 {
		t.Errorf("request tools = %+v, want none", gotReq.Tools)
	}
}

func TestGoogleClient_GenerationConfig(t *testing.T) {
	var gotReq googleRequest
	srv := googleStub(t, http.StatusOK, googleOKBody, &gotReq, nil)
	defer srv.Close()

	client := NewGoogleClient(WithBaseURL(srv.URL))

	// Decode the options from JSON so numbers arrive as float64, exactly as
	// they do when a request body passes through the HTTP handler.
	var opts Options
	if err := json.Unmarshal([]byte(`{"temperature":0.7,"max_tokens":1024}`), &opts); err != nil {
		t.Fatalf("failed to unmarshal options: %v", err)
	}
	if _, err := client.Complete(context.Background(), "key", "gemini-2.5-flash", "hi", opts); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if gotReq.GenerationConfig.Temperature == nil || *gotReq.GenerationConfig.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", gotReq.GenerationConfig.Temperature)
	}
	if gotReq.GenerationConfig.MaxOutputTokens == nil || *gotReq.GenerationConfig.MaxOutputTokens != 1024 {
		t.Errorf("maxOutputTokens = %v, want 1024", gotReq.GenerationConfig.MaxOutputTokens)
	}
}

func TestGoogleClient_ExtractText(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "multiple text parts joined",
			body: `{"candidates":[{"content":{"parts":[{"text":"first"},{"text":"second"}]}}]}`,
			want: "first\nsecond",
		},
		{
			name: "function call rendered as code block",
			body: `{"candidates":[{"content":{"parts":[{"functionCall":{"name":"execute_code","args":{"x":1}}}]}}]}`,
			want: "```python\n# Tool Call: execute_code({\"x\":1})\n```",
		},
		{
			name:    "no candidates",
			body:    `{"candidates":[]}`,
			wantErr: true,
		},
		{
			name:    "candidate with no usable parts",
			body:    `{"candidates":[{"content":{"parts":[]}}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := googleStub(t, http.StatusOK, tt.body, nil, nil)
			defer srv.Close()

			client := NewGoogleClient(WithBaseURL(srv.URL))
			got, err := client.Complete(context.Background(), "key", "gemini-2.5-pro", "hi", nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Complete() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Complete() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Complete() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGoogleClient_ErrorStatus(t *testing.T) {
	body := `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`
	srv := googleStub(t, http.StatusForbidden, body, nil, nil)
	defer srv.Close()

	client := NewGoogleClient(WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), "bad-key", "gemini-2.5-pro", "hi", nil)
	if err == nil {
		t.Fatal("Complete() error = nil, want *APIError")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Message != "API key not valid" {
		t.Errorf("Message = %q, want extracted message", apiErr.Message)
	}
	if !IsAuthFailure(err) {
		t.Error("403 must classify as auth failure")
	}
}
