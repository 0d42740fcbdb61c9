// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// JudgeClient abstracts the hosted language model that classifies papers,
// so tests can supply a stub. The reply is free text parsed by
// ExtractVerdict. Calls are not retried; a failed call fails the run.
type JudgeClient interface {
	Classify(ctx context.Context, system, user string) (string, error)
}

// Provider default chat-completion endpoints and models.
const (
	deepseekBaseURL = "https://api.deepseek.com"
	openaiBaseURL   = "https://api.openai.com"

	deepseekDefaultModel = "deepseek-chat"
	openaiDefaultModel   = "gpt-4o-mini"
)

// OpenAIBackend calls an OpenAI-compatible /v1/chat/completions endpoint.
// DeepSeek speaks the same wire format, so both providers share this
// backend and differ only in base URL and default model.
type OpenAIBackend struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client
}

// NewOpenAIBackend builds a backend for the given provider, applying the
// provider's base URL and default model.
func NewOpenAIBackend(cfg types.JudgeConfig) (*OpenAIBackend, error) {
	b := &OpenAIBackend{
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
		Client: &http.Client{Timeout: cfg.Timeout},
	}
	switch cfg.Provider {
	case types.ProviderDeepSeek:
		b.BaseURL = deepseekBaseURL
		if b.Model == "" {
			b.Model = deepseekDefaultModel
		}
	case types.ProviderOpenAI:
		b.BaseURL = openaiBaseURL
		if b.Model == "" {
			b.Model = openaiDefaultModel
		}
	default:
		return nil, fmt.Errorf("provider %q is not OpenAI-compatible", cfg.Provider)
	}
	return b, nil
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Classify sends the system and user messages and returns the model's
// raw reply text.
func (b *OpenAIBackend) Classify(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: b.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := b.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat completions API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat completions API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}

	if cResp.Error != nil {
		return "", fmt.Errorf("chat completions API error: %s", cResp.Error.Message)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat response")
	}

	return cResp.Choices[0].Message.Content, nil
}
