// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

const anthropicDefaultModel = "claude-sonnet-4-5-20250929"

// AnthropicBackend calls the Anthropic Messages API through the official SDK.
type AnthropicBackend struct {
	client anthropic.Client
	model  string
}

// NewAnthropicBackend builds a backend from the judge configuration.
func NewAnthropicBackend(cfg types.JudgeConfig) *AnthropicBackend {
	model := cfg.Model
	if model == "" {
		model = anthropicDefaultModel
	}
	return &AnthropicBackend{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  model,
	}
}

// Classify sends the system and user messages and returns the model's
// raw reply text.
func (b *AnthropicBackend) Classify(ctx context.Context, system, user string) (string, error) {
	message, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

// NewJudge builds the judge backend selected by cfg.Provider.
func NewJudge(cfg types.JudgeConfig) (JudgeClient, error) {
	switch cfg.Provider {
	case types.ProviderDeepSeek, types.ProviderOpenAI:
		return NewOpenAIBackend(cfg)
	case types.ProviderAnthropic:
		return NewAnthropicBackend(cfg), nil
	default:
		return nil, fmt.Errorf("unknown judge provider %q", cfg.Provider)
	}
}
