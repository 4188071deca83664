package litquiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// Backend issues a single generation call against a named model
type Backend interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	Close() error
}

// BackendFactory builds a Backend bound to one caller's credential
type BackendFactory func(ctx context.Context, credential string) (Backend, error)

// Provider names a model API family
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// CredentialPrefix returns the fixed prefix keys for this provider start with
func (p Provider) CredentialPrefix() string {
	if p == ProviderOpenAI {
		return "sk-"
	}
	return "AIza"
}

// DefaultGeminiModels lists candidates fastest and cheapest first
var DefaultGeminiModels = []string{
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

// NewBackendFactory returns the factory for a provider. baseURL only applies
// to OpenAI-compatible endpoints.
func NewBackendFactory(provider Provider, baseURL string) (BackendFactory, error) {
	switch provider {
	case ProviderGemini, "":
		return func(ctx context.Context, credential string) (Backend, error) {
			return NewGeminiBackend(ctx, credential)
		}, nil
	case ProviderOpenAI:
		return func(_ context.Context, credential string) (Backend, error) {
			return NewOpenAIBackend(credential, baseURL), nil
		}, nil
	}
	return nil, fmt.Errorf("unknown provider %q", provider)
}

// GeminiBackend generates text with the Gemini API
type GeminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates a Gemini client for a single credential
func NewGeminiBackend(ctx context.Context, apiKey string) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiBackend{client: client}, nil
}

// Generate implements Backend
func (b *GeminiBackend) Generate(ctx context.Context, model, prompt string) (string, error) {
	m := b.generativeModel(model)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if resp.UsageMetadata != nil {
		VerboseLog("Gemini token usage (%s): prompt=%d, candidates=%d, total=%d", model,
			resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount, resp.UsageMetadata.TotalTokenCount)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// generativeModel configures a model to answer with the system instruction
// in JSON mode
func (b *GeminiBackend) generativeModel(name string) *genai.GenerativeModel {
	m := b.client.GenerativeModel(name)
	m.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	m.ResponseMIMEType = "application/json"
	return m
}

// Close implements Backend
func (b *GeminiBackend) Close() error {
	return b.client.Close()
}

// OpenAIBackend generates text with any OpenAI-compatible chat endpoint
type OpenAIBackend struct {
	client *openai.Client
}

// NewOpenAIBackend creates a client for a single credential. An empty
// baseURL targets api.openai.com.
func NewOpenAIBackend(apiKey, baseURL string) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg)}
}

// Generate implements Backend
func (b *OpenAIBackend) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemInstruction,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", err
	}

	VerboseLog("Received response from %s with %d choices", model, len(resp.Choices))
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Close implements Backend
func (b *OpenAIBackend) Close() error {
	return nil
}
