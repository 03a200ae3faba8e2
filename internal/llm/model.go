// Package llm provides the language model used for catalog enrichment,
// built on langchaingo with switchable providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/flowdexhq/flowdex/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Model wraps langchaingo LLM for text generation. After a fatal provider
// error (revoked key, exhausted credits) it stops calling the provider and
// returns ErrFatalAPI immediately.
type Model struct {
	llm       llms.Model
	modelName string
	fatal     atomic.Bool
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
	}, nil
}

// checkFatal short-circuits provider calls once the breaker has tripped.
func (m *Model) checkFatal() error {
	if m.fatal.Load() {
		return fmt.Errorf("%w: provider disabled after earlier fatal error", ErrFatalAPI)
	}
	return nil
}

// tagError wraps fatal provider errors and trips the breaker for them.
func (m *Model) tagError(err error) error {
	err = wrapFatalError(err)
	if errors.Is(err, ErrFatalAPI) {
		m.fatal.Store(true)
	}
	return err
}

// Generate generates text based on a prompt.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	if err := m.checkFatal(); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	response, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", m.tagError(err))
	}
	return response, nil
}

// GenerateWithSystem generates text with a system prompt.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := m.checkFatal(); err != nil {
		return "", fmt.Errorf("generate with system: %w", err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := m.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return "", fmt.Errorf("generate with system: %w", m.tagError(err))
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return response.Choices[0].Content, nil
}

// GenerateJSON generates a response expected to be a single JSON value and
// decodes it into out. Markdown code fences around the payload are tolerated.
func (m *Model) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	raw, err := m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return err
	}
	if err := DecodeJSONResponse(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", m.modelName, err)
	}
	return nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}
