package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/nuxa17/verbum/internal/model"
)

// defaultOllamaURL is the OpenAI-compatible endpoint of a local
// Ollama server.
const defaultOllamaURL = "http://localhost:11434/v1"

// OpenAIProvider talks to OpenAI or any OpenAI-compatible endpoint
// (Ollama exposes one), selected via BaseURL.
type OpenAIProvider struct {
	client  *openai.Client
	name    string
	model   string
	timeout time.Duration
}

// NewOpenAIProvider builds a provider from the LLM configuration.
func NewOpenAIProvider(cfg model.LLMConfig) (*OpenAIProvider, error) {
	apiKey := cfg.APIKey
	baseURL := cfg.BaseURL
	name := cfg.Provider

	if cfg.Provider == "ollama" {
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		if apiKey == "" {
			apiKey = "ollama" // The server ignores it but the client requires one
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("llm: api key is required for provider %q", cfg.Provider)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		name:    name,
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

func (p *OpenAIProvider) Name() string { return p.name }

// Summarize runs one chat completion over the report prompt.
func (p *OpenAIProvider) Summarize(ctx context.Context, req Request) (*Response, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report, req.Excerpts)
	}

	chatModel := req.Model
	if chatModel == "" {
		chatModel = p.model
	}
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You summarize rhetoric-analysis reports and never speculate beyond the provided evidence.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm: empty response from %s", p.name)
	}

	return &Response{
		Summary:    strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      chatModel,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
