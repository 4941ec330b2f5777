// Package ai adapts the OpenAI-compatible chat completion API to the
// CompletionClient port.
package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"crossroads-backend/application/ports"
	"crossroads-backend/infrastructure/config"
	pkgerrors "crossroads-backend/pkg/errors"
)

// OpenAIClient implements ports.CompletionClient against any
// OpenAI-compatible chat endpoint. It performs a single request per call
// with no retries; retry policy belongs to the caller.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient creates a completion client from configuration. An empty
// base URL targets the public OpenAI API.
func NewOpenAIClient(cfg *config.Config, logger *zap.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenAIModel,
		logger: logger,
	}
}

// Complete sends one system+user exchange and returns the text of the
// first choice. An unreachable endpoint, a non-success status, or an empty
// choice list all surface as upstream errors.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, sampling ports.SamplingConfig) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:        sampling.MaxTokens,
		Temperature:      sampling.Temperature,
		TopP:             sampling.TopP,
		FrequencyPenalty: sampling.FrequencyPenalty,
		PresencePenalty:  sampling.PresencePenalty,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Warn("Completion request failed",
			zap.String("model", c.model),
			zap.Error(err),
		)
		return "", pkgerrors.ErrCompletionFailed.WithCause(err)
	}
	if len(resp.Choices) == 0 {
		return "", pkgerrors.ErrEmptyCompletion.WithDetail("model", c.model)
	}

	c.logger.Debug("Completion received",
		zap.String("model", c.model),
		zap.String("finishReason", string(resp.Choices[0].FinishReason)),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}
