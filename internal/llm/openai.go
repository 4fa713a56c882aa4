package llm

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint, such as
// the Hugging Face router, OpenAI itself or a vLLM server.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

func NewOpenAI(logger *log.Logger, apiKey, baseURL, model string) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAI{
		client: &client,
		model:  model,
		logger: logger,
	}
}

func (c *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: c.model,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	c.logger.Debug("Chat completion finished",
		"model", c.model,
		"finish_reason", completion.Choices[0].FinishReason,
		"took", time.Since(start))
	return completion.Choices[0].Message.Content, nil
}
