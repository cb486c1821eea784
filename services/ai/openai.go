package ai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

var errEmptyReply = errors.New("model returned no text")

// OpenAIModel calls the chat completions API.
type OpenAIModel struct {
	client *openai.Client
	model  string
}

func NewOpenAIModel(apiKey, model string) *OpenAIModel {
	return &OpenAIModel{client: openai.NewClient(apiKey), model: model}
}

// NewOpenAIModelWithClient wraps a preconfigured client, e.g. one pointed at
// another OpenAI-compatible endpoint.
func NewOpenAIModelWithClient(client *openai.Client, model string) *OpenAIModel {
	return &OpenAIModel{client: client, model: model}
}

func (m *OpenAIModel) Name() string { return m.model }

func (m *OpenAIModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
