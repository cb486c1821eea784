package ai

import (
	"github.com/sashabaranov/go-openai"
)

// GeminiBaseURL is the OpenAI-compatible endpoint of the Gemini API.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// NewGeminiModel talks to Gemini through its OpenAI-compatible chat
// completions endpoint. An empty baseURL selects GeminiBaseURL.
func NewGeminiModel(apiKey, model, baseURL string) *OpenAIModel {
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return NewOpenAIModelWithClient(openai.NewClientWithConfig(cfg), model)
}
