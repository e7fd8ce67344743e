package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var defaultOpenAIModels = []string{"gpt-4o-mini", "gpt-4.1-mini"}

// OpenAI is the chat-completions backend tried after Gemini.
type OpenAI struct {
	client *openai.Client
	models []string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	models := defaultOpenAIModels
	if m := strings.TrimSpace(model); m != "" {
		models = []string{m}
	}
	return &OpenAI{client: openai.NewClient(apiKey), models: models}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Close() error { return nil }

func (o *OpenAI) Models(ctx context.Context) []string { return o.models }

func (o *OpenAI) Generate(ctx context.Context, model string, req Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an interview assistant."},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.WantJSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", &QuotaError{Provider: o.Name(), Err: err}
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
