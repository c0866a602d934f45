package stream

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used when Prompt.Model is empty.
const DefaultOpenAIModel = "gpt-4o-mini"

// NewOpenAIClient creates an OpenAI client. An empty apiKey leaves the
// SDK's environment lookup in place.
func NewOpenAIClient(apiKey string, opts ...option.RequestOption) openai.Client {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	return openai.NewClient(opts...)
}

// OpenAISource streams a chat completion for p.
func OpenAISource(ctx context.Context, client *openai.Client, p Prompt) *EventSource[openai.ChatCompletionChunk] {
	model := p.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if p.Instruction != "" {
		messages = append(messages, openai.SystemMessage(p.Instruction))
	}
	messages = append(messages, openai.UserMessage(p.Input))

	s := client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(p.maxTokens()),
	})
	return NewEventSource[openai.ChatCompletionChunk](s, OpenAIText)
}

// OpenAIText returns the content delta of the first choice.
func OpenAIText(chunk openai.ChatCompletionChunk) string {
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}
