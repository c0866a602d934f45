package stream

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when Prompt.Model is empty.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// NewAnthropicClient creates an Anthropic client. An empty apiKey leaves
// the SDK's environment lookup in place.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) anthropic.Client {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	return anthropic.NewClient(opts...)
}

// AnthropicSource streams a message for p.
func AnthropicSource(ctx context.Context, client *anthropic.Client, p Prompt) *EventSource[anthropic.MessageStreamEventUnion] {
	model := p.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: p.maxTokens(),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.Input)),
		},
	}
	if p.Instruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.Instruction}}
	}

	s := client.Messages.NewStreaming(ctx, params)
	return NewEventSource[anthropic.MessageStreamEventUnion](s, AnthropicText)
}

// AnthropicText returns the text of a text delta event.
func AnthropicText(ev anthropic.MessageStreamEventUnion) string {
	switch e := ev.AsAny().(type) {
	case anthropic.ContentBlockDeltaEvent:
		if d, ok := e.Delta.AsAny().(anthropic.TextDelta); ok {
			return d.Text
		}
	}
	return ""
}
