package stream

// Prompt is a completion request sent to a model provider.
type Prompt struct {
	Model       string
	Instruction string // system prompt; optional
	Input       string
	MaxTokens   int64
}

// DefaultMaxTokens bounds completions when Prompt.MaxTokens is unset.
const DefaultMaxTokens = 1024

func (p Prompt) maxTokens() int64 {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return DefaultMaxTokens
}
