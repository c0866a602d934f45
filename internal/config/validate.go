package config

import (
	"net/url"

	"github.com/dshills/ghostpad/internal/logging"
	"github.com/dshills/ghostpad/internal/persist"
)

// Validate checks every setting and returns the first problem as a
// *ValidationError.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return &ValidationError{Field: "logging.level", Value: c.Logging.Level, Message: "must be debug, info, warn or error"}
	}
	if c.Editor.MaxUndo < 0 {
		return &ValidationError{Field: "editor.max_undo", Value: c.Editor.MaxUndo, Message: "must not be negative"}
	}
	if !persist.ValidKey(c.Persist.Key) {
		return &ValidationError{Field: "persist.key", Value: c.Persist.Key, Message: "must use letters, digits, '.', '_' or '-'"}
	}
	if c.Persist.DebounceMS < 0 {
		return &ValidationError{Field: "persist.debounce_ms", Value: c.Persist.DebounceMS, Message: "must not be negative"}
	}

	switch c.Stream.Provider {
	case ProviderReader, ProviderOpenAI, ProviderAnthropic:
	default:
		return &ValidationError{Field: "stream.provider", Value: c.Stream.Provider, Message: "must be reader, openai or anthropic"}
	}
	if c.Stream.MaxTokens < 0 {
		return &ValidationError{Field: "stream.max_tokens", Value: c.Stream.MaxTokens, Message: "must not be negative"}
	}
	if c.Stream.ChunkSize < 0 {
		return &ValidationError{Field: "stream.chunk_size", Value: c.Stream.ChunkSize, Message: "must not be negative"}
	}

	if c.Speech.URL != "" {
		u, err := url.Parse(c.Speech.URL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return &ValidationError{Field: "speech.url", Value: c.Speech.URL, Message: "must be a ws:// or wss:// URL"}
		}
	}
	return nil
}
