package config

import (
	"time"
)

// Stream providers.
const (
	ProviderReader    = "reader"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the complete ghostpad configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Persist PersistConfig `toml:"persist" yaml:"persist"`
	Stream  StreamConfig  `toml:"stream" yaml:"stream"`
	Speech  SpeechConfig  `toml:"speech" yaml:"speech"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EditorConfig configures the editing surface.
type EditorConfig struct {
	// ReadOnly rejects user edits. Streams and speech still apply.
	ReadOnly bool `toml:"read_only" yaml:"read_only"`

	// MaxUndo is the number of undo entries kept.
	MaxUndo int `toml:"max_undo" yaml:"max_undo"`
}

// PersistConfig configures document persistence.
type PersistConfig struct {
	// Dir is the file store directory. Empty keeps documents in memory.
	Dir string `toml:"dir" yaml:"dir"`

	// Key names the document within the store.
	Key string `toml:"key" yaml:"key"`

	// DebounceMS is the autosave quiet period in milliseconds.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// Debounce returns DebounceMS as a duration.
func (p PersistConfig) Debounce() time.Duration {
	return time.Duration(p.DebounceMS) * time.Millisecond
}

// StreamConfig configures the text producer streamed into the document.
type StreamConfig struct {
	// Provider is "reader", "openai" or "anthropic".
	Provider string `toml:"provider" yaml:"provider"`

	// Model overrides the provider's default model.
	Model string `toml:"model" yaml:"model"`

	// Instruction is sent as the system prompt.
	Instruction string `toml:"instruction" yaml:"instruction"`

	// MaxTokens bounds model completions.
	MaxTokens int64 `toml:"max_tokens" yaml:"max_tokens"`

	// ChunkSize is the read size of the reader provider in bytes.
	ChunkSize int `toml:"chunk_size" yaml:"chunk_size"`

	// API keys. Prefer the environment over config files for these.
	OpenAIKey    string `toml:"openai_key" yaml:"openai_key"`
	AnthropicKey string `toml:"anthropic_key" yaml:"anthropic_key"`
}

// APIKey returns the key for the configured provider.
func (s StreamConfig) APIKey() string {
	switch s.Provider {
	case ProviderOpenAI:
		return s.OpenAIKey
	case ProviderAnthropic:
		return s.AnthropicKey
	default:
		return ""
	}
}

// SpeechConfig configures the transcription feed.
type SpeechConfig struct {
	// URL is the ws:// or wss:// transcription endpoint. Empty disables
	// speech.
	URL string `toml:"url" yaml:"url"`

	// Token is sent as "Authorization: Token <token>".
	Token string `toml:"token" yaml:"token"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			MaxUndo: 1000,
		},
		Persist: PersistConfig{
			Key:        "scratch",
			DebounceMS: 500,
		},
		Stream: StreamConfig{
			Provider:  ProviderReader,
			MaxTokens: 1024,
			ChunkSize: 64,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
