package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "GHOSTPAD_"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envBinding maps one environment variable onto a setting.
type envBinding struct {
	name  string
	field string
	set   func(c *Config, v string) error
}

func envBindings() []envBinding {
	return []envBinding{
		{"LOG_LEVEL", "logging.level", func(c *Config, v string) error {
			c.Logging.Level = v
			return nil
		}},
		{"READ_ONLY", "editor.read_only", func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			c.Editor.ReadOnly = b
			return err
		}},
		{"STORE_DIR", "persist.dir", func(c *Config, v string) error {
			c.Persist.Dir = v
			return nil
		}},
		{"DOC_KEY", "persist.key", func(c *Config, v string) error {
			c.Persist.Key = v
			return nil
		}},
		{"PROVIDER", "stream.provider", func(c *Config, v string) error {
			c.Stream.Provider = strings.ToLower(v)
			return nil
		}},
		{"MODEL", "stream.model", func(c *Config, v string) error {
			c.Stream.Model = v
			return nil
		}},
		{"MAX_TOKENS", "stream.max_tokens", func(c *Config, v string) error {
			n, err := strconv.ParseInt(v, 10, 64)
			c.Stream.MaxTokens = n
			return err
		}},
		{"OPENAI_KEY", "stream.openai_key", func(c *Config, v string) error {
			c.Stream.OpenAIKey = v
			return nil
		}},
		{"ANTHROPIC_KEY", "stream.anthropic_key", func(c *Config, v string) error {
			c.Stream.AnthropicKey = v
			return nil
		}},
		{"SPEECH_URL", "speech.url", func(c *Config, v string) error {
			c.Speech.URL = v
			return nil
		}},
		{"SPEECH_TOKEN", "speech.token", func(c *Config, v string) error {
			c.Speech.Token = v
			return nil
		}},
	}
}

// ApplyEnv overrides settings from GHOSTPAD_* variables. Empty values are
// treated as set.
func ApplyEnv(c *Config, lookup LookupFunc) error {
	for _, b := range envBindings() {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		if err := b.set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s (%s): %w", EnvPrefix, b.name, b.field, ErrInvalidEnv)
		}
	}
	return nil
}
