package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.toml"), noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Persist.Key != "scratch" || cfg.Stream.Provider != ProviderReader {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ghostpad.toml", `
[editor]
read_only = true
max_undo = 50

[persist]
dir = "/tmp/ghostpad"
key = "notes"
debounce_ms = 250

[stream]
provider = "anthropic"
model = "claude-test"
instruction = "Continue the text."

[logging]
level = "debug"
`)

	cfg, err := LoadWithEnv(path, noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Editor.ReadOnly || cfg.Editor.MaxUndo != 50 {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Persist.Dir != "/tmp/ghostpad" || cfg.Persist.Key != "notes" {
		t.Errorf("persist = %+v", cfg.Persist)
	}
	if cfg.Persist.Debounce() != 250*time.Millisecond {
		t.Errorf("debounce = %s", cfg.Persist.Debounce())
	}
	if cfg.Stream.Provider != ProviderAnthropic || cfg.Stream.Model != "claude-test" {
		t.Errorf("stream = %+v", cfg.Stream)
	}
	// Settings absent from the file keep their defaults.
	if cfg.Stream.ChunkSize != 64 {
		t.Errorf("chunk size = %d, want default 64", cfg.Stream.ChunkSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ghostpad.yaml", `
persist:
  key: journal
stream:
  provider: openai
  max_tokens: 200
speech:
  url: wss://speech.example.com/listen
`)

	cfg, err := LoadWithEnv(path, noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Persist.Key != "journal" {
		t.Errorf("key = %q", cfg.Persist.Key)
	}
	if cfg.Stream.Provider != ProviderOpenAI || cfg.Stream.MaxTokens != 200 {
		t.Errorf("stream = %+v", cfg.Stream)
	}
	if cfg.Speech.URL != "wss://speech.example.com/listen" {
		t.Errorf("speech url = %q", cfg.Speech.URL)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yml", "")
	if _, err := LoadWithEnv(path, noEnv); err != nil {
		t.Errorf("empty yaml: %v", err)
	}
}

func TestLoadRejectsUnknownSettings(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"bad.toml", "[editor]\ntab_size = 4\n"},
		{"bad.yaml", "editor:\n  tab_size: 4\n"},
		{"broken.toml", "[editor\n"},
	}
	for _, tt := range tests {
		path := writeFile(t, dir, tt.name, tt.content)
		_, err := LoadWithEnv(path, noEnv)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%s: expected *ParseError, got %v", tt.name, err)
		}
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ghostpad.ini", "x=1")
	if _, err := LoadWithEnv(path, noEnv); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ghostpad.toml", "[logging]\nlevel = \"debug\"\n")

	cfg, err := LoadWithEnv(path, envMap(map[string]string{
		"GHOSTPAD_LOG_LEVEL":     "warn",
		"GHOSTPAD_PROVIDER":      "OpenAI",
		"GHOSTPAD_OPENAI_KEY":    "sk-test",
		"GHOSTPAD_ANTHROPIC_KEY": "ak-test",
		"GHOSTPAD_STORE_DIR":     "/data",
		"GHOSTPAD_READ_ONLY":     "true",
		"GHOSTPAD_SPEECH_URL":    "ws://localhost:9000",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Stream.Provider != ProviderOpenAI {
		t.Errorf("provider = %q", cfg.Stream.Provider)
	}
	if cfg.Stream.APIKey() != "sk-test" {
		t.Errorf("api key = %q", cfg.Stream.APIKey())
	}
	if cfg.Persist.Dir != "/data" || !cfg.Editor.ReadOnly {
		t.Errorf("config = %+v", cfg)
	}
}

func TestEnvInvalidValue(t *testing.T) {
	_, err := LoadWithEnv("", envMap(map[string]string{"GHOSTPAD_READ_ONLY": "maybe"}))
	if !errors.Is(err, ErrInvalidEnv) {
		t.Errorf("expected ErrInvalidEnv, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"logging.level", func(c *Config) { c.Logging.Level = "loud" }},
		{"editor.max_undo", func(c *Config) { c.Editor.MaxUndo = -1 }},
		{"persist.key", func(c *Config) { c.Persist.Key = "../etc" }},
		{"persist.debounce_ms", func(c *Config) { c.Persist.DebounceMS = -5 }},
		{"stream.provider", func(c *Config) { c.Stream.Provider = "gemini" }},
		{"stream.max_tokens", func(c *Config) { c.Stream.MaxTokens = -1 }},
		{"stream.chunk_size", func(c *Config) { c.Stream.ChunkSize = -1 }},
		{"speech.url", func(c *Config) { c.Speech.URL = "http://example.com" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestAPIKeyForReader(t *testing.T) {
	s := StreamConfig{Provider: ProviderReader, OpenAIKey: "x"}
	if s.APIKey() != "" {
		t.Error("reader provider should not use a key")
	}
}
