// Package app wires configuration, persistence, model streaming and speech
// input around a single ghost text surface.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaioption "github.com/openai/openai-go/option"

	"github.com/dshills/ghostpad/internal/config"
	"github.com/dshills/ghostpad/internal/logging"
	"github.com/dshills/ghostpad/internal/persist"
	"github.com/dshills/ghostpad/internal/speech"
	"github.com/dshills/ghostpad/internal/stream"
	"github.com/dshills/ghostpad/internal/surface"
)

// Application owns one surface and the components that feed and persist it.
type Application struct {
	mu sync.Mutex

	opts    Options
	cfg     *config.Config
	log     *logging.Logger
	metrics *Metrics

	store    persist.Store
	surface  *surface.Surface
	autosave *persist.Autosaver
	watcher  *config.Watcher

	closed bool
}

// Options configures the application. Non-zero fields override the loaded
// configuration.
type Options struct {
	// ConfigPath is the path to a TOML or YAML configuration file.
	ConfigPath string

	// Watch reloads ConfigPath when it changes.
	Watch bool

	// Key names the persisted document.
	Key string

	// StoreDir is the directory documents are saved in. Empty keeps the
	// configured value; no directory at all keeps documents in memory.
	StoreDir string

	// Provider selects the stream source: reader, openai or anthropic.
	Provider string

	// Model overrides the provider's default model.
	Model string

	// BaseURL points the model provider at a different endpoint.
	BaseURL string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogOutput receives log lines. Defaults to stderr.
	LogOutput io.Writer

	// ReadOnly starts the surface read-only.
	ReadOnly bool

	// Lookup replaces os.LookupEnv when reading GHOSTPAD_* variables.
	Lookup config.LookupFunc
}

// apply copies the non-zero overrides onto cfg.
func (o Options) apply(cfg *config.Config) {
	if o.Key != "" {
		cfg.Persist.Key = o.Key
	}
	if o.StoreDir != "" {
		cfg.Persist.Dir = o.StoreDir
	}
	if o.Provider != "" {
		cfg.Stream.Provider = strings.ToLower(o.Provider)
	}
	if o.Model != "" {
		cfg.Stream.Model = o.Model
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.ReadOnly {
		cfg.Editor.ReadOnly = true
	}
}

// New creates an Application, loading the persisted document into a fresh
// surface.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := app.loadConfig()
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	// 2. Logging
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	if app.opts.LogOutput != nil {
		logCfg.Output = app.opts.LogOutput
	}
	app.log = logging.New(logCfg)

	// 3. Store
	if cfg.Persist.Dir != "" {
		fs, err := persist.NewFileStore(cfg.Persist.Dir)
		if err != nil {
			return &InitError{Component: "store", Err: err}
		}
		app.store = fs
	} else {
		app.store = persist.NewMemoryStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec, err := app.store.Load(ctx, cfg.Persist.Key)
	found := err == nil
	if err != nil && !errors.Is(err, persist.ErrNotFound) {
		return &InitError{Component: "store", Err: err}
	}

	// 4. Surface
	app.surface = surface.New(
		surface.WithContent(rec.Text),
		surface.WithReadOnly(cfg.Editor.ReadOnly),
		surface.WithMaxUndo(cfg.Editor.MaxUndo),
		surface.WithLogger(app.log),
	)
	if err := app.surface.MoveCursorToEnd(); err != nil {
		return &InitError{Component: "surface", Err: err}
	}

	// 5. Autosave
	app.autosave = persist.NewAutosaver(app.store, cfg.Persist.Key,
		persist.WithDelay(cfg.Persist.Debounce()),
		persist.WithLogger(app.log),
		persist.WithSaveHandler(func(persist.Record) { app.metrics.RecordSave() }),
		persist.WithErrorHandler(func(error) { app.metrics.RecordSaveError() }),
	)
	if found {
		app.autosave.Seed(rec)
	}
	app.autosave.Attach(app.surface.Changes())

	// 6. Config watcher
	if app.opts.Watch && app.opts.ConfigPath != "" {
		wopts := []config.WatcherOption{config.WithLogger(app.log)}
		if app.opts.Lookup != nil {
			wopts = append(wopts, config.WithLookup(app.opts.Lookup))
		}
		w, err := config.NewWatcher(app.opts.ConfigPath, app.reload, wopts...)
		if err != nil {
			app.surface.Destroy()
			app.autosave.Close(context.Background())
			return &InitError{Component: "watcher", Err: err}
		}
		app.watcher = w
	}

	app.log.Info("document %q ready (%d bytes, store %T)", cfg.Persist.Key, len(rec.Text), app.store)
	return nil
}

func (app *Application) loadConfig() (*config.Config, error) {
	lookup := app.opts.Lookup
	var (
		cfg *config.Config
		err error
	)
	if lookup != nil {
		cfg, err = config.LoadWithEnv(app.opts.ConfigPath, lookup)
	} else {
		cfg, err = config.Load(app.opts.ConfigPath)
	}
	if err != nil {
		return nil, err
	}
	app.opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reload applies a changed configuration file. Only settings that can
// change at runtime are picked up: the log level and the read-only flag.
func (app *Application) reload(cfg *config.Config, err error) {
	if err != nil {
		app.log.Warn("keeping previous configuration: %v", err)
		return
	}
	app.opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		app.log.Warn("keeping previous configuration: %v", err)
		return
	}

	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return
	}
	prev := app.cfg
	app.cfg = cfg
	app.mu.Unlock()

	app.log.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	app.surface.SetReadOnly(cfg.Editor.ReadOnly)
	if prev.Persist.Key != cfg.Persist.Key || prev.Persist.Dir != cfg.Persist.Dir {
		app.log.Warn("persist settings changed; restart to apply")
	}
	app.metrics.RecordReload()
}

// Surface returns the application's surface.
func (app *Application) Surface() *surface.Surface {
	return app.surface
}

// Store returns the document store.
func (app *Application) Store() persist.Store {
	return app.store
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.log
}

// Metrics returns the application metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

func (app *Application) live() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return ErrShutdown
	}
	return nil
}

// Source builds a stream source for input using the configured provider.
// The reader provider streams input itself.
func (app *Application) Source(ctx context.Context, input string) (stream.Source, error) {
	cfg := app.Config()
	sc := cfg.Stream

	prompt := stream.Prompt{
		Model:       sc.Model,
		Instruction: sc.Instruction,
		Input:       input,
		MaxTokens:   sc.MaxTokens,
	}

	switch sc.Provider {
	case config.ProviderReader:
		return stream.NewReaderSource(strings.NewReader(input), sc.ChunkSize), nil

	case config.ProviderOpenAI:
		var opts []openaioption.RequestOption
		if app.opts.BaseURL != "" {
			opts = append(opts, openaioption.WithBaseURL(app.opts.BaseURL))
		}
		client := stream.NewOpenAIClient(sc.APIKey(), opts...)
		return stream.OpenAISource(ctx, &client, prompt), nil

	case config.ProviderAnthropic:
		var opts []anthropicoption.RequestOption
		if app.opts.BaseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(app.opts.BaseURL))
		}
		client := stream.NewAnthropicClient(sc.APIKey(), opts...)
		return stream.AnthropicSource(ctx, &client, prompt), nil
	}
	return nil, ErrUnknownProvider
}

// Stream spawns a cursor at the caret and writes every chunk from src
// through it. The cursor is closed when src ends, fails or ctx is done.
func (app *Application) Stream(ctx context.Context, src stream.Source, opts ...surface.CursorOption) (stream.Stats, error) {
	if err := app.live(); err != nil {
		return stream.Stats{}, err
	}

	cursor, err := app.surface.SpawnCursor(opts...)
	if err != nil {
		return stream.Stats{}, &ComponentError{Component: "stream", Action: "spawn cursor", Err: err}
	}
	log := app.log.WithField("cursor", cursor.ID())
	log.Debug("stream started")

	stats, err := stream.Pump(ctx, src, cursor, stream.WithLogger(log))
	app.metrics.RecordStream(stats.Chunks, stats.Bytes, stats.Duration, err)
	if err != nil {
		return stats, &ComponentError{Component: "stream", Err: err}
	}
	log.Debug("stream finished: %d chunks in %s", stats.Chunks, stats.Duration)
	return stats, nil
}

// DialSpeech connects to the configured transcription endpoint.
func (app *Application) DialSpeech(ctx context.Context) (*speech.WebSocketSource, error) {
	sc := app.Config().Speech
	if sc.URL == "" {
		return nil, ErrNoSpeechURL
	}
	header := http.Header{}
	if sc.Token != "" {
		header.Set("Authorization", "Bearer "+sc.Token)
	}
	src, err := speech.DialWebSocket(ctx, sc.URL, header)
	if err != nil {
		return nil, &ComponentError{Component: "speech", Action: "dial", Err: err}
	}
	return src, nil
}

// Listen applies transcripts from src as ghost text until src ends or ctx
// is done.
func (app *Application) Listen(ctx context.Context, src speech.TranscriptSource) (speech.Stats, error) {
	if err := app.live(); err != nil {
		return speech.Stats{}, err
	}

	session := speech.NewSession(app.surface, speech.WithLogger(app.log))
	err := speech.Run(ctx, src, session)

	stats := session.Stats()
	app.metrics.RecordTranscripts(stats.Replaced + stats.Appended)
	if err != nil {
		return stats, &ComponentError{Component: "speech", Err: err}
	}
	return stats, nil
}

// Blur publishes the surface text and saves it without waiting for the
// autosave delay.
func (app *Application) Blur(ctx context.Context) error {
	if err := app.live(); err != nil {
		return err
	}
	app.surface.Blur()
	// The change feed may not have delivered yet.
	app.autosave.Update(app.surface.Value())
	return app.autosave.Flush(ctx)
}

// Shutdown destroys the surface and saves pending text. It is safe to call
// more than once.
func (app *Application) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	app.mu.Unlock()

	var errs ErrorList
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			errs.Add(&ComponentError{Component: "watcher", Action: "close", Err: err})
		}
	}

	// Destroy drains the change feed into the autosaver before it closes.
	app.surface.Destroy()
	if err := app.autosave.Close(ctx); err != nil {
		errs.Add(&ComponentError{Component: "autosave", Action: "flush", Err: err})
	}

	snap := app.metrics.Snapshot()
	app.log.Info("shutdown after %s: %d streams, %d saves", snap.Uptime.Round(time.Millisecond), snap.Streams, snap.Saves)
	return errs.AsError()
}
