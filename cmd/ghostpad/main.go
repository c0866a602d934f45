// Package main is the entry point for the ghostpad command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/ghostpad/internal/app"
	"github.com/dshills/ghostpad/internal/config"
	"github.com/dshills/ghostpad/internal/logging"
	"github.com/dshills/ghostpad/internal/stream"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	listen bool
	quiet  bool
	input  []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	code := 0
	if err := feed(ctx, application, opts); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	text := application.Surface().Value()
	if err := application.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	}
	if !opts.quiet {
		fmt.Println(text)
	}
	return code
}

// feed streams the input, a model completion or speech into the document.
func feed(ctx context.Context, application *app.Application, opts cliOptions) error {
	if opts.listen {
		src, err := application.DialSpeech(ctx)
		if err != nil {
			return err
		}
		defer src.Close()
		if _, err := application.Listen(ctx, src); err != nil {
			return err
		}
		return application.Blur(ctx)
	}

	cfg := application.Config()
	var src stream.Source
	if cfg.Stream.Provider == config.ProviderReader && len(opts.input) == 0 {
		src = stream.NewReaderSource(os.Stdin, cfg.Stream.ChunkSize)
	} else {
		input := strings.Join(opts.input, " ")
		if input == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			input = string(data)
		}
		var err error
		if src, err = application.Source(ctx, input); err != nil {
			return err
		}
	}

	if _, err := application.Stream(ctx, src); err != nil {
		return err
	}
	return application.Blur(ctx)
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the configuration file when it changes")
	flag.StringVar(&opts.Key, "key", "", "Name of the persisted document")
	flag.StringVar(&opts.Key, "k", "", "Name of the persisted document (shorthand)")
	flag.StringVar(&opts.StoreDir, "store", "", "Directory documents are saved in")
	flag.StringVar(&opts.Provider, "provider", "", "Stream source (reader, openai, anthropic)")
	flag.StringVar(&opts.Provider, "p", "", "Stream source (shorthand)")
	flag.StringVar(&opts.Model, "model", "", "Model name for the provider")
	flag.StringVar(&opts.BaseURL, "base-url", "", "Provider API base URL")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the document read-only")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open the document read-only (shorthand)")
	flag.BoolVar(&opts.listen, "listen", false, "Append speech transcripts from the configured endpoint")
	flag.BoolVar(&opts.quiet, "q", false, "Do not print the document when done")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Ghostpad - streaming scratch pad\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ghostpad [options] [input...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  echo notes | ghostpad -k todo        Append stdin to the todo document\n")
		fmt.Fprintf(os.Stderr, "  ghostpad -p openai \"write a haiku\"    Stream a completion into scratch\n")
		fmt.Fprintf(os.Stderr, "  ghostpad -listen -k memo              Dictate into the memo document\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Ghostpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	opts.input = flag.Args()
	return opts
}
