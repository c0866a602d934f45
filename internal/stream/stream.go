package stream

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dshills/ghostpad/internal/logging"
)

// Source yields text chunks. Next returns io.EOF when no chunks remain.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// Writer receives chunks. *surface.Cursor satisfies it.
type Writer interface {
	Write(chunk string)
	Close()
}

// Stats describes a finished pump.
type Stats struct {
	Chunks   int
	Bytes    int
	Duration time.Duration
}

// PumpOption configures Pump.
type PumpOption func(*pumpOptions)

type pumpOptions struct {
	log *logging.Logger
}

// WithLogger sets the logger used for stream lifecycle messages.
func WithLogger(l *logging.Logger) PumpOption {
	return func(o *pumpOptions) {
		o.log = l
	}
}

// Pump writes every chunk from src to w until src is exhausted, fails, or
// ctx is done. w is closed on every path. If src is an io.Closer it is
// closed as well. Reaching the end of src is not an error.
func Pump(ctx context.Context, src Source, w Writer, opts ...PumpOption) (Stats, error) {
	var o pumpOptions
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.OrNull(o.log).WithComponent("stream")

	start := time.Now()
	var stats Stats

	defer func() {
		w.Close()
		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Debug("close source: %v", err)
			}
		}
	}()

	log.Info("stream opened")
	for {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			log.Warn("stream aborted after %d chunks: %v", stats.Chunks, err)
			return stats, err
		}

		chunk, err := src.Next(ctx)
		if chunk != "" {
			w.Write(chunk)
			stats.Chunks++
			stats.Bytes += len(chunk)
		}
		if err != nil {
			stats.Duration = time.Since(start)
			if errors.Is(err, io.EOF) {
				log.Info("stream closed: %d chunks, %d bytes in %s", stats.Chunks, stats.Bytes, stats.Duration)
				return stats, nil
			}
			log.Warn("stream failed after %d chunks: %v", stats.Chunks, err)
			return stats, err
		}
	}
}
