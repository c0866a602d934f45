package speech

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dshills/ghostpad/internal/logging"
	"github.com/dshills/ghostpad/internal/surface"
)

// Appender applies a speech result. *surface.Surface satisfies it.
type Appender interface {
	AppendSpeech(res surface.SpeechResult) bool
}

// Stats counts how a session's transcripts were applied.
type Stats struct {
	Replaced    int // ghost text replaced in place
	Appended    int // text appended at the caret
	Interrupted int // ghost text no longer before the caret
	Finals      int // utterances finished
}

// Session tracks the ghost text currently shown on a surface.
type Session struct {
	mu     sync.Mutex
	target Appender
	ghost  string
	stats  Stats
	log    *logging.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) SessionOption {
	return func(s *Session) {
		s.log = logging.OrNull(l).WithComponent("speech")
	}
}

// NewSession creates a session applying transcripts to target.
func NewSession(target Appender, opts ...SessionOption) *Session {
	s := &Session{target: target, log: logging.Null}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle applies one transcript. An interim result becomes the new ghost
// text; a final result replaces the ghost and ends the utterance.
func (s *Session) Handle(t Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Text == "" && s.ghost == "" {
		if t.Final {
			s.stats.Finals++
		}
		return
	}

	applied := s.target.AppendSpeech(surface.SpeechResult{Previous: s.ghost, Replace: t.Text})
	switch {
	case applied && s.ghost != "":
		s.stats.Replaced++
	case applied:
		s.stats.Appended++
	default:
		s.stats.Interrupted++
		s.log.Debug("ghost %q interrupted, appending at caret", s.ghost)
		if t.Text != "" {
			applied = s.target.AppendSpeech(surface.SpeechResult{Replace: t.Text})
			if applied {
				s.stats.Appended++
			}
		}
	}

	if t.Final || !applied {
		s.ghost = ""
	} else {
		s.ghost = t.Text
	}
	if t.Final {
		s.stats.Finals++
	}
}

// Ghost returns the ghost text currently shown.
func (s *Session) Ghost() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ghost
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Reset forgets the ghost text without touching the surface. The next
// transcript is appended at the caret.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ghost = ""
}

// TranscriptSource yields transcripts. Next returns io.EOF at the end.
type TranscriptSource interface {
	Next(ctx context.Context) (Transcript, error)
}

// Run feeds every transcript from src into session until src ends or ctx is
// done. The end of src is not an error.
func Run(ctx context.Context, src TranscriptSource, session *Session) error {
	for {
		t, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		session.Handle(t)
	}
}
