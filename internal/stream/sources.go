package stream

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"
)

// DefaultChunkSize is the read size used by ReaderSource when none is given.
const DefaultChunkSize = 256

// ReaderSource yields chunks read from an io.Reader. Chunks never split a
// UTF-8 sequence.
type ReaderSource struct {
	r    io.Reader
	buf  []byte
	tail []byte
	err  error
}

// NewReaderSource reads at most size bytes per chunk.
func NewReaderSource(r io.Reader, size int) *ReaderSource {
	if size < utf8.UTFMax {
		size = DefaultChunkSize
	}
	return &ReaderSource{r: r, buf: make([]byte, size)}
}

// Next implements Source.
func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if s.err != nil {
			// Flush what is left, even if it is not valid UTF-8.
			if len(s.tail) > 0 {
				out := string(s.tail)
				s.tail = nil
				return out, nil
			}
			return "", s.err
		}

		n, err := s.r.Read(s.buf[:len(s.buf)-len(s.tail)])
		data := append(s.tail, s.buf[:n]...)
		s.tail = nil
		if err != nil {
			s.err = err
		}

		cut := completePrefix(data)
		if cut < len(data) && s.err == nil {
			s.tail = append([]byte(nil), data[cut:]...)
			data = data[:cut]
		}
		if len(data) > 0 {
			return string(data), nil
		}
	}
}

// completePrefix returns the length of the longest prefix of b that does not
// end inside an incomplete UTF-8 sequence.
func completePrefix(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return len(b)
		}
		return i
	}
	return len(b)
}

// ChanSource yields chunks received from a channel until it is closed.
type ChanSource struct {
	ch <-chan string
}

// NewChanSource creates a source reading from ch.
func NewChanSource(ch <-chan string) *ChanSource {
	return &ChanSource{ch: ch}
}

// Next implements Source.
func (s *ChanSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case chunk, ok := <-s.ch:
		if !ok {
			return "", io.EOF
		}
		return chunk, nil
	}
}

// ChunkStream is the iterator shape of the provider SDK event streams.
type ChunkStream[T any] interface {
	Next() bool
	Current() T
	Err() error
	Close() error
}

// EventSource adapts a provider event stream to a Source. Events that carry
// no text are skipped.
type EventSource[T any] struct {
	stream  ChunkStream[T]
	extract func(T) string
}

// NewEventSource wraps stream, using extract to pull text from each event.
func NewEventSource[T any](stream ChunkStream[T], extract func(T) string) *EventSource[T] {
	return &EventSource[T]{stream: stream, extract: extract}
}

// ErrNoStream is returned when a provider failed to open a stream.
var ErrNoStream = errors.New("no stream")

// Next implements Source.
func (s *EventSource[T]) Next(ctx context.Context) (string, error) {
	if s.stream == nil {
		return "", ErrNoStream
	}
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !s.stream.Next() {
			if err := s.stream.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		if text := s.extract(s.stream.Current()); text != "" {
			return text, nil
		}
	}
}

// Close closes the underlying stream.
func (s *EventSource[T]) Close() error {
	if s.stream == nil {
		return nil
	}
	return s.stream.Close()
}
