package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"
	"unicode/utf8"
)

type recordWriter struct {
	mu     sync.Mutex
	chunks []string
	closed int
}

func (w *recordWriter) Write(chunk string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed > 0 {
		return
	}
	w.chunks = append(w.chunks, chunk)
}

func (w *recordWriter) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed++
}

func (w *recordWriter) text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.chunks, "")
}

type sliceSource struct {
	chunks []string
	err    error
	closed bool
}

func (s *sliceSource) Next(ctx context.Context) (string, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func TestPumpWritesInOrder(t *testing.T) {
	src := &sliceSource{chunks: []string{"Hel", "lo, ", "world"}}
	w := &recordWriter{}

	stats, err := Pump(context.Background(), src, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.text(); got != "Hello, world" {
		t.Errorf("text = %q", got)
	}
	if stats.Chunks != 3 || stats.Bytes != 12 {
		t.Errorf("stats = %+v", stats)
	}
	if w.closed != 1 {
		t.Errorf("writer closed %d times, want 1", w.closed)
	}
	if !src.closed {
		t.Error("source not closed")
	}
}

func TestPumpClosesOnError(t *testing.T) {
	boom := errors.New("connection reset")
	src := &sliceSource{chunks: []string{"partial"}, err: boom}
	w := &recordWriter{}

	_, err := Pump(context.Background(), src, w)
	if !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
	if w.text() != "partial" {
		t.Errorf("text = %q", w.text())
	}
	if w.closed != 1 {
		t.Error("writer not closed on error")
	}
}

func TestPumpClosesOnCancel(t *testing.T) {
	ch := make(chan string)
	w := &recordWriter{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Pump(ctx, NewChanSource(ch), w)
		done <- err
	}()

	ch <- "first"
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not stop on cancel")
	}
	if w.closed != 1 {
		t.Error("writer not closed on cancel")
	}
	if w.text() != "first" {
		t.Errorf("text = %q", w.text())
	}
}

func TestChanSource(t *testing.T) {
	ch := make(chan string, 2)
	ch <- "a"
	ch <- "b"
	close(ch)

	w := &recordWriter{}
	if _, err := Pump(context.Background(), NewChanSource(ch), w); err != nil {
		t.Fatal(err)
	}
	if w.text() != "ab" {
		t.Errorf("text = %q", w.text())
	}
}

func TestReaderSourceKeepsRunesWhole(t *testing.T) {
	input := "héllo wörld ✓ 日本語"
	src := NewReaderSource(iotest.OneByteReader(strings.NewReader(input)), 4)

	var got []string
	for {
		chunk, err := src.Next(context.Background())
		if chunk != "" {
			if !utf8.ValidString(chunk) {
				t.Fatalf("chunk %q splits a rune", chunk)
			}
			got = append(got, chunk)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if joined := strings.Join(got, ""); joined != input {
		t.Errorf("got %q, want %q", joined, input)
	}
}

func TestReaderSourceChunkSize(t *testing.T) {
	src := NewReaderSource(strings.NewReader(strings.Repeat("x", 10)), 4)

	var sizes []int
	for {
		chunk, err := src.Next(context.Background())
		if chunk != "" {
			sizes = append(sizes, len(chunk))
		}
		if err != nil {
			break
		}
	}
	want := []int{4, 4, 2}
	if len(sizes) != len(want) {
		t.Fatalf("sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("sizes = %v, want %v", sizes, want)
		}
	}
}

func TestCompletePrefix(t *testing.T) {
	check := []byte("a✓")
	tests := []struct {
		in   []byte
		want int
	}{
		{[]byte("abc"), 3},
		{check, 4},
		{check[:3], 1},
		{check[:2], 1},
		{[]byte{}, 0},
	}
	for _, tt := range tests {
		if got := completePrefix(tt.in); got != tt.want {
			t.Errorf("completePrefix(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

type fakeStream struct {
	events []int
	pos    int
	err    error
	closed bool
}

func (f *fakeStream) Next() bool {
	if f.pos >= len(f.events) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeStream) Current() int {
	return f.events[f.pos-1]
}

func (f *fakeStream) Err() error {
	if f.pos >= len(f.events) {
		return f.err
	}
	return nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func TestEventSourceSkipsEmptyEvents(t *testing.T) {
	fs := &fakeStream{events: []int{1, 0, 2, 0, 3}}
	src := NewEventSource[int](fs, func(n int) string {
		if n == 0 {
			return ""
		}
		return strings.Repeat("*", n)
	})

	w := &recordWriter{}
	stats, err := Pump(context.Background(), src, w)
	if err != nil {
		t.Fatal(err)
	}
	if w.text() != "******" || stats.Chunks != 3 {
		t.Errorf("text = %q, chunks = %d", w.text(), stats.Chunks)
	}
	if !fs.closed {
		t.Error("stream not closed")
	}
}

func TestEventSourceError(t *testing.T) {
	boom := errors.New("overloaded")
	fs := &fakeStream{events: []int{1}, err: boom}
	src := NewEventSource[int](fs, func(int) string { return "x" })

	if _, err := Pump(context.Background(), src, &recordWriter{}); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}
