// Package notify provides ordered change feeds.
//
// A Feed delivers published values to its observers in publish order. With
// WithDistinct a value equal to the previously published one is dropped, so
// observers see each distinct consecutive value exactly once.
//
// By default delivery runs on a feed goroutine, which lets observers call
// back into the publisher without deadlocking. WithSync delivers inline on
// the publishing goroutine instead.
package notify

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Observer is called for each delivered value.
type Observer[T any] func(value T)

// Subscription represents an active observer registration.
type Subscription struct {
	id     uint64
	cancel func(id uint64)
}

// Unsubscribe removes the observer. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.cancel != nil {
		s.cancel(s.id)
	}
}

// Feed publishes values of type T to observers.
type Feed[T comparable] struct {
	mu sync.Mutex

	observers map[uint64]Observer[T]
	order     []uint64
	nextID    uint64

	distinct bool
	last     T
	hasLast  bool

	sync    bool
	queue   []T
	wake    chan struct{}
	done    chan struct{}
	drained chan struct{}
	closed  bool

	// loopID identifies the delivery goroutine.
	loopID atomic.Uint64
}

// Option configures a Feed.
type Option func(*feedOptions)

type feedOptions struct {
	distinct bool
	sync     bool
}

// WithDistinct drops values equal to the last published value.
func WithDistinct() Option {
	return func(o *feedOptions) {
		o.distinct = true
	}
}

// WithSync delivers on the publishing goroutine.
func WithSync() Option {
	return func(o *feedOptions) {
		o.sync = true
	}
}

// New creates a feed.
func New[T comparable](opts ...Option) *Feed[T] {
	var o feedOptions
	for _, opt := range opts {
		opt(&o)
	}

	f := &Feed[T]{
		observers: make(map[uint64]Observer[T]),
		distinct:  o.distinct,
		sync:      o.sync,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		drained:   make(chan struct{}),
	}
	if f.sync {
		close(f.drained)
	} else {
		go f.loop()
	}
	return f
}

// Subscribe registers an observer for future values.
func (f *Feed[T]) Subscribe(observer Observer[T]) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.observers[id] = observer
	f.order = append(f.order, id)

	return &Subscription{id: id, cancel: f.unsubscribe}
}

func (f *Feed[T]) unsubscribe(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.observers[id]; !ok {
		return
	}
	delete(f.observers, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Publish sends value to all observers. It returns false when the value was
// dropped, either as a duplicate or because the feed is closed.
func (f *Feed[T]) Publish(value T) bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	if f.distinct && f.hasLast && f.last == value {
		f.mu.Unlock()
		return false
	}
	f.last = value
	f.hasLast = true

	if f.sync {
		observers := f.snapshotLocked()
		f.mu.Unlock()
		deliver(observers, value)
		return true
	}

	f.queue = append(f.queue, value)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
	return true
}

// Last returns the most recently published value.
func (f *Feed[T]) Last() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.hasLast
}

// Close stops the feed. Values already queued are still delivered before
// Close returns. When an observer closes its own feed, Close returns at once
// and the remaining values are delivered after the observer returns. It is
// safe to call Close multiple times.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	first := !f.closed
	f.closed = true
	f.mu.Unlock()

	if first {
		close(f.done)
	}
	if f.delivering() {
		return
	}
	<-f.drained
}

// delivering reports whether the caller is running on the delivery goroutine.
func (f *Feed[T]) delivering() bool {
	id := f.loopID.Load()
	return id != 0 && id == goroutineID()
}

// goroutineID parses the current goroutine's id from its stack header,
// which reads "goroutine N [...".
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (f *Feed[T]) snapshotLocked() []Observer[T] {
	observers := make([]Observer[T], 0, len(f.order))
	for _, id := range f.order {
		observers = append(observers, f.observers[id])
	}
	return observers
}

func (f *Feed[T]) loop() {
	f.loopID.Store(goroutineID())
	defer close(f.drained)
	for {
		select {
		case <-f.wake:
			f.drain()
		case <-f.done:
			f.drain()
			return
		}
	}
}

func (f *Feed[T]) drain() {
	for {
		f.mu.Lock()
		if len(f.queue) == 0 {
			f.mu.Unlock()
			return
		}
		value := f.queue[0]
		f.queue = f.queue[1:]
		observers := f.snapshotLocked()
		f.mu.Unlock()

		deliver(observers, value)
	}
}

func deliver[T any](observers []Observer[T], value T) {
	for _, obs := range observers {
		obs(value)
	}
}
