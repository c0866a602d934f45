package persist

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/ghostpad/internal/logging"
	"github.com/dshills/ghostpad/internal/notify"
)

// DefaultDelay is the quiet period an Autosaver waits for before saving.
const DefaultDelay = 500 * time.Millisecond

// Autosaver saves the newest text published on a feed once the feed has been
// quiet for a delay. Saves never run concurrently with each other.
type Autosaver struct {
	store Store
	key   string
	delay time.Duration
	log   *logging.Logger

	mu      sync.Mutex
	pending string
	dirty   bool
	seq     uint64
	timer   *time.Timer
	last    Record
	saved   bool
	// inflight is the text being written while saving is set.
	inflight string
	saving   bool
	sub     *notify.Subscription
	closed  bool
	onSave  func(Record)
	onError func(error)

	saveMu sync.Mutex
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

// WithDelay sets the quiet period. Non-positive values use DefaultDelay.
func WithDelay(d time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		if d > 0 {
			a.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) AutosaveOption {
	return func(a *Autosaver) {
		a.log = logging.OrNull(l).WithComponent("autosave")
	}
}

// WithSaveHandler registers a callback run after every successful save.
func WithSaveHandler(fn func(Record)) AutosaveOption {
	return func(a *Autosaver) {
		a.onSave = fn
	}
}

// WithErrorHandler registers a callback for background save failures.
func WithErrorHandler(fn func(error)) AutosaveOption {
	return func(a *Autosaver) {
		a.onError = fn
	}
}

// NewAutosaver creates an autosaver writing to store under key.
func NewAutosaver(store Store, key string, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		store: store,
		key:   key,
		delay: DefaultDelay,
		log:   logging.Null,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Attach subscribes the autosaver to feed. Only one feed can be attached;
// attaching again replaces the previous subscription.
func (a *Autosaver) Attach(feed *notify.Feed[string]) {
	sub := feed.Subscribe(a.Update)

	a.mu.Lock()
	prev := a.sub
	a.sub = sub
	a.mu.Unlock()

	prev.Unsubscribe()
}

// Seed records text as already saved, so an identical update does not
// trigger a save.
func (a *Autosaver) Seed(rec Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = rec
	a.saved = true
}

// Update schedules text to be saved after the quiet period.
func (a *Autosaver) Update(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if a.matchesStored(text) {
		a.dirty = false
		a.seq++
		return
	}

	a.pending = text
	a.dirty = true
	a.seq++
	seq := a.seq

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		a.fire(seq)
	})
}

// matchesStored reports whether text is what the store holds, or will hold
// once the running save completes.
func (a *Autosaver) matchesStored(text string) bool {
	if a.saving {
		return a.inflight == text
	}
	return a.saved && a.last.Text == text
}

func (a *Autosaver) fire(seq uint64) {
	a.mu.Lock()
	if !a.dirty || a.seq != seq {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	if err := a.Flush(context.Background()); err != nil {
		a.log.Warn("background save of %q failed: %v", a.key, err)
		if a.onError != nil {
			a.onError(err)
		}
	}
}

// Flush saves pending text immediately. It is a no-op when nothing is
// pending.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return nil
	}
	text := a.pending
	seq := a.seq
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.saving = true
	a.inflight = text
	a.mu.Unlock()

	rec, err := a.store.Save(ctx, a.key, text)

	a.mu.Lock()
	a.saving = false
	if err != nil {
		// An update matching the failed text cleared dirty; restore it.
		if !a.dirty {
			a.pending = text
			a.dirty = true
		}
		a.mu.Unlock()
		return err
	}
	a.last = rec
	a.saved = true
	// Text published while saving stays pending.
	if a.seq == seq {
		a.dirty = false
	}
	a.mu.Unlock()

	a.log.Debug("saved %q revision %s (%d bytes)", a.key, rec.Revision, len(rec.Text))
	if a.onSave != nil {
		a.onSave(rec)
	}
	return nil
}

// Pending reports whether text is waiting to be saved.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// Last returns the most recently saved record.
func (a *Autosaver) Last() (Record, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last, a.saved
}

// Close detaches from the feed and flushes pending text. Updates after Close
// are ignored.
func (a *Autosaver) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	sub := a.sub
	a.sub = nil
	a.mu.Unlock()

	sub.Unsubscribe()
	return a.Flush(ctx)
}
