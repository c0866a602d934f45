package view

import (
	"fmt"

	"github.com/dshills/ghostpad/internal/engine/text"
	"github.com/dshills/ghostpad/internal/logging"
)

// Desync describes a paired view that was skipped because its document no
// longer matched the origin's document before the transaction.
type Desync struct {
	Origin   string
	View     string
	Expected int // length of the origin's pre-transaction document
	Actual   int // length of the paired view's document
}

// String returns a human-readable description of the desync.
func (d Desync) String() string {
	return fmt.Sprintf("view %s out of sync with %s (len %d, want %d)", d.View, d.Origin, d.Actual, d.Expected)
}

// Update reports the outcome of a dispatch.
type Update struct {
	Origin    string
	Before    text.Document
	After     text.Document
	Changes   text.ChangeSet
	Selection text.Selection // origin's resulting selection
	Mirrored  []string       // IDs of paired views that received the changes
	Skipped   []string       // IDs of paired views skipped as desynchronized
}

// DocChanged returns true if the dispatch changed the origin's document.
func (u Update) DocChanged() bool {
	return !u.Changes.IsEmpty()
}

// Dispatcher applies transactions to an origin view and mirrors the changes
// onto paired views.
type Dispatcher struct {
	log      *logging.Logger
	onDesync func(Desync)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for desync diagnostics.
func WithLogger(l *logging.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = logging.OrNull(l).WithComponent("dispatch")
	}
}

// WithDesyncHandler registers a callback for skipped views.
func WithDesyncHandler(fn func(Desync)) DispatcherOption {
	return func(d *Dispatcher) {
		d.onDesync = fn
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{log: logging.Null}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch applies tx to origin and then the same changes to every live view
// in paired. Validation happens before any view is touched, so a malformed
// transaction leaves every view unchanged. Desynchronized paired views are
// skipped and reported in the returned Update; they never cause an error.
func (d *Dispatcher) Dispatch(tx text.Transaction, origin *View, paired []*View) (Update, error) {
	if !origin.Live() {
		return Update{}, ErrDestroyed
	}

	before := origin.Document()
	if err := tx.Validate(before.Len()); err != nil {
		return Update{}, err
	}
	if err := origin.Apply(tx); err != nil {
		return Update{}, err
	}

	up := Update{
		Origin:    origin.ID(),
		Before:    before,
		After:     origin.Document(),
		Changes:   tx.Changes,
		Selection: origin.Selection(),
	}
	if tx.DocChanged() {
		up.Mirrored, up.Skipped = d.Mirror(tx.Changes, before, origin.ID(), paired)
	}
	return up, nil
}

// Mirror applies cs to each live view whose document equals before.
// Views with originID, destroyed views and nil entries are ignored.
func (d *Dispatcher) Mirror(cs text.ChangeSet, before text.Document, originID string, views []*View) (mirrored, skipped []string) {
	for _, v := range views {
		if v == nil || !v.Live() || v.ID() == originID {
			continue
		}

		if !v.Document().Equal(before) {
			d.desync(Desync{
				Origin:   originID,
				View:     v.ID(),
				Expected: before.Len(),
				Actual:   v.Document().Len(),
			})
			skipped = append(skipped, v.ID())
			continue
		}

		// The documents are equal and cs validated against before, so
		// Mirror cannot fail here.
		if err := v.Mirror(cs); err != nil {
			d.log.Error("mirror into %s failed: %v", v.ID(), err)
			skipped = append(skipped, v.ID())
			continue
		}
		mirrored = append(mirrored, v.ID())
	}
	return mirrored, skipped
}

func (d *Dispatcher) desync(ds Desync) {
	d.log.Warn("skipping mirror: %s", ds)
	if d.onDesync != nil {
		d.onDesync(ds)
	}
}
