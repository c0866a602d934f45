package view

import (
	"errors"

	"github.com/google/uuid"

	"github.com/dshills/ghostpad/internal/engine/text"
)

// ErrDestroyed is returned when dispatching to a destroyed view.
var ErrDestroyed = errors.New("view destroyed")

// Kind identifies the role of a view.
type Kind uint8

const (
	// KindPrimary is the durable, user-editable view of a surface.
	KindPrimary Kind = iota
	// KindCursor is an ephemeral view used to stream generated text.
	KindCursor
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindCursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// DispatchFunc routes a transaction dispatched on a view.
type DispatchFunc func(tx text.Transaction) error

// View is a document projection with an independent selection.
type View struct {
	id        string
	kind      Kind
	doc       text.Document
	sel       text.Selection
	dispatch  DispatchFunc
	destroyed bool
}

// Option configures a View.
type Option func(*View)

// WithSelection sets the initial selection. It is clamped to the document.
func WithSelection(sel text.Selection) Option {
	return func(v *View) {
		v.sel = sel
	}
}

// WithDispatch installs the function Dispatch routes through.
func WithDispatch(fn DispatchFunc) Option {
	return func(v *View) {
		v.dispatch = fn
	}
}

// WithID overrides the generated view ID.
func WithID(id string) Option {
	return func(v *View) {
		if id != "" {
			v.id = id
		}
	}
}

// New creates a live view over doc with a caret at the start.
func New(kind Kind, doc text.Document, opts ...Option) *View {
	v := &View{
		id:   uuid.New().String(),
		kind: kind,
		doc:  doc,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.sel = v.sel.Clamp(doc.Len())
	return v
}

// ID returns the unique view ID.
func (v *View) ID() string {
	return v.id
}

// Kind returns the view kind.
func (v *View) Kind() Kind {
	return v.kind
}

// Document returns the current document revision.
func (v *View) Document() text.Document {
	return v.doc
}

// Selection returns the current selection.
func (v *View) Selection() text.Selection {
	return v.sel
}

// Live returns true until the view is destroyed.
func (v *View) Live() bool {
	return !v.destroyed
}

// SetDispatch replaces the dispatch hook.
func (v *View) SetDispatch(fn DispatchFunc) {
	v.dispatch = fn
}

// Dispatch routes tx through the installed hook, or applies it directly
// when no hook is installed.
func (v *View) Dispatch(tx text.Transaction) error {
	if v.destroyed {
		return ErrDestroyed
	}
	if v.dispatch != nil {
		return v.dispatch(tx)
	}
	return v.Apply(tx)
}

// Apply validates tx and commits it to this view only. When tx carries no
// selection the current selection is mapped through the changes.
func (v *View) Apply(tx text.Transaction) error {
	if v.destroyed {
		return ErrDestroyed
	}
	if err := tx.Validate(v.doc.Len()); err != nil {
		return err
	}

	next, err := v.doc.Apply(tx.Changes)
	if err != nil {
		return err
	}

	v.doc = next
	if tx.Selection != nil {
		v.sel = *tx.Selection
	} else {
		v.sel = v.sel.Map(tx.Changes)
	}
	return nil
}

// Mirror applies changes made on another view. The selection is mapped,
// never replaced.
func (v *View) Mirror(cs text.ChangeSet) error {
	return v.Apply(text.Transaction{Changes: cs})
}

// Reset replaces the document and selection without a transaction.
func (v *View) Reset(doc text.Document, sel text.Selection) {
	v.doc = doc
	v.sel = sel.Clamp(doc.Len())
}

// Destroy releases the view. Later dispatches fail with ErrDestroyed.
func (v *View) Destroy() {
	v.destroyed = true
	v.dispatch = nil
	v.doc = text.Document{}
}
