package surface

import (
	"errors"
	"sync"

	"github.com/dshills/ghostpad/internal/engine/history"
	"github.com/dshills/ghostpad/internal/engine/text"
	"github.com/dshills/ghostpad/internal/engine/view"
	"github.com/dshills/ghostpad/internal/logging"
	"github.com/dshills/ghostpad/internal/notify"
)

// Common errors for surface operations.
var (
	ErrDestroyed = errors.New("surface destroyed")
	ErrReadOnly  = errors.New("surface is read-only")
)

// streamGroup labels the undo entry that collects edits made while cursors
// are live.
const streamGroup = "stream"

// Surface is an editing surface with one primary view and zero or more
// streaming cursors.
type Surface struct {
	mu sync.Mutex

	log        *logging.Logger
	dispatcher *view.Dispatcher
	primary    *view.View
	cursors    []*Cursor
	history    *history.History

	readOnly  bool
	destroyed bool

	changes *notify.Feed[string]
	events  *notify.Feed[Event]
}

// New mounts a surface.
func New(opts ...Option) *Surface {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var feedOpts []notify.Option
	if o.syncNotify {
		feedOpts = append(feedOpts, notify.WithSync())
	}

	s := &Surface{
		log:        logging.OrNull(o.logger).WithComponent("surface"),
		dispatcher: view.NewDispatcher(view.WithLogger(o.logger)),
		history:    history.New(o.maxUndo),
		readOnly:   o.readOnly,
		changes:    notify.New[string](append(feedOpts, notify.WithDistinct())...),
		events:     notify.New[Event](feedOpts...),
	}

	doc := text.NewDocument(o.content)
	sel := text.Cursor(0)
	if o.selection != nil {
		sel = *o.selection
	}
	s.primary = view.New(view.KindPrimary, doc,
		view.WithSelection(sel),
		view.WithDispatch(s.commitPrimary),
	)
	return s
}

// Changes returns the feed of primary document text. Identical consecutive
// values are delivered once.
func (s *Surface) Changes() *notify.Feed[string] {
	return s.changes
}

// Events returns the feed of command events.
func (s *Surface) Events() *notify.Feed[Event] {
	return s.events
}

// Dispatch applies a user transaction to the primary view and mirrors it to
// every live cursor. Content changes are rejected while read-only;
// selection-only transactions are always accepted.
func (s *Surface) Dispatch(tx text.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrDestroyed
	}
	if s.readOnly && tx.DocChanged() {
		return ErrReadOnly
	}
	return s.primary.Dispatch(tx)
}

// Value returns the primary document text.
func (s *Surface) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ""
	}
	return s.primary.Document().String()
}

// Selection returns the primary selection, or a caret at 0 once destroyed.
func (s *Surface) Selection() text.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return text.Cursor(0)
	}
	return s.primary.Selection()
}

// SetValue replaces the whole document. Setting the current text is a no-op.
func (s *Surface) SetValue(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrDestroyed
	}
	doc := s.primary.Document()
	if doc.String() == value {
		return nil
	}
	return s.primary.Dispatch(text.Replace(0, doc.Len(), value))
}

// LoadDocument resets the surface to value with the caret at the start and an
// empty history. Live cursors are rebased onto the new document.
func (s *Surface) LoadDocument(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrDestroyed
	}

	doc := text.NewDocument(value)
	s.primary.Reset(doc, text.Cursor(0))
	for _, c := range s.cursors {
		c.view.Reset(doc.Clone(), c.view.Selection())
	}

	s.history.Clear()
	if len(s.cursors) > 0 {
		s.history.BeginGroup(streamGroup)
	}

	s.log.Debug("loaded document (%d chars)", doc.Len())
	s.changes.Publish(value)
	return nil
}

// AppendText inserts value at the end of the document.
func (s *Surface) AppendText(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrDestroyed
	}
	if value == "" {
		return nil
	}
	return s.primary.Dispatch(text.Insert(s.primary.Document().Len(), value))
}

// MoveCursorToEnd places the primary caret after the last character.
func (s *Surface) MoveCursorToEnd() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrDestroyed
	}
	return s.primary.Dispatch(text.Select(text.Cursor(s.primary.Document().Len())))
}

// SetReadOnly toggles whether user transactions may change the document.
func (s *Surface) SetReadOnly(readOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = readOnly
}

// ReadOnly reports whether the surface rejects user edits.
func (s *Surface) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

// Undo reverts the most recent undo entry.
func (s *Surface) Undo() error {
	return s.travel((*history.History).Undo)
}

// Redo reapplies the most recently undone entry.
func (s *Surface) Redo() error {
	return s.travel((*history.History).Redo)
}

// CanUndo returns true if there is something to undo.
func (s *Surface) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo returns true if there is something to redo.
func (s *Surface) CanRedo() bool {
	return s.history.CanRedo()
}

func (s *Surface) travel(step func(*history.History, history.ApplyFunc) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrDestroyed
	}
	if s.readOnly {
		return ErrReadOnly
	}

	// An open stream group is closed first so that it becomes the entry
	// being reverted.
	regroup := s.history.IsGrouping()
	if regroup {
		s.history.EndGroup()
	}
	err := step(s.history, func(tx text.Transaction) error {
		_, err := s.applyPrimary(tx, false)
		return err
	})
	if regroup {
		s.history.BeginGroup(streamGroup)
	}
	return err
}

// Run publishes a run event carrying the document text.
func (s *Surface) Run() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	value := s.primary.Document().String()
	s.mu.Unlock()

	s.events.Publish(Event{Kind: EventRun, Text: value})
}

// Escape collapses a non-empty selection to its head and returns false.
// With an empty selection it publishes an escape event and returns true.
func (s *Surface) Escape() bool {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return false
	}

	sel := s.primary.Selection()
	if !sel.IsEmpty() {
		if err := s.primary.Dispatch(text.Select(sel.Collapse())); err != nil {
			s.log.Error("collapse selection: %v", err)
		}
		s.mu.Unlock()
		return false
	}
	value := s.primary.Document().String()
	s.mu.Unlock()

	s.events.Publish(Event{Kind: EventEscape, Text: value})
	return true
}

// Blur reports the current text on the change feed, as when the surface
// loses focus.
func (s *Surface) Blur() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	value := s.primary.Document().String()
	s.mu.Unlock()

	s.changes.Publish(value)
}

// Destroy unmounts the surface. Every cursor is closed and both feeds are
// closed after pending notifications are delivered.
func (s *Surface) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true

	for _, c := range s.cursors {
		c.closed = true
		c.view.Destroy()
	}
	s.cursors = nil
	s.primary.Destroy()
	s.history.Clear()
	s.mu.Unlock()

	s.changes.Close()
	s.events.Close()
	s.log.Debug("destroyed")
}

// commitPrimary is the primary view's dispatch hook.
func (s *Surface) commitPrimary(tx text.Transaction) error {
	_, err := s.applyPrimary(tx, true)
	return err
}

// applyPrimary dispatches tx on the primary with every live cursor paired.
func (s *Surface) applyPrimary(tx text.Transaction, record bool) (view.Update, error) {
	selBefore := s.primary.Selection()

	up, err := s.dispatcher.Dispatch(tx, s.primary, s.cursorViews(nil))
	if err != nil {
		return up, err
	}
	if up.DocChanged() {
		if record {
			s.history.Push(history.NewStep(up.Changes, up.Before, selBefore, up.Selection))
		}
		s.changes.Publish(up.After.String())
	}
	return up, nil
}

// commitCursor is a cursor view's dispatch hook. The transaction is applied
// to the cursor and mirrored onto the primary, which relays it to the other
// cursors.
func (s *Surface) commitCursor(c *Cursor, tx text.Transaction) error {
	selBefore := s.primary.Selection()

	up, err := s.dispatcher.Dispatch(tx, c.view, []*view.View{s.primary})
	if err != nil {
		return err
	}
	if !up.DocChanged() || !contains(up.Mirrored, s.primary.ID()) {
		return nil
	}

	s.dispatcher.Mirror(up.Changes, up.Before, s.primary.ID(), s.cursorViews(c))
	s.history.Push(history.NewStep(up.Changes, up.Before, selBefore, s.primary.Selection()))
	s.changes.Publish(s.primary.Document().String())
	return nil
}

func (s *Surface) cursorViews(exclude *Cursor) []*view.View {
	views := make([]*view.View, 0, len(s.cursors))
	for _, c := range s.cursors {
		if c != exclude {
			views = append(views, c.view)
		}
	}
	return views
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
