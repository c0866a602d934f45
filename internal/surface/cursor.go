package surface

import (
	"unicode/utf8"

	"github.com/dshills/ghostpad/internal/engine/text"
	"github.com/dshills/ghostpad/internal/engine/view"
)

// Cursor is a streaming cursor forked from the primary view. Text written
// through it appears in the primary document chunk by chunk.
type Cursor struct {
	s      *Surface
	view   *view.View
	closed bool
}

// SpawnCursor forks the primary document into a new cursor. The cursor's
// selection defaults to the primary selection.
func (s *Surface) SpawnCursor(opts ...CursorOption) (*Cursor, error) {
	var o cursorOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return nil, ErrDestroyed
	}

	sel := s.primary.Selection()
	if o.selection != nil {
		sel = *o.selection
	}

	c := &Cursor{s: s}
	c.view = view.New(view.KindCursor, s.primary.Document().Clone(), view.WithSelection(sel))
	c.view.SetDispatch(func(tx text.Transaction) error {
		return s.commitCursor(c, tx)
	})

	if len(s.cursors) == 0 {
		s.history.BeginGroup(streamGroup)
	}
	s.cursors = append(s.cursors, c)

	s.log.Debug("spawned cursor %s at %s", c.view.ID(), c.view.Selection())
	return c, nil
}

// ID returns the cursor's view ID.
func (c *Cursor) ID() string {
	return c.view.ID()
}

// Write inserts chunk at the cursor's head and moves the caret after it.
// Writing to a closed cursor does nothing.
func (c *Cursor) Write(chunk string) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.closed || chunk == "" {
		return
	}

	head := c.view.Selection().Head
	tx := text.Insert(head, chunk).WithSelection(text.Cursor(head + utf8.RuneCountInString(chunk)))
	if err := c.view.Dispatch(tx); err != nil {
		s.log.Error("cursor %s write: %v", c.view.ID(), err)
	}
}

// ReplaceAll replaces the cursor's whole document with value and moves the
// caret to the end.
func (c *Cursor) ReplaceAll(value string) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.closed {
		return
	}

	tx := text.Replace(0, c.view.Document().Len(), value).
		WithSelection(text.Cursor(utf8.RuneCountInString(value)))
	if err := c.view.Dispatch(tx); err != nil {
		s.log.Error("cursor %s replace: %v", c.view.ID(), err)
	}
}

// Close deregisters and destroys the cursor. It is safe to call more than
// once.
func (c *Cursor) Close() {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for i, other := range s.cursors {
		if other == c {
			s.cursors = append(s.cursors[:i], s.cursors[i+1:]...)
			break
		}
	}
	c.view.Destroy()

	if len(s.cursors) == 0 {
		s.history.EndGroup()
	}
	s.log.Debug("closed cursor %s", c.view.ID())
}

// Closed reports whether Close has been called or the surface destroyed.
func (c *Cursor) Closed() bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.closed
}

// Value returns the cursor's document text.
func (c *Cursor) Value() string {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.view.Document().String()
}

// Selection returns the cursor's selection.
func (c *Cursor) Selection() text.Selection {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.view.Selection()
}
