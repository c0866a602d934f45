package text

import "fmt"

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is where typing occurs.
// When Anchor == Head the selection is a plain caret.
// Selection is an immutable value type.
type Selection struct {
	Anchor int
	Head   int
}

// Cursor creates a collapsed selection at pos.
func Cursor(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// Range creates a selection from anchor to head.
func Range(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty returns true if the selection is a caret.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Len returns the number of selected runes.
func (s Selection) Len() int {
	return s.To() - s.From()
}

// Collapse returns a caret at the head.
func (s Selection) Collapse() Selection {
	return Cursor(s.Head)
}

// Clamp returns the selection with both ends limited to [0, length].
func (s Selection) Clamp(length int) Selection {
	return Selection{
		Anchor: clamp(s.Anchor, 0, length),
		Head:   clamp(s.Head, 0, length),
	}
}

// Validate checks that both ends lie within [0, length].
func (s Selection) Validate(length int) error {
	if s.Anchor < 0 || s.Anchor > length || s.Head < 0 || s.Head > length {
		return fmt.Errorf("%s (length %d): %w", s, length, ErrSelectionOutOfRange)
	}
	return nil
}

// Map returns the selection translated through cs.
// A caret follows text inserted at it. A range never grows because of
// insertions at its boundaries.
func (s Selection) Map(cs ChangeSet) Selection {
	if len(cs) == 0 {
		return s
	}
	if s.IsEmpty() {
		return Cursor(cs.MapPos(s.Head, AssocAfter))
	}
	if s.Anchor < s.Head {
		return Selection{
			Anchor: cs.MapPos(s.Anchor, AssocAfter),
			Head:   cs.MapPos(s.Head, AssocBefore),
		}
	}
	return Selection{
		Anchor: cs.MapPos(s.Anchor, AssocBefore),
		Head:   cs.MapPos(s.Head, AssocAfter),
	}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d→%d)", s.Anchor, s.Head)
}
