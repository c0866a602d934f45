package text

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Errors returned by change and transaction validation.
var (
	ErrOffsetOutOfRange    = errors.New("offset out of range")
	ErrRangeInvalid        = errors.New("invalid range")
	ErrChangesOverlap      = errors.New("changes overlap or are not sorted")
	ErrSelectionOutOfRange = errors.New("selection out of range")
)

// Assoc selects which side of an insertion a mapped position sticks to.
type Assoc int8

const (
	// AssocBefore keeps a position before text inserted at it.
	AssocBefore Assoc = -1
	// AssocAfter moves a position past text inserted at it.
	AssocAfter Assoc = 1
)

// Change replaces the runes in [From, To) with Insert.
// From and To are offsets into the document the change is applied against.
type Change struct {
	From   int
	To     int
	Insert string
}

// Insertion creates a Change that inserts text at pos.
func Insertion(pos int, text string) Change {
	return Change{From: pos, To: pos, Insert: text}
}

// Deletion creates a Change that removes [from, to).
func Deletion(from, to int) Change {
	return Change{From: from, To: to}
}

// Replacement creates a Change that replaces [from, to) with text.
func Replacement(from, to int, text string) Change {
	return Change{From: from, To: to, Insert: text}
}

// InsertLen returns the length of the inserted text in runes.
func (c Change) InsertLen() int {
	return utf8.RuneCountInString(c.Insert)
}

// Delta returns the change in document length caused by c.
func (c Change) Delta() int {
	return c.InsertLen() - (c.To - c.From)
}

// IsNoOp returns true if the change neither deletes nor inserts.
func (c Change) IsNoOp() bool {
	return c.From == c.To && c.Insert == ""
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	switch {
	case c.From == c.To:
		return fmt.Sprintf("Insert(%d, %q)", c.From, c.Insert)
	case c.Insert == "":
		return fmt.Sprintf("Delete[%d:%d)", c.From, c.To)
	default:
		return fmt.Sprintf("Replace[%d:%d) with %q", c.From, c.To, c.Insert)
	}
}

// ChangeSet is an ordered list of non-overlapping changes, all expressed
// against the offsets of the same original document.
type ChangeSet []Change

// Validate checks that every change fits a document of the given length and
// that changes are sorted and do not overlap. Two insertions at the same
// offset are allowed and apply in list order.
func (cs ChangeSet) Validate(length int) error {
	prevTo := 0
	for i, c := range cs {
		if c.From > c.To {
			return fmt.Errorf("change %d %s: %w", i, c, ErrRangeInvalid)
		}
		if c.From < 0 || c.To > length {
			return fmt.Errorf("change %d %s (length %d): %w", i, c, length, ErrOffsetOutOfRange)
		}
		if i > 0 && c.From < prevTo {
			return fmt.Errorf("change %d %s: %w", i, c, ErrChangesOverlap)
		}
		prevTo = c.To
	}
	return nil
}

// IsEmpty returns true if applying the set would not alter any document.
func (cs ChangeSet) IsEmpty() bool {
	for _, c := range cs {
		if !c.IsNoOp() {
			return false
		}
	}
	return true
}

// NewLength returns the length of a document of the given length after cs.
func (cs ChangeSet) NewLength(length int) int {
	for _, c := range cs {
		length += c.Delta()
	}
	return length
}

// Invert returns the change set that undoes cs. before must be the document
// cs was applied to; the result is expressed in the offsets of the document
// cs produced.
func (cs ChangeSet) Invert(before Document) ChangeSet {
	inv := make(ChangeSet, 0, len(cs))
	shift := 0
	for _, c := range cs {
		from := c.From + shift
		inv = append(inv, Change{
			From:   from,
			To:     from + c.InsertLen(),
			Insert: before.Slice(c.From, c.To),
		})
		shift += c.Delta()
	}
	return inv
}

// MapPos maps a position in the original document to the corresponding
// position after cs. A position inside a replaced range moves to the start
// of the replacement with AssocBefore and to its end with AssocAfter.
func (cs ChangeSet) MapPos(pos int, assoc Assoc) int {
	shift := 0
	for _, c := range cs {
		if pos < c.From {
			break
		}
		if pos > c.To {
			shift += c.Delta()
			continue
		}

		// c.From <= pos <= c.To
		if c.From == c.To {
			if assoc == AssocAfter {
				shift += c.InsertLen()
			}
			continue
		}
		if pos == c.From {
			break
		}
		if pos < c.To && assoc == AssocBefore {
			return c.From + shift
		}
		shift += c.Delta()
		pos = c.To
	}
	return pos + shift
}

// Compose returns the change set equivalent to applying cs and then next.
// It is only defined for the common case the surface needs: next expressed
// against the document cs produced. The result is computed by replaying
// both sets over before.
func (cs ChangeSet) Compose(before Document, next ChangeSet) (ChangeSet, error) {
	mid, err := before.Apply(cs)
	if err != nil {
		return nil, err
	}
	after, err := mid.Apply(next)
	if err != nil {
		return nil, err
	}
	return Diff(before, after), nil
}

// Diff returns a single-change set transforming a into b, trimming the
// common prefix and suffix. It returns an empty set when a equals b.
func Diff(a, b Document) ChangeSet {
	prefix := 0
	for prefix < len(a.runes) && prefix < len(b.runes) && a.runes[prefix] == b.runes[prefix] {
		prefix++
	}
	if prefix == len(a.runes) && prefix == len(b.runes) {
		return nil
	}
	suffix := 0
	for suffix < len(a.runes)-prefix && suffix < len(b.runes)-prefix &&
		a.runes[len(a.runes)-1-suffix] == b.runes[len(b.runes)-1-suffix] {
		suffix++
	}
	return ChangeSet{{
		From:   prefix,
		To:     len(a.runes) - suffix,
		Insert: string(b.runes[prefix : len(b.runes)-suffix]),
	}}
}
