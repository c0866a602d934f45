package text

import (
	"unicode"
	"unicode/utf8"
)

// Document is an immutable revision of text content.
// The zero value is an empty document.
type Document struct {
	runes []rune
}

// NewDocument creates a document holding s.
func NewDocument(s string) Document {
	if s == "" {
		return Document{}
	}
	return Document{runes: []rune(s)}
}

// Len returns the number of runes in the document.
func (d Document) Len() int {
	return len(d.runes)
}

// IsEmpty returns true if the document has no content.
func (d Document) IsEmpty() bool {
	return len(d.runes) == 0
}

// String returns the full document text.
func (d Document) String() string {
	return string(d.runes)
}

// Slice returns the text in [from, to). Offsets are clamped to the document
// bounds, and an inverted range yields the empty string.
func (d Document) Slice(from, to int) string {
	from = clamp(from, 0, len(d.runes))
	to = clamp(to, 0, len(d.runes))
	if from >= to {
		return ""
	}
	return string(d.runes[from:to])
}

// RuneBefore returns the rune immediately before pos.
// Returns false at the start of the document or when pos is out of range.
func (d Document) RuneBefore(pos int) (rune, bool) {
	if pos <= 0 || pos > len(d.runes) {
		return utf8.RuneError, false
	}
	return d.runes[pos-1], true
}

// HasSuffixAt reports whether the text ending at pos ends with suffix.
func (d Document) HasSuffixAt(pos int, suffix string) bool {
	pos = clamp(pos, 0, len(d.runes))
	n := utf8.RuneCountInString(suffix)
	if n > pos {
		return false
	}
	return string(d.runes[pos-n:pos]) == suffix
}

// Equal returns true if both documents hold the same content.
func (d Document) Equal(other Document) bool {
	if len(d.runes) != len(other.runes) {
		return false
	}
	for i, r := range d.runes {
		if other.runes[i] != r {
			return false
		}
	}
	return true
}

// Clone returns a document that owns a private copy of the content.
// Forked views take a clone so no two views ever share backing storage.
func (d Document) Clone() Document {
	if len(d.runes) == 0 {
		return Document{}
	}
	runes := make([]rune, len(d.runes))
	copy(runes, d.runes)
	return Document{runes: runes}
}

// Apply returns the document produced by applying cs.
// The change set is validated first; on error the receiver is returned
// untouched along with the validation error.
func (d Document) Apply(cs ChangeSet) (Document, error) {
	if err := cs.Validate(len(d.runes)); err != nil {
		return d, err
	}
	if cs.IsEmpty() {
		return d, nil
	}

	out := make([]rune, 0, cs.NewLength(len(d.runes)))
	pos := 0
	for _, c := range cs {
		out = append(out, d.runes[pos:c.From]...)
		out = append(out, []rune(c.Insert)...)
		pos = c.To
	}
	out = append(out, d.runes[pos:]...)

	return Document{runes: out}, nil
}

// IsSpace reports whether r counts as whitespace for padding decisions.
// The set is Unicode white space plus U+FEFF, without U+0085.
func IsSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp limits pos to [0, length].
func Clamp(pos, length int) int {
	return clamp(pos, 0, length)
}
