// Package text provides the immutable document model shared by every view of
// an editing surface.
//
// The package provides:
//
//   - Document: an immutable sequence of Unicode scalar values
//   - Change and ChangeSet: range replacements against stable offsets
//   - Selection: an anchor/head pair with position mapping through changes
//   - Transaction: an atomic mutation plus an optional resulting selection
//
// Offsets count runes, not bytes. Position 0 is before the first rune and
// Len() is after the last one.
//
// Basic usage:
//
//	doc := text.NewDocument("The cat sat")
//
//	tx := text.Replace(7, 11, " ran fast").WithSelection(text.Cursor(16))
//	if err := tx.Validate(doc.Len()); err != nil {
//	    return err
//	}
//	next, _ := doc.Apply(tx.Changes) // "The cat ran fast"
//
//	// Undo is the inverse change set applied to the new document.
//	inv := tx.Changes.Invert(doc)
//	prev, _ := next.Apply(inv) // "The cat sat"
//
// Documents are values. Applying a change set never touches the receiver; it
// derives the next revision.
package text
