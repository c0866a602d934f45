// Package history provides undo/redo for the primary view of a surface.
//
// Every committed primary edit is pushed as a Step holding the applied
// change set and its inverse. Steps pushed between BeginGroup and EndGroup
// form a single Entry that undoes and redoes as one unit.
//
// Basic usage:
//
//	h := history.New(100)
//
//	before := doc
//	after, _ := doc.Apply(cs)
//	h.Push(history.NewStep(cs, before, selBefore, selAfter))
//
//	// Undo replays the inverse transactions through the caller.
//	err := h.Undo(func(tx text.Transaction) error {
//	    return primary.Dispatch(tx)
//	})
//
// History never applies anything itself; the caller decides how inverse
// transactions reach the document, which keeps mirrored views in sync.
package history
