// Package view provides document views and the synchronous dispatcher that
// keeps paired views content-identical.
//
// A View holds its own document revision and its own selection. There are
// two kinds: the primary view of an editing surface, which the user edits,
// and cursor views, which are forked from the primary to stream generated
// text and are destroyed when the stream ends.
//
// Views are not safe for concurrent use. Their owner serializes every call,
// which is what makes each transaction atomic with respect to the others.
//
// Dispatching:
//
//	d := view.NewDispatcher(view.WithLogger(log))
//
//	primary := view.New(view.KindPrimary, text.NewDocument("Hello"))
//	cursor := view.New(view.KindCursor, primary.Document().Clone(),
//	    view.WithSelection(text.Cursor(5)))
//
//	// Apply to cursor, then mirror the same changes onto primary.
//	up, err := d.Dispatch(text.Insert(5, ", world"), cursor, []*view.View{primary})
//
// Mirroring never transfers the origin's selection. Each paired view maps its
// own selection through the changes. A paired view whose document no longer
// matches the origin's pre-transaction document is skipped and reported.
package view
