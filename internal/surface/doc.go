// Package surface implements the editing surface: one primary view the user
// edits, any number of streaming cursors forked from it, and the speech
// reconciler that turns interim transcripts into ghost text.
//
// All operations on a Surface and its cursors are serialized by the surface,
// so each transaction and its propagation to paired views happen as one
// atomic step.
//
// Edits made through a cursor are mirrored onto the primary view. The
// primary then relays the same changes to every other live cursor, so
// concurrent streams stay content-identical and interleave in the order
// their chunks arrive.
//
// Notifications are delivered through notify feeds:
//
//	s := surface.New(surface.WithContent("Hello"))
//	s.Changes().Subscribe(func(text string) {
//	    fmt.Println("changed:", text)
//	})
//
//	c, _ := s.SpawnCursor()
//	c.Write(", world")
//	c.Close()
package surface
