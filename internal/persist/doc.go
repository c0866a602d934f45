// Package persist stores document text by key and saves a surface's text in
// the background as it changes.
//
// Every save produces a Record with a new ULID revision, so revisions sort
// in save order. MemoryStore keeps records in memory; FileStore writes one
// YAML file per key and replaces it atomically on each save.
//
// Autosaver subscribes to a change feed and saves the newest text once edits
// have been quiet for a delay:
//
//	store, _ := persist.NewFileStore(dir)
//	saver := persist.NewAutosaver(store, "scratch", persist.WithDelay(time.Second))
//	saver.Attach(surface.Changes())
//	defer saver.Close(ctx)
package persist
