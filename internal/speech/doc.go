// Package speech turns a live transcription feed into ghost text on an
// editing surface.
//
// Transcription services send interim results that are revised until a
// final result closes the utterance. A Session shows each interim result as
// ghost text before the caret and replaces it with the next revision. If the
// user has edited around the ghost text in the meantime, the revision is
// appended at the caret instead, leaving the user's edit intact.
package speech
