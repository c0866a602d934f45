package surface

import (
	"github.com/dshills/ghostpad/internal/engine/text"
	"github.com/dshills/ghostpad/internal/logging"
)

// Option configures a Surface.
type Option func(*options)

type options struct {
	content    string
	selection  *text.Selection
	readOnly   bool
	logger     *logging.Logger
	maxUndo    int
	syncNotify bool
}

// WithContent sets the initial document text.
func WithContent(s string) Option {
	return func(o *options) {
		o.content = s
	}
}

// WithSelection sets the initial primary selection. It is clamped to the
// document.
func WithSelection(sel text.Selection) Option {
	return func(o *options) {
		o.selection = &sel
	}
}

// WithReadOnly starts the surface read-only.
func WithReadOnly(readOnly bool) Option {
	return func(o *options) {
		o.readOnly = readOnly
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxUndo limits the number of undo entries kept.
func WithMaxUndo(n int) Option {
	return func(o *options) {
		o.maxUndo = n
	}
}

// WithSyncNotify delivers feed notifications on the calling goroutine.
// Observers must not call back into the surface when this is set.
func WithSyncNotify() Option {
	return func(o *options) {
		o.syncNotify = true
	}
}

// CursorOption configures a spawned cursor.
type CursorOption func(*cursorOptions)

type cursorOptions struct {
	selection *text.Selection
}

// WithCursorSelection sets the cursor's initial selection instead of the
// primary's.
func WithCursorSelection(sel text.Selection) CursorOption {
	return func(o *cursorOptions) {
		o.selection = &sel
	}
}
