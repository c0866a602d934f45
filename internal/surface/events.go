package surface

// EventKind identifies a command event.
type EventKind uint8

const (
	// EventRun is published by Run with the full document text.
	EventRun EventKind = iota + 1
	// EventEscape is published by Escape when the selection is empty.
	EventEscape
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventRun:
		return "run"
	case EventEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// Event is a command raised by the surface for its host.
type Event struct {
	Kind EventKind
	Text string
}
