package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/ghostpad/internal/engine/text"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when New is given a non-positive limit.
const DefaultMaxEntries = 1000

// ApplyFunc applies one transaction produced by Undo or Redo.
type ApplyFunc func(tx text.Transaction) error

// History manages undo/redo state for a primary view.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	grouping  bool
	groupName string
	groupStep []Step

	maxEntries int
	now        func() time.Time
}

// New creates a history holding at most maxEntries undo units.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Push records a step. Outside a group the step becomes its own entry and
// the redo stack is cleared.
func (h *History) Push(step Step) {
	if step.Changes.IsEmpty() {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupStep = append(h.groupStep, step)
		return
	}
	h.pushLocked(Entry{Steps: []Step{step}, Timestamp: h.now()})
}

func (h *History) pushLocked(e Entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the newest entry and hands its inverse transactions to apply.
// If apply fails the entry is put back and the error returned.
func (h *History) Undo(apply ApplyFunc) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := applyAll(entry.UndoTransactions(), apply); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, entry)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, entry)
	h.mu.Unlock()
	return nil
}

// Redo pops the newest undone entry and hands its transactions to apply.
func (h *History) Redo(apply ApplyFunc) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := applyAll(entry.RedoTransactions(), apply); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, entry)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, entry)
	h.mu.Unlock()
	return nil
}

func applyAll(txs []text.Transaction, apply ApplyFunc) error {
	for _, tx := range txs {
		if err := apply(tx); err != nil {
			return err
		}
	}
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup starts collecting steps into one entry. Nested calls are
// ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupStep = nil
}

// EndGroup closes the current group and pushes it as a single entry.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false

	if len(h.groupStep) > 0 {
		h.pushLocked(Entry{Label: h.groupName, Steps: h.groupStep, Timestamp: h.now()})
	}
	h.groupStep = nil
}

// CancelGroup drops the current group without recording it.
// Steps already applied stay applied.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupStep = nil
}

// IsGrouping returns true if a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Clear removes all undo/redo state.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupStep = nil
}

// PeekUndo returns the next entry Undo would revert.
func (h *History) PeekUndo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Entry{}, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}
