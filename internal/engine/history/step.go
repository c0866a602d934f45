package history

import (
	"time"

	"github.com/dshills/ghostpad/internal/engine/text"
)

// Step is one committed edit with what is needed to revert it.
type Step struct {
	Changes         text.ChangeSet
	Inverse         text.ChangeSet
	SelectionBefore text.Selection
	SelectionAfter  text.Selection
}

// NewStep records cs applied to before.
func NewStep(cs text.ChangeSet, before text.Document, selBefore, selAfter text.Selection) Step {
	return Step{
		Changes:         cs,
		Inverse:         cs.Invert(before),
		SelectionBefore: selBefore,
		SelectionAfter:  selAfter,
	}
}

// Entry is an undo unit made of one or more steps.
type Entry struct {
	Label     string
	Steps     []Step
	Timestamp time.Time
}

// UndoTransactions returns the transactions that revert the entry, newest
// step first.
func (e Entry) UndoTransactions() []text.Transaction {
	txs := make([]text.Transaction, 0, len(e.Steps))
	for i := len(e.Steps) - 1; i >= 0; i-- {
		s := e.Steps[i]
		txs = append(txs, text.Transaction{Changes: s.Inverse}.WithSelection(s.SelectionBefore))
	}
	return txs
}

// RedoTransactions returns the transactions that reapply the entry.
func (e Entry) RedoTransactions() []text.Transaction {
	txs := make([]text.Transaction, 0, len(e.Steps))
	for _, s := range e.Steps {
		txs = append(txs, text.Transaction{Changes: s.Changes}.WithSelection(s.SelectionAfter))
	}
	return txs
}
