package text

import "fmt"

// Transaction describes one atomic document mutation: a change set and an
// optional resulting selection. A nil Selection means the selection of the
// view the transaction is applied to is mapped through the changes.
type Transaction struct {
	Changes   ChangeSet
	Selection *Selection
}

// Insert creates a transaction inserting text at pos.
func Insert(pos int, text string) Transaction {
	return Transaction{Changes: ChangeSet{Insertion(pos, text)}}
}

// Replace creates a transaction replacing [from, to) with text.
func Replace(from, to int, text string) Transaction {
	return Transaction{Changes: ChangeSet{Replacement(from, to, text)}}
}

// Select creates a selection-only transaction.
func Select(sel Selection) Transaction {
	return Transaction{Selection: &sel}
}

// WithSelection returns a copy of tx that sets the resulting selection.
func (tx Transaction) WithSelection(sel Selection) Transaction {
	tx.Selection = &sel
	return tx
}

// DocChanged returns true if applying tx alters the document.
func (tx Transaction) DocChanged() bool {
	return !tx.Changes.IsEmpty()
}

// IsEmpty returns true if tx neither changes the document nor the selection.
func (tx Transaction) IsEmpty() bool {
	return !tx.DocChanged() && tx.Selection == nil
}

// Validate checks tx against a document of the given length. The change set
// must fit the document and any selection must fit the resulting length.
func (tx Transaction) Validate(length int) error {
	if err := tx.Changes.Validate(length); err != nil {
		return err
	}
	if tx.Selection != nil {
		if err := tx.Selection.Validate(tx.Changes.NewLength(length)); err != nil {
			return err
		}
	}
	return nil
}

// String returns a human-readable representation of the transaction.
func (tx Transaction) String() string {
	if tx.Selection == nil {
		return fmt.Sprintf("Transaction%v", []Change(tx.Changes))
	}
	return fmt.Sprintf("Transaction%v %s", []Change(tx.Changes), tx.Selection)
}
