package flowfinance

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/flowfinance/date"
)

// ErrDuplicateID is returned when adding a record whose identifier is already known.
var ErrDuplicateID = errors.New("duplicate id")

// Ledger holds the transactions, in insertion order, and the recurring templates.
//
// A Ledger does not know about balances: pairing a ledger mutation with its
// balance effect is the job of the App.
type Ledger struct {
	transactions []Transaction
	templates    []RecurringTemplate
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		transactions: make([]Transaction, 0),
		templates:    make([]RecurringTemplate, 0),
	}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Add validates and appends a transaction.
func (l *Ledger) Add(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid transaction %q: %w", tx.ID, err)
	}
	if _, exists := l.Find(tx.ID); exists {
		return fmt.Errorf("%w: transaction %q", ErrDuplicateID, tx.ID)
	}
	l.transactions = append(l.transactions, tx)
	return nil
}

// Remove removes the transaction 'id' and returns the exact record removed.
//
// It returns false, and does nothing, if id is unknown.
func (l *Ledger) Remove(id string) (Transaction, bool) {
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return Transaction{}, false
	}
	tx := l.transactions[i]
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return tx, true
}

// Find returns the transaction 'id'.
func (l *Ledger) Find(id string) (Transaction, bool) {
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// HasDuplicate reports whether a transaction dated 'on' with this exact description exists.
func (l *Ledger) HasDuplicate(on date.Date, description string) bool {
	return slices.ContainsFunc(l.transactions, func(tx Transaction) bool {
		return tx.Date == on && tx.Description == description
	})
}

// Transactions returns an iterator over transactions in insertion order.
func (l *Ledger) Transactions() iter.Seq[Transaction] { return slices.Values(l.transactions) }

// Sorted returns a copy of the transactions in display order: most recent
// first, transactions of the same day keep their insertion order.
func (l *Ledger) Sorted() []Transaction {
	sorted := slices.Clone(l.transactions)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return b.Date.Compare(a.Date) })
	return sorted
}

// AddTemplate validates and registers a recurring template.
func (l *Ledger) AddTemplate(t RecurringTemplate) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid template %q: %w", t.ID, err)
	}
	if slices.ContainsFunc(l.templates, func(x RecurringTemplate) bool { return x.ID == t.ID }) {
		return fmt.Errorf("%w: template %q", ErrDuplicateID, t.ID)
	}
	l.templates = append(l.templates, t)
	return nil
}

// RemoveTemplate unregisters the template 'id', it returns false if id is unknown.
func (l *Ledger) RemoveTemplate(id string) bool {
	i := slices.IndexFunc(l.templates, func(t RecurringTemplate) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	l.templates = slices.Delete(l.templates, i, i+1)
	return true
}

// Templates returns an iterator over templates in registration order.
func (l *Ledger) Templates() iter.Seq[RecurringTemplate] { return slices.Values(l.templates) }

// clone returns a deep copy of the ledger.
func (l *Ledger) clone() *Ledger {
	return &Ledger{
		transactions: slices.Clone(l.transactions),
		templates:    slices.Clone(l.templates),
	}
}
