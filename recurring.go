package flowfinance

import (
	"errors"
	"fmt"

	"github.com/etnz/flowfinance/date"
)

// Scheduler materializes due recurring templates, at most once per calendar day.
type Scheduler struct {
	NewID func() string // identifier factory for generated transactions
}

// Run posts the templates of ledger l due on 'today' unless the scheduler
// already ran on that day (lastRun == today).
//
// A template is due when its DayOfMonth is today's day of the month. It is
// skipped when the ledger already holds a transaction dated today with the
// same generated description. Every posted transaction updates the balances b
// in the same step.
//
// Run reports ran=false when it did nothing because it already ran today,
// otherwise 'today' becomes the new last run marker, even when no template
// fired or some failed to post.
func (s Scheduler) Run(l *Ledger, b *Balances, lastRun, today date.Date) (posted []Transaction, ran bool, err error) {
	if lastRun == today {
		return nil, false, nil
	}
	for t := range l.Templates() {
		if !t.DueOn(today) {
			continue
		}
		if l.HasDuplicate(today, t.AutoDescription()) {
			continue
		}
		tx := t.Materialize(today, s.NewID())
		if e := post(l, b, tx); e != nil {
			err = errors.Join(err, fmt.Errorf("cannot post template %q: %w", t.ID, e))
			continue
		}
		posted = append(posted, tx)
	}
	return posted, true, err
}

// post records tx in the ledger and applies its balance effect, in one step.
// Nothing changes if the ledger refuses the transaction.
func post(l *Ledger, b *Balances, tx Transaction) error {
	if err := l.Add(tx); err != nil {
		return err
	}
	b.ApplyPost(tx.Account, tx.Kind, tx.Amount)
	return nil
}

// unpost removes the transaction 'id' and reverses the balance effect of the removed record.
func unpost(l *Ledger, b *Balances, id string) (Transaction, bool) {
	tx, ok := l.Remove(id)
	if !ok {
		return Transaction{}, false
	}
	b.ApplyReversal(tx.Account, tx.Kind, tx.Amount)
	return tx, true
}
