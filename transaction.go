package flowfinance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/flowfinance/date"
)

// ErrInvalidKind is returned for a transaction kind that is neither income nor expense.
var ErrInvalidKind = errors.New("invalid transaction type")

// Kind is the direction of a transaction.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// ParseKind parses "income" or "expense".
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w %q, want %q or %q", ErrInvalidKind, s, Income, Expense)
	}
	return k, nil
}

// Valid reports whether k is Income or Expense.
func (k Kind) Valid() bool { return k == Income || k == Expense }

// Signed returns amount with the sign of the kind: positive for income, negative for expense.
func (k Kind) Signed(amount Money) Money {
	if k == Expense {
		return amount.Neg()
	}
	return amount
}

// Transaction is an immutable record of money flowing in or out of an account.
//
// The direction is only carried by Kind, Amount is always positive.
type Transaction struct {
	ID          string    `json:"id"`
	Date        date.Date `json:"date"`
	Amount      Money     `json:"amount"`
	Kind        Kind      `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Account     Account   `json:"assetKey"`
	Recurring   bool      `json:"isRecurring,omitempty"` // generated from a RecurringTemplate
}

// Entry is what a user supplies to record a new transaction: everything but the identifier.
type Entry struct {
	Date        date.Date
	Amount      Money
	Kind        Kind
	Category    string
	Description string
	Account     Account
}

// Transaction returns the transaction for entry e identified by id.
func (e Entry) Transaction(id string) Transaction {
	return Transaction{
		ID:          id,
		Date:        e.Date,
		Amount:      e.Amount,
		Kind:        e.Kind,
		Category:    e.Category,
		Description: e.Description,
		Account:     e.Account,
	}
}

// UnmarshalJSON reads a transaction. Records stored without an account, as
// the first version wrote them, belong to Cash.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Account == "" {
		p.Account = Cash
	}
	*t = Transaction(p)
	return nil
}

// Signed returns the effect of the transaction on its account balance.
func (t Transaction) Signed() Money { return t.Kind.Signed(t.Amount) }

// Validate returns all the reasons why t cannot be recorded, or nil.
func (t Transaction) Validate() error {
	var errs error
	if t.ID == "" {
		errs = errors.Join(errs, errors.New("transaction id is missing"))
	}
	if t.Date.IsZero() {
		errs = errors.Join(errs, errors.New("transaction date is missing"))
	}
	errs = errors.Join(errs, validatePosting(t.Account, t.Kind, t.Amount))
	return errs
}

// validatePosting checks the fields that drive a balance effect.
func validatePosting(account Account, kind Kind, amount Money) error {
	var errs error
	if !account.Valid() {
		errs = errors.Join(errs, fmt.Errorf("%w %q", ErrUnknownAccount, account))
	}
	if !kind.Valid() {
		errs = errors.Join(errs, fmt.Errorf("%w %q", ErrInvalidKind, kind))
	}
	if !amount.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, amount.Decimal()))
	}
	return errs
}
