package flowfinance

import (
	"context"
	"fmt"
	"testing"

	"github.com/etnz/flowfinance/date"
	"github.com/etnz/flowfinance/store"
)

// income is a helper for test to create an income transaction.
func income(id, day string, amount float64, a Account) Transaction {
	return Transaction{ID: id, Date: date.MustParse(day), Amount: HUF(amount), Kind: Income, Category: "Fizetés", Description: id, Account: a}
}

// expense is a helper for test to create an expense transaction.
func expense(id, day string, amount float64, a Account, category string) Transaction {
	return Transaction{ID: id, Date: date.MustParse(day), Amount: HUF(amount), Kind: Expense, Category: category, Description: id, Account: a}
}

// sequence returns an identifier factory producing "id-1", "id-2", ...
func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// clock is a settable day for the App.
type clock struct{ day date.Date }

func (c *clock) today() date.Date { return c.day }
func (c *clock) set(day string)   { c.day = date.MustParse(day) }

// openApp opens an App on storage s at 'day'.
func openApp(t *testing.T, s store.Storage, c *clock) *App {
	t.Helper()
	a, err := Open(context.Background(), s, WithClock(c.today), WithIDGenerator(sequence()))
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	return a
}
