package flowfinance

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownAccount is returned when an account key is not one of Accounts.
var ErrUnknownAccount = errors.New("unknown account")

// Account identifies one of the fixed balance-holding buckets.
type Account string

// The fixed set of accounts, in display order.
const (
	Cash            Account = "cash"
	BankRevolut     Account = "bankRevolut"
	BankOtp         Account = "bankOtp"
	StockLightyear  Account = "stockLightyear"
	GovernmentBonds Account = "governmentBonds"
)

// Accounts lists every account in display order.
var Accounts = []Account{Cash, BankRevolut, BankOtp, StockLightyear, GovernmentBonds}

var accountLabels = map[Account]string{
	Cash:            "Készpénz",
	BankRevolut:     "Bankszámla (Revolut)",
	BankOtp:         "Bankszámla (OTP)",
	StockLightyear:  "Részvények (Lightyear)",
	GovernmentBonds: "Állampapír",
}

// ParseAccount returns the Account named by key.
func ParseAccount(key string) (Account, error) {
	a := Account(key)
	if !a.Valid() {
		return "", fmt.Errorf("%w %q, want one of %v", ErrUnknownAccount, key, Accounts)
	}
	return a, nil
}

// Valid reports whether a is one of Accounts.
func (a Account) Valid() bool { return slices.Contains(Accounts, a) }

// Label returns a human readable name.
func (a Account) Label() string {
	if l, ok := accountLabels[a]; ok {
		return l
	}
	return string(a)
}

// Liquid reports whether the account holds cash rather than investments.
func (a Account) Liquid() bool { return a == Cash || a == BankRevolut || a == BankOtp }

func (a Account) String() string { return string(a) }
