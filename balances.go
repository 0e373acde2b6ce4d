package flowfinance

import (
	"encoding/json"
	"iter"
	"maps"

	"github.com/shopspring/decimal"
)

// UsdHuf is the default USD to HUF conversion rate used to value the crypto
// holding. An App takes its own rate with WithRate.
var UsdHuf = decimal.NewFromInt(365)

// Balances is the current balance of every account.
//
// Every applied transaction is reflected exactly once: the balance of an
// account is its baseline plus the signed amounts of the transactions that
// were posted and not reversed. SetManualOverride is the only way to break
// that rule.
type Balances struct {
	values map[Account]Money
}

// NewBalances returns zero balances for every account.
func NewBalances() *Balances {
	b := &Balances{values: make(map[Account]Money, len(Accounts))}
	for _, a := range Accounts {
		b.values[a] = HUF(0)
	}
	return b
}

// Get returns the balance of account a.
func (b *Balances) Get(a Account) Money {
	if v, ok := b.values[a]; ok {
		return v
	}
	return HUF(0)
}

// ApplyPost applies the effect of posting a transaction.
func (b *Balances) ApplyPost(a Account, kind Kind, amount Money) {
	b.values[a] = b.Get(a).Add(kind.Signed(amount))
}

// ApplyReversal undoes ApplyPost, it must be given the original kind and amount.
func (b *Balances) ApplyReversal(a Account, kind Kind, amount Money) {
	b.values[a] = b.Get(a).Sub(kind.Signed(amount))
}

// SetManualOverride replaces the balance of account a, regardless of the ledger.
func (b *Balances) SetManualOverride(a Account, value Money) {
	b.values[a] = HUF(value.Decimal())
}

// Total returns the sum of all account balances.
func (b *Balances) Total() Money {
	total := HUF(0)
	for _, a := range Accounts {
		total = total.Add(b.Get(a))
	}
	return total
}

// All returns an iterator over accounts and their balance in display order.
func (b *Balances) All() iter.Seq2[Account, Money] {
	return func(yield func(Account, Money) bool) {
		for _, a := range Accounts {
			if !yield(a, b.Get(a)) {
				return
			}
		}
	}
}

// clone returns a deep copy.
func (b *Balances) clone() *Balances { return &Balances{values: maps.Clone(b.values)} }

// CryptoValue returns the value in HUF of 'units' at 'usdPrice' converted at rate.
func CryptoValue(units Quantity, usdPrice, rate decimal.Decimal) Money {
	return HUF(units.Mul(usdPrice).Mul(rate))
}

// NetWorth returns the sum of all balances plus the crypto holding valued at usdPrice.
//
// A zero price, like before the first successful poll, values the holding at zero.
func NetWorth(b *Balances, units Quantity, usdPrice, rate decimal.Decimal) Money {
	return b.Total().Add(CryptoValue(units, usdPrice, rate))
}

// MarshalJSON writes balances as an object keyed by account.
func (b *Balances) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.values)
}

// UnmarshalJSON reads balances keyed by account.
//
// Unknown keys are ignored, missing accounts are zero. The legacy layout
// {cash, bank, investment} is migrated to cash, bankOtp and stockLightyear.
func (b *Balances) UnmarshalJSON(data []byte) error {
	var raw map[string]Money
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fresh := NewBalances()
	if _, legacy := raw["bank"]; legacy {
		fresh.values[Cash] = HUF(raw["cash"].Decimal())
		fresh.values[BankOtp] = HUF(raw["bank"].Decimal())
		fresh.values[StockLightyear] = HUF(raw["investment"].Decimal())
		*b = *fresh
		return nil
	}
	for key, v := range raw {
		if a := Account(key); a.Valid() {
			fresh.values[a] = HUF(v.Decimal())
		}
	}
	*b = *fresh
	return nil
}
