package flowfinance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is a number of units of an asset, like the SOL held in a wallet.
type Quantity struct {
	value decimal.Decimal
}

// Q returns a Quantity.
func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses a user supplied, non negative, number of units.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if v.IsNegative() {
		return Quantity{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, v)
	}
	return Quantity{value: v}, nil
}

func (t Quantity) Equal(p Quantity) bool                 { return t.value.Equal(p.value) }
func (t Quantity) Decimal() decimal.Decimal              { return t.value }
func (t Quantity) IsNegative() bool                      { return t.value.IsNegative() }
func (t Quantity) IsZero() bool                          { return t.value.IsZero() }
func (t Quantity) Mul(p decimal.Decimal) decimal.Decimal { return t.value.Mul(p) }
func (t Quantity) String() string                        { return t.value.String() }

// MarshalJSON writes the quantity as a plain number.
func (t Quantity) MarshalJSON() ([]byte, error) {
	return t.value.MarshalJSON()
}

// UnmarshalJSON reads a number or a quoted number.
func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return t.value.UnmarshalJSON(decimalBytes)
}
