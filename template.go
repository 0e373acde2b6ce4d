package flowfinance

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/flowfinance/date"
)

// AutoPrefix marks the description of transactions generated from a RecurringTemplate.
const AutoPrefix = "[auto] "

// RecurringTemplate generates a Transaction every month on DayOfMonth.
//
// Days that do not exist in a month (e.g. the 31st in April) are simply
// skipped, there is no end of month clamping.
type RecurringTemplate struct {
	ID          string  `json:"id"`
	Amount      Money   `json:"amount"`
	Kind        Kind    `json:"type"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Account     Account `json:"assetKey"`
	DayOfMonth  int     `json:"dayOfMonth"`
}

// Validate returns all the reasons why t cannot be registered, or nil.
func (t RecurringTemplate) Validate() error {
	var errs error
	if t.ID == "" {
		errs = errors.Join(errs, errors.New("template id is missing"))
	}
	if t.DayOfMonth < 1 || t.DayOfMonth > 31 {
		errs = errors.Join(errs, fmt.Errorf("day of month %d out of range [1,31]", t.DayOfMonth))
	}
	errs = errors.Join(errs, validatePosting(t.Account, t.Kind, t.Amount))
	return errs
}

// UnmarshalJSON reads a template, a missing account is Cash.
func (t *RecurringTemplate) UnmarshalJSON(data []byte) error {
	type plain RecurringTemplate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Account == "" {
		p.Account = Cash
	}
	*t = RecurringTemplate(p)
	return nil
}

// DueOn reports whether the template fires on day 'on'.
func (t RecurringTemplate) DueOn(on date.Date) bool { return t.DayOfMonth == on.Day() }

// AutoDescription is the description of the transactions generated by t.
func (t RecurringTemplate) AutoDescription() string { return AutoPrefix + t.Description }

// Materialize returns the transaction generated by t on day 'on'.
func (t RecurringTemplate) Materialize(on date.Date, id string) Transaction {
	return Transaction{
		ID:          id,
		Date:        on,
		Amount:      t.Amount,
		Kind:        t.Kind,
		Category:    t.Category,
		Description: t.AutoDescription(),
		Account:     t.Account,
		Recurring:   true,
	}
}
