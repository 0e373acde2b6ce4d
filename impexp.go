package flowfinance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/etnz/flowfinance/date"
)

// AppVersion is written in every backup.
const AppVersion = "1.1"

// ErrInvalidBackup is returned when a backup file cannot be imported.
var ErrInvalidBackup = errors.New("invalid backup file")

// Backup is the content of a backup file.
//
// Recurring and SolBalance are optional: when missing (nil) importing the
// backup keeps the current templates and crypto balance.
type Backup struct {
	Transactions []Transaction       `json:"transactions"`
	Assets       *Balances           `json:"assets"`
	Goals        []BudgetGoal        `json:"goals"`
	Recurring    []RecurringTemplate `json:"recurring,omitempty"`
	SolBalance   *Quantity           `json:"solBalance,omitempty"`
	ExportDate   time.Time           `json:"exportDate"`
	AppVersion   string              `json:"appVersion"`
}

// BackupFileName returns the conventional name of a backup made on day 'on'.
func BackupFileName(on date.Date) string {
	return fmt.Sprintf("flowfinance_backup_%s.json", on)
}

// NewBackup returns the backup of state s made at 'now'.
func NewBackup(s State, now time.Time) Backup {
	crypto := s.Crypto
	return Backup{
		Transactions: slices.Collect(s.Ledger.Transactions()),
		Assets:       s.Balances,
		Goals:        s.Goals,
		Recurring:    slices.Collect(s.Ledger.Templates()),
		SolBalance:   &crypto,
		ExportDate:   now.UTC().Truncate(time.Second),
		AppVersion:   AppVersion,
	}
}

// ExportBackup writes the backup of state s, made at 'now', to w as indented JSON.
func ExportBackup(w io.Writer, s State, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewBackup(s, now)); err != nil {
		return fmt.Errorf("cannot write backup: %w", err)
	}
	return nil
}

// ImportBackup reads and checks a backup file.
//
// The transactions, assets and goals are mandatory and every record must be
// valid, otherwise the whole file is rejected with ErrInvalidBackup.
func ImportBackup(r io.Reader) (Backup, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Backup{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	var missing []string
	if b.Transactions == nil {
		missing = append(missing, "transactions")
	}
	if b.Assets == nil {
		missing = append(missing, "assets")
	}
	if b.Goals == nil {
		missing = append(missing, "goals")
	}
	if len(missing) > 0 {
		return Backup{}, fmt.Errorf("%w: missing %q", ErrInvalidBackup, missing)
	}
	if _, err := b.check(); err != nil {
		return Backup{}, err
	}
	return b, nil
}

// check validates every record of b and returns the ledger it describes.
func (b Backup) check() (*Ledger, error) {
	var errs error
	l := NewLedger()
	for _, tx := range b.Transactions {
		errs = errors.Join(errs, l.Add(tx))
	}
	for _, t := range b.Recurring {
		errs = errors.Join(errs, l.AddTemplate(t))
	}
	ids := make(map[string]bool)
	for _, g := range b.Goals {
		if err := g.Validate(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("invalid goal %q: %w", g.ID, err))
		}
		if ids[g.ID] {
			errs = errors.Join(errs, fmt.Errorf("%w: goal %q", ErrDuplicateID, g.ID))
		}
		ids[g.ID] = true
	}
	if b.SolBalance != nil && b.SolBalance.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("%w: crypto balance %s is negative", ErrInvalidAmount, b.SolBalance))
	}
	if errs != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, errs)
	}
	return l, nil
}
