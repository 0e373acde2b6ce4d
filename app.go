package flowfinance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/flowfinance/date"
	"github.com/etnz/flowfinance/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Storage keys of the application state. Each key is read and written independently.
const (
	KeyTransactions = "flow_transactions"
	KeyRecurring    = "flow_recurring"
	KeyAssets       = "flow_assets"
	KeyGoals        = "flow_goals"
	KeyCrypto       = "flow_sol_balance"
	KeyLastRun      = "flow_last_recurring_run"
)

// Keys lists every storage key in load order.
var Keys = []string{KeyTransactions, KeyRecurring, KeyAssets, KeyGoals, KeyCrypto, KeyLastRun}

// State is a deep copy of the application state, safe to read while the App keeps changing.
type State struct {
	Ledger   *Ledger
	Balances *Balances
	Goals    []BudgetGoal
	Crypto   Quantity        // SOL units held
	LastRun  date.Date       // last day the recurring templates were materialized
	Rate     decimal.Decimal // USD to HUF conversion rate
}

// ConversionRate returns the USD to HUF rate of s, UsdHuf when unset.
func (s State) ConversionRate() decimal.Decimal {
	if s.Rate.IsPositive() {
		return s.Rate
	}
	return UsdHuf
}

// Transactions returns the transactions in display order.
func (s State) Transactions() []Transaction { return s.Ledger.Sorted() }

// App is the only entry point to change the application state.
//
// Every mutation pairs the ledger change with its balance effect in a single
// step, under a mutex, and then persists the changed keys. Mutations are
// serialized: App is safe for concurrent use.
type App struct {
	mu      sync.Mutex
	storage store.Storage
	today   func() date.Date
	newID   func() string
	log     zerolog.Logger
	rate    decimal.Decimal

	ledger   *Ledger
	balances *Balances
	goals    []BudgetGoal
	crypto   Quantity
	lastRun  date.Date
}

// Option configures an App.
type Option func(*App)

// WithClock sets the function returning the current day, date.Today by default.
func WithClock(today func() date.Date) Option { return func(a *App) { a.today = today } }

// WithLogger sets the logger, nothing is logged by default.
func WithLogger(l zerolog.Logger) Option { return func(a *App) { a.log = l } }

// WithIDGenerator sets the identifier factory, random UUIDs by default.
func WithIDGenerator(newID func() string) Option { return func(a *App) { a.newID = newID } }

// WithRate sets the USD to HUF conversion rate, UsdHuf by default.
func WithRate(rate decimal.Decimal) Option { return func(a *App) { a.rate = rate } }

// Open loads the application state from s and runs the recurring templates due today.
//
// Missing keys take their default value: no transactions, no templates, zero
// balances, no goals, no crypto and a scheduler that never ran. Malformed
// values are replaced by their default too, with a warning: they never stop
// the application. Only storage failures are returned.
func Open(ctx context.Context, s store.Storage, opts ...Option) (*App, error) {
	a := &App{
		storage: s,
		today:   date.Today,
		newID:   uuid.NewString,
		log:     zerolog.Nop(),
		rate:    UsdHuf,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.reset()
	if err := a.load(ctx); err != nil {
		return nil, err
	}
	if _, err := a.RunRecurring(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// reset sets the in-memory state to its defaults.
func (a *App) reset() {
	a.ledger = NewLedger()
	a.balances = NewBalances()
	a.goals = make([]BudgetGoal, 0)
	a.crypto = Quantity{}
	a.lastRun = date.Date{}
}

// load reads every key, falling back to defaults on malformed values.
func (a *App) load(ctx context.Context) error {
	var transactions []Transaction
	var templates []RecurringTemplate
	var goals []BudgetGoal

	for _, key := range Keys {
		raw, ok, err := a.storage.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("cannot load %q: %w", key, err)
		}
		if !ok {
			continue
		}
		switch key {
		case KeyTransactions:
			err = json.Unmarshal([]byte(raw), &transactions)
		case KeyRecurring:
			err = json.Unmarshal([]byte(raw), &templates)
		case KeyAssets:
			b := NewBalances()
			if err = json.Unmarshal([]byte(raw), b); err == nil {
				a.balances = b
			}
		case KeyGoals:
			err = json.Unmarshal([]byte(raw), &goals)
		case KeyCrypto:
			var q Quantity
			if q, err = ParseQuantity(raw); err == nil {
				a.crypto = q
			}
		case KeyLastRun:
			var d date.Date
			if d, err = date.Parse(strings.TrimSpace(raw)); err == nil {
				a.lastRun = d
			}
		}
		if err != nil {
			a.log.Warn().Err(err).Str("key", key).Msg("malformed stored value, using the default")
			switch key {
			case KeyTransactions:
				transactions = nil
			case KeyRecurring:
				templates = nil
			case KeyGoals:
				goals = nil
			}
		}
	}

	for _, tx := range transactions {
		if err := a.ledger.Add(tx); err != nil {
			a.log.Warn().Err(err).Str("key", KeyTransactions).Msg("dropping stored transaction")
		}
	}
	for _, t := range templates {
		if err := a.ledger.AddTemplate(t); err != nil {
			a.log.Warn().Err(err).Str("key", KeyRecurring).Msg("dropping stored template")
		}
	}
	for _, g := range goals {
		if err := a.addGoal(g); err != nil {
			a.log.Warn().Err(err).Str("key", KeyGoals).Msg("dropping stored goal")
		}
	}
	return nil
}

// save persists the given keys.
func (a *App) save(ctx context.Context, keys ...string) error {
	var errs error
	for _, key := range keys {
		var value string
		switch key {
		case KeyTransactions:
			value = mustJSON(a.ledger.transactions)
		case KeyRecurring:
			value = mustJSON(a.ledger.templates)
		case KeyAssets:
			value = mustJSON(a.balances)
		case KeyGoals:
			value = mustJSON(a.goals)
		case KeyCrypto:
			value = a.crypto.String()
		case KeyLastRun:
			value = a.lastRun.String()
		}
		if err := a.storage.Set(ctx, key, value); err != nil {
			errs = errors.Join(errs, fmt.Errorf("cannot save %q: %w", key, err))
		}
	}
	return errs
}

// mustJSON encodes values that are always encodable.
func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("cannot encode %T: %v", v, err))
	}
	return string(data)
}

// Today returns the current day as seen by the App.
func (a *App) Today() date.Date { return a.today() }

// Snapshot returns a deep copy of the current state.
func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Ledger:   a.ledger.clone(),
		Balances: a.balances.clone(),
		Goals:    slices.Clone(a.goals),
		Crypto:   a.crypto,
		LastRun:  a.lastRun,
		Rate:     a.rate,
	}
}

// AddTransaction records a new transaction and applies it to its account balance.
//
// An invalid entry changes nothing.
func (a *App) AddTransaction(ctx context.Context, e Entry) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	tx := e.Transaction(a.newID())
	if err := post(a.ledger, a.balances, tx); err != nil {
		return Transaction{}, err
	}
	a.log.Debug().Str("id", tx.ID).Str("account", tx.Account.String()).Str("amount", tx.Signed().SignedString()).Msg("posted")
	return tx, a.save(ctx, KeyTransactions, KeyAssets)
}

// DeleteTransaction removes the transaction 'id' and reverses its effect on
// the account balance. It returns false if id is unknown.
func (a *App) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	tx, ok := unpost(a.ledger, a.balances, id)
	if !ok {
		return false, nil
	}
	a.log.Debug().Str("id", tx.ID).Str("account", tx.Account.String()).Str("amount", tx.Signed().Neg().SignedString()).Msg("reversed")
	return true, a.save(ctx, KeyTransactions, KeyAssets)
}

// AddTemplate registers a recurring template, an identifier is generated if
// t has none. The scheduler then runs, unless it already ran today: a
// template added after today's run first fires on its next due day.
func (a *App) AddTemplate(ctx context.Context, t RecurringTemplate) (RecurringTemplate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t.ID == "" {
		t.ID = a.newID()
	}
	if err := a.ledger.AddTemplate(t); err != nil {
		return RecurringTemplate{}, err
	}
	err := a.save(ctx, KeyRecurring)
	if _, e := a.runRecurring(ctx); e != nil {
		err = errors.Join(err, e)
	}
	return t, err
}

// RemoveTemplate unregisters the template 'id', past transactions are kept.
// It returns false if id is unknown.
func (a *App) RemoveTemplate(ctx context.Context, id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ledger.RemoveTemplate(id) {
		return false, nil
	}
	err := a.save(ctx, KeyRecurring)
	if _, e := a.runRecurring(ctx); e != nil {
		err = errors.Join(err, e)
	}
	return true, err
}

// SetBalance overrides the balance of account, whatever the transactions say.
func (a *App) SetBalance(ctx context.Context, account Account, value Money) error {
	if !account.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownAccount, account)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balances.SetManualOverride(account, value)
	a.log.Debug().Str("account", account.String()).Str("value", value.String()).Msg("balance overridden")
	return a.save(ctx, KeyAssets)
}

// AddGoal registers a budget goal, an identifier is generated if g has none.
func (a *App) AddGoal(ctx context.Context, g BudgetGoal) (BudgetGoal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if g.ID == "" {
		g.ID = a.newID()
	}
	if err := a.addGoal(g); err != nil {
		return BudgetGoal{}, err
	}
	return g, a.save(ctx, KeyGoals)
}

func (a *App) addGoal(g BudgetGoal) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid goal %q: %w", g.ID, err)
	}
	if slices.ContainsFunc(a.goals, func(x BudgetGoal) bool { return x.ID == g.ID }) {
		return fmt.Errorf("%w: goal %q", ErrDuplicateID, g.ID)
	}
	a.goals = append(a.goals, g)
	return nil
}

// RemoveGoal removes the goal 'id', it returns false if id is unknown.
func (a *App) RemoveGoal(ctx context.Context, id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := slices.IndexFunc(a.goals, func(g BudgetGoal) bool { return g.ID == id })
	if i < 0 {
		return false, nil
	}
	a.goals = slices.Delete(a.goals, i, i+1)
	return true, a.save(ctx, KeyGoals)
}

// SetCryptoBalance sets the number of SOL units held, it cannot be negative.
func (a *App) SetCryptoBalance(ctx context.Context, units Quantity) error {
	if units.IsNegative() {
		return fmt.Errorf("%w: %s units is negative", ErrInvalidAmount, units)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.crypto = units
	return a.save(ctx, KeyCrypto)
}

// RunRecurring materializes the templates due today, at most once a day.
// It returns the transactions posted by this run.
func (a *App) RunRecurring(ctx context.Context) ([]Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runRecurring(ctx)
}

func (a *App) runRecurring(ctx context.Context) ([]Transaction, error) {
	today := a.today()
	posted, ran, err := Scheduler{NewID: a.newID}.Run(a.ledger, a.balances, a.lastRun, today)
	if !ran {
		return nil, nil
	}
	a.lastRun = today
	for _, tx := range posted {
		a.log.Debug().Str("id", tx.ID).Str("description", tx.Description).Msg("recurring transaction posted")
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("some recurring templates could not be posted")
	}
	keys := []string{KeyLastRun}
	if len(posted) > 0 {
		keys = []string{KeyTransactions, KeyAssets, KeyLastRun}
	}
	return posted, errors.Join(err, a.save(ctx, keys...))
}

// Replace swaps the whole state for the content of a backup.
//
// The backup is checked first, nothing changes if any record is invalid. The
// balances are taken from the backup as they are: they are not recomputed
// from the transactions. The day of the last recurring run is kept.
func (a *App) Replace(ctx context.Context, b Backup) error {
	ledger, err := b.check()
	if err != nil {
		return err
	}
	balances := NewBalances()
	if b.Assets != nil {
		balances = b.Assets.clone()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if b.Recurring == nil {
		ledger.templates = slices.Clone(a.ledger.templates)
	}
	if b.SolBalance != nil {
		a.crypto = *b.SolBalance
	}
	a.ledger = ledger
	a.balances = balances
	a.goals = append(make([]BudgetGoal, 0, len(b.Goals)), b.Goals...)
	return a.save(ctx, KeyTransactions, KeyRecurring, KeyAssets, KeyGoals, KeyCrypto)
}

// Reset erases every stored key and returns to the default state.
func (a *App) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
	a.log.Debug().Msg("all data cleared")
	return a.storage.Clear(ctx)
}
