package flowfinance

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/flowfinance/date"
	"github.com/shopspring/decimal"
)

// Flow is the money that came in and went out during a period.
type Flow struct {
	Range   date.Range
	Income  Money
	Expense Money
}

// Savings is what remains of the income once the expenses are paid, it can be negative.
func (f Flow) Savings() Money { return f.Income.Sub(f.Expense) }

// flowOf sums the transactions of l within r.
func flowOf(l *Ledger, r date.Range) Flow {
	f := Flow{Range: r, Income: HUF(0), Expense: HUF(0)}
	for tx := range l.Transactions() {
		if !r.Contains(tx.Date) {
			continue
		}
		switch tx.Kind {
		case Income:
			f.Income = f.Income.Add(tx.Amount)
		case Expense:
			f.Expense = f.Expense.Add(tx.Amount)
		}
	}
	return f
}

// MonthlyFlow returns the flow of the calendar month containing day 'on'.
func MonthlyFlow(s State, on date.Date) Flow { return flowOf(s.Ledger, date.Month(on)) }

// FlowHistory returns the monthly flows of the last n months up to the month
// of 'today' included, oldest first.
func FlowHistory(s State, today date.Date, n int) []Flow {
	history := make([]Flow, 0, max(n, 0))
	for i := n - 1; i >= 0; i-- {
		history = append(history, MonthlyFlow(s, today.AddMonth(-i)))
	}
	return history
}

// Progress is how far a BudgetGoal is during the current month.
type Progress struct {
	Goal    BudgetGoal
	Spent   Money           // expenses of the month in the goal category
	Percent decimal.Decimal // Spent relative to the target, in [0,100]
	Over    bool            // the target is reached
}

var hundred = decimal.NewFromInt(100)

// GoalProgress returns the progress of goal g in the month of 'today'.
//
// Both kinds of goals are measured on the expenses of the category.
func GoalProgress(s State, g BudgetGoal, today date.Date) Progress {
	month := date.Month(today)
	spent := HUF(0)
	for tx := range s.Ledger.Transactions() {
		if tx.Kind == Expense && tx.Category == g.Category && month.Contains(tx.Date) {
			spent = spent.Add(tx.Amount)
		}
	}
	pct := decimal.Min(hundred, spent.Ratio(g.TargetAmount).Mul(hundred))
	return Progress{
		Goal:    g,
		Spent:   spent,
		Percent: pct,
		Over:    pct.GreaterThanOrEqual(hundred),
	}
}

// CategoryTotal is the total of the expenses of a category.
type CategoryTotal struct {
	Category string
	Amount   Money
}

// CategoryBreakdown returns the expenses of the month containing 'on' per
// category, the largest first. Categories with the same total are sorted by name.
func CategoryBreakdown(s State, on date.Date) []CategoryTotal {
	month := date.Month(on)
	totals := make(map[string]Money)
	for tx := range s.Ledger.Transactions() {
		if tx.Kind != Expense || !month.Contains(tx.Date) {
			continue
		}
		totals[tx.Category] = HUF(0).Add(totals[tx.Category]).Add(tx.Amount)
	}
	breakdown := make([]CategoryTotal, 0, len(totals))
	for _, c := range slices.Sorted(maps.Keys(totals)) {
		breakdown = append(breakdown, CategoryTotal{Category: c, Amount: totals[c]})
	}
	slices.SortStableFunc(breakdown, func(a, b CategoryTotal) int {
		return b.Amount.Decimal().Cmp(a.Amount.Decimal())
	})
	return breakdown
}

// Categories returns every category used by transactions, templates and goals, sorted.
func Categories(s State) []string {
	set := make(map[string]bool)
	for tx := range s.Ledger.Transactions() {
		set[tx.Category] = true
	}
	for t := range s.Ledger.Templates() {
		set[t.Category] = true
	}
	for _, g := range s.Goals {
		set[g.Category] = true
	}
	delete(set, "")
	return slices.SortedFunc(maps.Keys(set), func(a, b string) int {
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	})
}

// HistoryMonths is the number of months in the dashboard history.
const HistoryMonths = 6

// RecentCount is the number of transactions listed by the dashboard.
const RecentCount = 5

// DashboardReport gathers everything shown on the dashboard.
type DashboardReport struct {
	Today       date.Date
	Balances    *Balances
	Crypto      Quantity        // SOL units
	Price       decimal.Decimal // USD price of one SOL
	CryptoValue Money
	NetWorth    Money
	Month       Flow   // current month
	History     []Flow // the last HistoryMonths months, oldest first
	Goals       []Progress
	Recent      []Transaction // most recent transactions first
}

// Dashboard returns the dashboard of state s on 'today' with SOL valued at usdPrice.
func Dashboard(s State, usdPrice decimal.Decimal, today date.Date) DashboardReport {
	r := DashboardReport{
		Today:       today,
		Balances:    s.Balances,
		Crypto:      s.Crypto,
		Price:       usdPrice,
		CryptoValue: CryptoValue(s.Crypto, usdPrice, s.ConversionRate()),
		NetWorth:    NetWorth(s.Balances, s.Crypto, usdPrice, s.ConversionRate()),
		Month:       MonthlyFlow(s, today),
		History:     FlowHistory(s, today, HistoryMonths),
	}
	for _, g := range s.Goals {
		r.Goals = append(r.Goals, GoalProgress(s, g, today))
	}
	recent := s.Transactions()
	r.Recent = recent[:min(RecentCount, len(recent))]
	return r
}
