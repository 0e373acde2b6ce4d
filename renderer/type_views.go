package renderer

import (
	"strings"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/date"
	"github.com/etnz/flowfinance/price"
	"github.com/shopspring/decimal"
)

// Numbers are kept as Money and Quantity so that templates use their String methods.

// Dashboard is the data of the dashboard page.
type Dashboard struct {
	Date     date.Date
	NetWorth flowfinance.Money
	Assets   Assets
	Month    FlowRow
	History  []FlowRow
	Goals    []GoalRow
	Recent   []TransactionRow
}

// Assets lists the account balances and the crypto holding.
type Assets struct {
	Accounts    []AccountRow
	Liquid      flowfinance.Money // total of the liquid accounts
	Total       flowfinance.Money // total of every account, crypto excluded
	Crypto      flowfinance.Quantity
	Price       string // USD
	CryptoValue flowfinance.Money
}

// AccountRow is the balance of one account.
type AccountRow struct {
	Key     string
	Label   string
	Balance flowfinance.Money
}

// FlowRow is the income and expense of a month.
type FlowRow struct {
	Month   string // YYYY-MM
	Income  flowfinance.Money
	Expense flowfinance.Money
	Savings string // signed
}

// GoalRow is the progress of a budget goal.
type GoalRow struct {
	ID       string
	Category string
	Kind     string
	Target   flowfinance.Money
	Spent    flowfinance.Money
	Percent  string
	Status   string
}

// TransactionRow is a transaction as displayed.
type TransactionRow struct {
	ID          string
	Date        date.Date
	Kind        string
	Amount      string // signed
	Category    string
	Description string
	Account     string
}

// TemplateRow is a recurring template as displayed.
type TemplateRow struct {
	ID          string
	Day         int
	Kind        string
	Amount      flowfinance.Money
	Category    string
	Description string
	Account     string
}

// Categories is the monthly expense breakdown.
type Categories struct {
	Month string
	Total flowfinance.Money
	Rows  []CategoryRow
}

// CategoryRow is the expense of one category.
type CategoryRow struct {
	Category string
	Amount   flowfinance.Money
	Share    string // percent of the month expenses
}

// Prices is the SOL price history.
type Prices struct {
	Latest string
	Points []PriceRow
}

// PriceRow is one price sample.
type PriceRow struct {
	Time  string
	Price string
}

var kindLabels = map[flowfinance.Kind]string{
	flowfinance.Income:  "Bevétel",
	flowfinance.Expense: "Kiadás",
}

var goalLabels = map[flowfinance.GoalKind]string{
	flowfinance.SpendingLimit: "Havi keret",
	flowfinance.SavingGoal:    "Megtakarítás",
}

// NewDashboard converts the dashboard report.
func NewDashboard(r flowfinance.DashboardReport) *Dashboard {
	d := &Dashboard{
		Date:     r.Today,
		NetWorth: r.NetWorth,
		Assets:   newAssets(r.Balances, r.Crypto, r.Price, r.CryptoValue),
		Month:    newFlowRow(r.Month),
		Goals:    newGoalRows(r.Goals),
		Recent:   newTransactionRows(r.Recent),
	}
	for _, f := range r.History {
		d.History = append(d.History, newFlowRow(f))
	}
	return d
}

// NewAssets converts the balances and the crypto holding valued at usdPrice
// and converted to HUF at rate.
func NewAssets(b *flowfinance.Balances, crypto flowfinance.Quantity, usdPrice, rate decimal.Decimal) *Assets {
	a := newAssets(b, crypto, usdPrice, flowfinance.CryptoValue(crypto, usdPrice, rate))
	return &a
}

func newAssets(b *flowfinance.Balances, crypto flowfinance.Quantity, usdPrice decimal.Decimal, value flowfinance.Money) Assets {
	a := Assets{
		Liquid:      flowfinance.HUF(0),
		Total:       b.Total(),
		Crypto:      crypto,
		Price:       usdPrice.StringFixed(2),
		CryptoValue: value,
	}
	for account, balance := range b.All() {
		a.Accounts = append(a.Accounts, AccountRow{Key: account.String(), Label: account.Label(), Balance: balance})
		if account.Liquid() {
			a.Liquid = a.Liquid.Add(balance)
		}
	}
	return a
}

func newFlowRow(f flowfinance.Flow) FlowRow {
	return FlowRow{
		Month:   f.Range.Identifier(),
		Income:  f.Income,
		Expense: f.Expense,
		Savings: f.Savings().SignedString(),
	}
}

func newGoalRows(progress []flowfinance.Progress) []GoalRow {
	rows := make([]GoalRow, 0, len(progress))
	for _, p := range progress {
		status := "rendben"
		if p.Over {
			status = "keret túllépve ⚠️"
		}
		rows = append(rows, GoalRow{
			ID:       p.Goal.ID,
			Category: cell(p.Goal.Category),
			Kind:     goalLabels[p.Goal.Kind],
			Target:   p.Goal.TargetAmount,
			Spent:    p.Spent,
			Percent:  p.Percent.StringFixed(0) + "%",
			Status:   status,
		})
	}
	return rows
}

func newTransactionRows(txs []flowfinance.Transaction) []TransactionRow {
	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, TransactionRow{
			ID:          tx.ID,
			Date:        tx.Date,
			Kind:        kindLabels[tx.Kind],
			Amount:      tx.Signed().SignedString(),
			Category:    cell(tx.Category),
			Description: cell(tx.Description),
			Account:     tx.Account.Label(),
		})
	}
	return rows
}

func newTemplateRows(ts []flowfinance.RecurringTemplate) []TemplateRow {
	rows := make([]TemplateRow, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, TemplateRow{
			ID:          t.ID,
			Day:         t.DayOfMonth,
			Kind:        kindLabels[t.Kind],
			Amount:      t.Amount,
			Category:    cell(t.Category),
			Description: cell(t.Description),
			Account:     t.Account.Label(),
		})
	}
	return rows
}

func newCategories(on date.Date, totals []flowfinance.CategoryTotal) *Categories {
	c := &Categories{Month: date.Month(on).Identifier(), Total: flowfinance.HUF(0)}
	for _, t := range totals {
		c.Total = c.Total.Add(t.Amount)
	}
	for _, t := range totals {
		share := t.Amount.Ratio(c.Total).Mul(decimal.NewFromInt(100))
		c.Rows = append(c.Rows, CategoryRow{Category: cell(t.Category), Amount: t.Amount, Share: share.StringFixed(1) + "%"})
	}
	return c
}

func newPrices(latest price.Point, points []price.Point) *Prices {
	p := &Prices{Latest: latest.Price.StringFixed(2)}
	for _, pt := range points {
		p.Points = append(p.Points, PriceRow{Time: pt.Label(), Price: pt.Price.StringFixed(2)})
	}
	return p
}

// cell makes s safe inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
