package renderer

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"text/template"
	"time"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/date"
	"github.com/etnz/flowfinance/price"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// document is the structure of a rendered markdown page.
type document struct {
	headings []string   // "#"*level + " " + text
	tables   [][]string // one entry per table, one "a|b|c" string per body row
}

func parse(t *testing.T, page string) document {
	t.Helper()
	if strings.HasPrefix(page, "error ") {
		t.Fatalf("rendering failed: %s", page)
	}
	src := []byte(page)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))
	var doc document
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			doc.headings = append(doc.headings, strings.Repeat("#", n.Level)+" "+textOf(n, src))
			return ast.WalkSkipChildren, nil
		case *east.Table:
			doc.tables = append(doc.tables, nil)
		case *east.TableRow:
			var cells []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				cells = append(cells, textOf(c, src))
			}
			last := len(doc.tables) - 1
			doc.tables[last] = append(doc.tables[last], strings.Join(cells, "|"))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return doc
}

// textOf concatenates the text below n.
func textOf(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(src))
		case *ast.String:
			b.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func tx(id, day string, amount int, kind flowfinance.Kind, category string) flowfinance.Transaction {
	return flowfinance.Transaction{
		ID:       id,
		Date:     date.MustParse(day),
		Amount:   flowfinance.HUF(amount),
		Kind:     kind,
		Category: category,
		Account:  flowfinance.Cash,
	}
}

func state(t *testing.T, txs ...flowfinance.Transaction) flowfinance.State {
	t.Helper()
	l, b := flowfinance.NewLedger(), flowfinance.NewBalances()
	for _, x := range txs {
		if err := l.Add(x); err != nil {
			t.Fatalf("Add(%v) unexpected error: %v", x.ID, err)
		}
		b.ApplyPost(x.Account, x.Kind, x.Amount)
	}
	return flowfinance.State{Ledger: l, Balances: b}
}

func TestTemplatesParse(t *testing.T) {
	files, err := fs.Glob(templates, "*.md")
	if err != nil {
		t.Fatalf("failed to read embedded templates: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no embedded templates")
	}
	for _, f := range files {
		content, err := fs.ReadFile(templates, f)
		if err != nil {
			t.Fatalf("ReadFile(%q) unexpected error: %v", f, err)
		}
		if _, err := template.New(f).Parse(string(content)); err != nil {
			t.Errorf("template %q does not parse: %v", f, err)
		}
	}
}

func TestRenderDashboard(t *testing.T) {
	s := state(t,
		tx("1", "2024-03-01", 300000, flowfinance.Income, "Fizetés"),
		tx("2", "2024-03-02", 12000, flowfinance.Expense, "Élelmiszer"),
		tx("3", "2024-02-10", 5000, flowfinance.Expense, "Rezsi"),
	)
	s.Goals = []flowfinance.BudgetGoal{{ID: "g1", Category: "Élelmiszer", TargetAmount: flowfinance.HUF(10000), Kind: flowfinance.SpendingLimit}}
	s.Crypto = flowfinance.Q(2)
	today := date.MustParse("2024-03-20")

	doc := parse(t, RenderDashboard(flowfinance.Dashboard(s, decimal.NewFromInt(100), today)))

	wantHeadings := []string{
		"# FlowFinance, 2024-03-20",
		"## Ez a hónap (2024-03)",
		"## Eszközök",
		"## Bevétel vs Kiadás (elmúlt 6 hónap)",
		"## Havi limitek",
		"## Legutóbbi tranzakciók",
	}
	if got, want := strings.Join(doc.headings, "\n"), strings.Join(wantHeadings, "\n"); got != want {
		t.Errorf("RenderDashboard() headings =\n%s\nwant\n%s", got, want)
	}

	// month, accounts, crypto, history, goals, recent
	wantRows := []int{1, len(flowfinance.Accounts) + 2, 1, flowfinance.HistoryMonths, 1, 3}
	if len(doc.tables) != len(wantRows) {
		t.Fatalf("RenderDashboard() has %d tables want %d", len(doc.tables), len(wantRows))
	}
	for i, want := range wantRows {
		if got := len(doc.tables[i]); got != want {
			t.Errorf("RenderDashboard() table %d has %d rows want %d: %q", i, got, want, doc.tables[i])
		}
	}

	month := fmt.Sprintf("%s|%s|%s", flowfinance.HUF(300000), flowfinance.HUF(12000), flowfinance.HUF(288000).SignedString())
	if got := doc.tables[0][0]; got != month {
		t.Errorf("RenderDashboard() month row = %q want %q", got, month)
	}
	if got := doc.tables[3][0]; !strings.HasPrefix(got, "2023-10|") {
		t.Errorf("RenderDashboard() oldest history row = %q want the 2023-10 month", got)
	}
	if got := doc.tables[4][0]; !strings.Contains(got, "100%") || !strings.Contains(got, "túllépve") {
		t.Errorf("RenderDashboard() goal row = %q want a 100%% exceeded limit", got)
	}
	if got := doc.tables[2][0]; got != fmt.Sprintf("2 SOL|$100.00|%s", flowfinance.HUF(73000)) {
		t.Errorf("RenderDashboard() crypto row = %q", got)
	}
}

func TestRenderTransactions(t *testing.T) {
	for _, test := range []struct {
		name  string
		txs   []flowfinance.Transaction
		rows  int
		empty bool
	}{
		{name: "empty", empty: true},
		{name: "two", txs: []flowfinance.Transaction{
			tx("a", "2024-01-02", 100, flowfinance.Income, "Fizetés"),
			tx("b", "2024-01-01", 50, flowfinance.Expense, "Élelmiszer"),
		}, rows: 2},
		{name: "pipe in category", txs: []flowfinance.Transaction{
			tx("a", "2024-01-02", 100, flowfinance.Expense, "a|b"),
		}, rows: 1},
	} {
		t.Run(test.name, func(t *testing.T) {
			page := RenderTransactions(test.txs)
			doc := parse(t, page)
			if test.empty {
				if len(doc.tables) != 0 || !strings.Contains(page, "Nincs tranzakció.") {
					t.Errorf("RenderTransactions() = %q want the empty message", page)
				}
				return
			}
			if len(doc.tables) != 1 {
				t.Fatalf("RenderTransactions() has %d tables want 1", len(doc.tables))
			}
			if got := len(doc.tables[0]); got != test.rows {
				t.Errorf("RenderTransactions() has %d rows want %d", got, test.rows)
			}
			for i, row := range doc.tables[0] {
				if want := "|Készpénz|" + test.txs[i].ID; !strings.HasSuffix(row, want) {
					t.Errorf("RenderTransactions() row %q want suffix %q", row, want)
				}
			}
		})
	}
}

func TestRenderTransactionsSigns(t *testing.T) {
	doc := parse(t, RenderTransactions([]flowfinance.Transaction{
		tx("a", "2024-01-02", 100, flowfinance.Income, "Fizetés"),
		tx("b", "2024-01-01", 50, flowfinance.Expense, "Élelmiszer"),
	}))
	in, out := doc.tables[0][0], doc.tables[0][1]
	if !strings.Contains(in, "Bevétel|"+flowfinance.HUF(100).SignedString()) {
		t.Errorf("income row = %q want a positive amount", in)
	}
	if !strings.Contains(out, "Kiadás|"+flowfinance.HUF(-50).SignedString()) {
		t.Errorf("expense row = %q want a negative amount", out)
	}
}

func TestRenderCategories(t *testing.T) {
	s := state(t,
		tx("1", "2024-03-01", 750, flowfinance.Expense, "Élelmiszer"),
		tx("2", "2024-03-02", 250, flowfinance.Expense, "Rezsi"),
	)
	on := date.MustParse("2024-03-15")
	doc := parse(t, RenderCategories(on, flowfinance.CategoryBreakdown(s, on)))
	if got, want := doc.headings[0], "# Kiadások kategóriánként (2024-03)"; got != want {
		t.Errorf("RenderCategories() heading = %q want %q", got, want)
	}
	want := []string{
		fmt.Sprintf("Élelmiszer|%s|75.0%%", flowfinance.HUF(750)),
		fmt.Sprintf("Rezsi|%s|25.0%%", flowfinance.HUF(250)),
		fmt.Sprintf("Összesen|%s|", flowfinance.HUF(1000)),
	}
	if got := strings.Join(doc.tables[0], "\n"); got != strings.Join(want, "\n") {
		t.Errorf("RenderCategories() rows =\n%s\nwant\n%s", got, strings.Join(want, "\n"))
	}
}

func TestRenderGoalsEmpty(t *testing.T) {
	page := RenderGoals(nil)
	if doc := parse(t, page); len(doc.tables) != 0 || !strings.Contains(page, "Nincs beállított limit.") {
		t.Errorf("RenderGoals(nil) = %q want the empty message", page)
	}
}

func TestRenderTemplates(t *testing.T) {
	doc := parse(t, RenderTemplates([]flowfinance.RecurringTemplate{{
		ID: "t1", Amount: flowfinance.HUF(5000), Kind: flowfinance.Expense, Category: "Élelmiszer",
		Description: "Heti bevásárlás", Account: flowfinance.Cash, DayOfMonth: 15,
	}}))
	want := fmt.Sprintf("15|Kiadás|%s|Élelmiszer|Heti bevásárlás|Készpénz|t1", flowfinance.HUF(5000))
	if got := doc.tables[0][0]; got != want {
		t.Errorf("RenderTemplates() row = %q want %q", got, want)
	}
}

func TestRenderPrices(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	points := []price.Point{
		{Time: at, Price: decimal.RequireFromString("145.5")},
		{Time: at.Add(30 * time.Second), Price: decimal.RequireFromString("146.125")},
	}
	doc := parse(t, RenderPrices(points[1], points))
	if got := strings.Join(doc.tables[0], ","); got != "9:5|145.50,9:5|146.13" {
		t.Errorf("RenderPrices() rows = %q", got)
	}
}

func TestRenderAdvice(t *testing.T) {
	doc := parse(t, RenderAdvice("Spórolj többet."))
	if got, want := doc.headings[0], "# Gemini AI Advisor"; got != want {
		t.Errorf("RenderAdvice() heading = %q want %q", got, want)
	}
}
