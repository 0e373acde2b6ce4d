// Package renderer renders flow reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/date"
	"github.com/etnz/flowfinance/price"
	"github.com/shopspring/decimal"
)

//go:embed *.md
var templates embed.FS

// Partials shared by several pages.
var (
	assetsPartials       = map[string]string{"assets_table": "assets_table.md"}
	transactionsPartials = map[string]string{"transactions_table": "transactions_table.md"}
	goalsPartials        = map[string]string{"goals_table": "goals_table.md"}
)

// RenderDashboard renders the dashboard report.
func RenderDashboard(r flowfinance.DashboardReport) string {
	partials := map[string]string{
		"dashboard_month":   "dashboard_month.md",
		"dashboard_history": "dashboard_history.md",
	}
	for _, p := range []map[string]string{assetsPartials, transactionsPartials, goalsPartials} {
		for name, file := range p {
			partials[name] = file
		}
	}
	return renderTemplate("dashboard", "dashboard.md", partials, NewDashboard(r))
}

// RenderTransactions renders txs in the given order.
func RenderTransactions(txs []flowfinance.Transaction) string {
	return renderTemplate("transactions", "transactions.md", transactionsPartials, newTransactionRows(txs))
}

// RenderAssets renders the account balances and the crypto holding valued at
// usdPrice, converted to HUF at rate.
func RenderAssets(b *flowfinance.Balances, crypto flowfinance.Quantity, usdPrice, rate decimal.Decimal) string {
	return renderTemplate("assets", "assets.md", assetsPartials, NewAssets(b, crypto, usdPrice, rate))
}

// RenderGoals renders the progress of the budget goals.
func RenderGoals(progress []flowfinance.Progress) string {
	return renderTemplate("goals", "goals.md", goalsPartials, newGoalRows(progress))
}

// RenderTemplates renders the recurring templates.
func RenderTemplates(ts []flowfinance.RecurringTemplate) string {
	return renderTemplate("templates", "templates.md", nil, newTemplateRows(ts))
}

// RenderCategories renders the expense breakdown of the month containing 'on'.
func RenderCategories(on date.Date, totals []flowfinance.CategoryTotal) string {
	return renderTemplate("categories", "categories.md", nil, newCategories(on, totals))
}

// RenderPrices renders the latest SOL price and the sampled history, oldest first.
func RenderPrices(latest price.Point, history []price.Point) string {
	return renderTemplate("prices", "prices.md", nil, newPrices(latest, history))
}

// RenderAdvice renders the advisor answer.
func RenderAdvice(advice string) string {
	return renderTemplate("advice", "advice.md", nil, advice)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
