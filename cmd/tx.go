package cmd

import (
	"context"
	"flag"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/date"
	"github.com/etnz/flowfinance/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	month    string
	category string
	head     int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions" }
func (*txCmd) Usage() string {
	return `flow tx [-m <YYYY-MM>] [-c <category>] [-head <n>]

  Lists the transactions, most recent first.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.month, "m", "", "Only the transactions of this month (YYYY-MM).")
	f.StringVar(&p.category, "c", "", "Only the transactions of this category.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var month date.Range
	if p.month != "" {
		first, err := date.Parse(p.month + "-01")
		if err != nil {
			return usageError("invalid month %q: want YYYY-MM", p.month)
		}
		month = date.Month(first)
	}
	if p.head < 0 {
		return usageError("-head must not be negative")
	}

	return withEnv(ctx, func(ctx context.Context, e *env) error {
		var transactions []flowfinance.Transaction
		for _, tx := range e.app.Snapshot().Transactions() {
			if p.month != "" && !month.Contains(tx.Date) {
				continue
			}
			if p.category != "" && tx.Category != p.category {
				continue
			}
			transactions = append(transactions, tx)
		}
		if p.head > 0 && len(transactions) > p.head {
			transactions = transactions[:p.head]
		}
		printMarkdown(renderer.RenderTransactions(transactions))
		return nil
	})
}
