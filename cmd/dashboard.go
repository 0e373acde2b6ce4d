package cmd

import (
	"context"
	"flag"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/date"
	"github.com/etnz/flowfinance/renderer"
	"github.com/google/subcommands"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the net worth and the monthly flows" }
func (*dashboardCmd) Usage() string {
	return `flow dashboard

  Shows the net worth, the balances, the income and expenses of the current
  month and of the last six months, the goals and the recent transactions.
`
}

func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		usd := newFeed(e).Quote(ctx)
		printMarkdown(renderer.RenderDashboard(flowfinance.Dashboard(e.app.Snapshot(), usd, e.app.Today())))
		return nil
	})
}

type categoriesCmd struct {
	month string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "show the expenses per category" }
func (*categoriesCmd) Usage() string {
	return `flow categories [-m <YYYY-MM>]

  Shows the expenses of a month per category, the largest first.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month (YYYY-MM), the current month by default.")
}

func (c *categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var on date.Date
	if c.month != "" {
		var err error
		if on, err = date.Parse(c.month + "-01"); err != nil {
			return usageError("invalid month %q: want YYYY-MM", c.month)
		}
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		if on.IsZero() {
			on = e.app.Today()
		}
		printMarkdown(renderer.RenderCategories(on, flowfinance.CategoryBreakdown(e.app.Snapshot(), on)))
		return nil
	})
}
