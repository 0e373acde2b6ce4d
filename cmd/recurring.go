package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/renderer"
	"github.com/google/subcommands"
)

type recurringCmd struct {
	postingFlags
	day int
}

func (*recurringCmd) Name() string     { return "recurring" }
func (*recurringCmd) Synopsis() string { return "add a monthly recurring transaction" }
func (*recurringCmd) Usage() string {
	return `flow recurring -day <1-31> [-k income|expense] [-c <category>] [-m <description>] [-a <account>] <amount>

  Registers a template posted automatically every month on the given day,
  starting with the next due day after today.
`
}

func (c *recurringCmd) SetFlags(f *flag.FlagSet) {
	c.postingFlags.SetFlags(f)
	f.IntVar(&c.day, "day", 0, "Day of the month, from 1 to 31.")
}

func (c *recurringCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, account, amount, err := c.parse(f.Args())
	if err != nil {
		return usageError("%v", err)
	}
	if c.day < 1 || c.day > 31 {
		return usageError("-day %d out of range [1,31]", c.day)
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		t, err := e.app.AddTemplate(ctx, flowfinance.RecurringTemplate{
			Amount:      amount,
			Kind:        kind,
			Category:    c.category,
			Description: c.description,
			Account:     account,
			DayOfMonth:  c.day,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added recurring %s %s on day %d: %s\n", t.Kind, t.Amount, t.DayOfMonth, t.ID)
		return nil
	})
}

type unrecurCmd struct{}

func (*unrecurCmd) Name() string     { return "unrecur" }
func (*unrecurCmd) Synopsis() string { return "remove a recurring transaction" }
func (*unrecurCmd) Usage() string {
	return `flow unrecur <id>

  Removes a recurring template. The transactions it already produced are kept.
`
}

func (*unrecurCmd) SetFlags(*flag.FlagSet) {}

func (*unrecurCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one template id")
	}
	id := f.Arg(0)
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		ok, err := e.app.RemoveTemplate(ctx, id)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(stdout, "Removed %s\n", id)
		} else {
			fmt.Fprintf(stdout, "No template %s\n", id)
		}
		return nil
	})
}

type templatesCmd struct{}

func (*templatesCmd) Name() string     { return "templates" }
func (*templatesCmd) Synopsis() string { return "list the recurring transactions" }
func (*templatesCmd) Usage() string {
	return `flow templates

  Lists the recurring templates in registration order.
`
}

func (*templatesCmd) SetFlags(*flag.FlagSet) {}

func (*templatesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		printMarkdown(renderer.RenderTemplates(slices.Collect(e.app.Snapshot().Ledger.Templates())))
		return nil
	})
}
