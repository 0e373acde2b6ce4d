package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/date"
	"github.com/google/subcommands"
)

// postingFlags are the flags shared by the commands creating transactions and templates.
type postingFlags struct {
	kind        string
	category    string
	description string
	account     string
}

func (p *postingFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "k", string(flowfinance.Expense), "Kind of transaction: income or expense.")
	f.StringVar(&p.category, "c", "Általános", "Category.")
	f.StringVar(&p.description, "m", "", "Description.")
	f.StringVar(&p.account, "a", string(flowfinance.Cash), "Account: cash, bankRevolut, bankOtp, stockLightyear or governmentBonds.")
}

// parse validates the flags and the single amount argument.
func (p *postingFlags) parse(args []string) (flowfinance.Kind, flowfinance.Account, flowfinance.Money, error) {
	if len(args) != 1 {
		return "", "", flowfinance.Money{}, fmt.Errorf("want exactly one amount argument, got %d", len(args))
	}
	kind, err := flowfinance.ParseKind(p.kind)
	if err != nil {
		return "", "", flowfinance.Money{}, err
	}
	account, err := flowfinance.ParseAccount(p.account)
	if err != nil {
		return "", "", flowfinance.Money{}, err
	}
	amount, err := flowfinance.ParsePositiveMoney(args[0])
	if err != nil {
		return "", "", flowfinance.Money{}, err
	}
	return kind, account, amount, nil
}

type addCmd struct {
	postingFlags
	date string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or an expense" }
func (*addCmd) Usage() string {
	return `flow add [-k income|expense] [-c <category>] [-m <description>] [-a <account>] [-d <date>] <amount>

  Records a transaction of a positive amount in HUF and updates the balance
  of its account.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.postingFlags.SetFlags(f)
	f.StringVar(&c.date, "d", "", "Date of the transaction (YYYY-MM-DD), today by default.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, account, amount, err := c.parse(f.Args())
	if err != nil {
		return usageError("%v", err)
	}
	on := today()
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			return usageError("invalid date: %v", err)
		}
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		tx, err := e.app.AddTransaction(ctx, flowfinance.Entry{
			Date:        on,
			Amount:      amount,
			Kind:        kind,
			Category:    c.category,
			Description: c.description,
			Account:     account,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %s %s on %s to %s: %s\n", tx.Kind, tx.Amount, tx.Date, tx.Account.Label(), tx.ID)
		return nil
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions" }
func (*rmCmd) Usage() string {
	return `flow rm <id>...

  Deletes transactions and reverses their effect on the balances. Unknown
  identifiers are ignored.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return usageError("missing transaction id")
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		for _, id := range f.Args() {
			ok, err := e.app.DeleteTransaction(ctx, id)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(stdout, "Deleted %s\n", id)
			} else {
				fmt.Fprintf(stdout, "No transaction %s\n", id)
			}
		}
		return nil
	})
}
