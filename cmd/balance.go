package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/renderer"
	"github.com/google/subcommands"
)

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "correct the balance of an account" }
func (*balanceCmd) Usage() string {
	return `flow balance <account> <amount>

  Sets the balance of an account, regardless of its transactions. Later
  deletions still reverse their own amount only.
`
}

func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (*balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usageError("want an account and an amount")
	}
	account, err := flowfinance.ParseAccount(f.Arg(0))
	if err != nil {
		return usageError("%v", err)
	}
	value, err := flowfinance.ParseMoney(f.Arg(1))
	if err != nil {
		return usageError("%v", err)
	}
	if value.IsNegative() {
		return usageError("%v: balance %s is negative", flowfinance.ErrInvalidAmount, f.Arg(1))
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		if err := e.app.SetBalance(ctx, account, value); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: %s\n", account.Label(), value)
		return nil
	})
}

type assetsCmd struct{}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "show the account balances and the crypto holding" }
func (*assetsCmd) Usage() string {
	return `flow assets

  Shows the balance of every account and the value of the crypto holding at
  the current price.
`
}

func (*assetsCmd) SetFlags(*flag.FlagSet) {}

func (*assetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		s := e.app.Snapshot()
		usd := newFeed(e).Quote(ctx)
		printMarkdown(renderer.RenderAssets(s.Balances, s.Crypto, usd, s.ConversionRate()))
		return nil
	})
}
