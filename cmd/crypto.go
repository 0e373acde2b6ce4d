package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/price"
	"github.com/etnz/flowfinance/renderer"
	"github.com/google/subcommands"
)

// newFeed returns the price feed configured for e.
func newFeed(e *env) *price.Feed {
	f := price.NewFeed()
	f.URL = e.cfg.Price.URL
	f.Path = e.cfg.Price.Path
	f.TTL = e.cfg.Price.TTL
	f.Log = e.log
	return f
}

type cryptoCmd struct{}

func (*cryptoCmd) Name() string     { return "crypto" }
func (*cryptoCmd) Synopsis() string { return "set the number of SOL units held" }
func (*cryptoCmd) Usage() string {
	return `flow crypto <units>

  Sets the Solana holding, a non negative number of units.
`
}

func (*cryptoCmd) SetFlags(*flag.FlagSet) {}

func (*cryptoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one number of units")
	}
	units, err := flowfinance.ParseQuantity(f.Arg(0))
	if err != nil {
		return usageError("%v", err)
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		if err := e.app.SetCryptoBalance(ctx, units); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Solana: %s SOL\n", units)
		return nil
	})
}

type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "quote the SOL/USD price" }
func (*priceCmd) Usage() string {
	return `flow price

  Prints the current SOL/USD price and the value of the holding in HUF.
`
}

func (*priceCmd) SetFlags(*flag.FlagSet) {}

func (*priceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		usd := newFeed(e).Quote(ctx)
		s := e.app.Snapshot()
		fmt.Fprintf(stdout, "SOL/USD: $%s\n", usd.StringFixed(2))
		fmt.Fprintf(stdout, "%s SOL: %s\n", s.Crypto, flowfinance.CryptoValue(s.Crypto, usd, s.ConversionRate()))
		return nil
	})
}

type watchCmd struct {
	samples int
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "poll the SOL/USD price" }
func (*watchCmd) Usage() string {
	return `flow watch [-n <samples>]

  Samples the SOL/USD price periodically and prints each sample, until
  interrupted or after n samples. The recent samples are printed at the end.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.samples, "n", 0, "Stop after n samples, 0 to run until interrupted.")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.samples < 0 {
		return usageError("-n must not be negative")
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		poller := price.NewPoller(newFeed(e), e.cfg.Price.Interval, e.cfg.Price.History)
		samples := make(chan price.Point, 1)
		done := make(chan struct{})
		go func() {
			defer close(done)
			poller.Run(ctx, samples)
		}()

	loop:
		for n := 0; c.samples == 0 || n < c.samples; n++ {
			select {
			case pt := <-samples:
				fmt.Fprintf(stdout, "%s $%s\n", pt.Label(), pt.Price.StringFixed(2))
			case <-ctx.Done():
				break loop
			}
		}
		cancel()
		<-done

		latest, ok := poller.Latest()
		if !ok {
			return nil
		}
		printMarkdown(renderer.RenderPrices(latest, poller.History()))
		return nil
	})
}
