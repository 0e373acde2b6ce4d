// Package cmd implements the flow command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/config"
	"github.com/etnz/flowfinance/date"
	"github.com/etnz/flowfinance/logger"
	"github.com/etnz/flowfinance/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configPath string
	dataDir    string
	verbose    bool
	rawOutput  bool
)

// Output streams.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// today is the clock of every command.
var today = date.Today

// SetFlags declares the global flags in f.
func SetFlags(f *flag.FlagSet) {
	f.StringVar(&configPath, "config", "", "Path to a TOML configuration file.")
	f.StringVar(&dataDir, "data-dir", "", "Data directory of the dir storage, overrides storage.dir.")
	f.BoolVar(&verbose, "v", false, "Log debug messages.")
	f.BoolVar(&rawOutput, "md", false, "Print markdown instead of rendering it for the terminal.")
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	c.Register(&topicCmd{}, "")

	c.Register(&addCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&recurringCmd{}, "transactions")
	c.Register(&unrecurCmd{}, "transactions")
	c.Register(&templatesCmd{}, "transactions")

	c.Register(&balanceCmd{}, "assets")
	c.Register(&assetsCmd{}, "assets")
	c.Register(&cryptoCmd{}, "assets")
	c.Register(&priceCmd{}, "assets")
	c.Register(&watchCmd{}, "assets")

	c.Register(&goalCmd{}, "planning")
	c.Register(&ungoalCmd{}, "planning")
	c.Register(&goalsCmd{}, "planning")
	c.Register(&dashboardCmd{}, "planning")
	c.Register(&categoriesCmd{}, "planning")
	c.Register(&adviseCmd{}, "planning")

	c.Register(&exportCmd{}, "data")
	c.Register(&importCmd{}, "data")
	c.Register(&resetCmd{}, "data")
}

// env is what a command works with.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	store store.Storage
	app   *flowfinance.App
}

// openEnv loads the configuration, opens the storage and the App.
//
// Opening the App posts the recurring transactions due today.
func openEnv(ctx context.Context) (context.Context, *env, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return ctx, nil, err
	}
	if dataDir != "" {
		cfg.Storage.Dir = dataDir
	}
	log := logger.New(verbose)
	ctx = logger.WithContext(ctx, log)

	s, err := store.Open(ctx, cfg.Storage.Options())
	if err != nil {
		return ctx, nil, fmt.Errorf("cannot open the %q storage: %w", cfg.Storage.Driver, err)
	}
	e := &env{cfg: cfg, log: log, store: s}
	e.app, err = flowfinance.Open(ctx, s, flowfinance.WithClock(today), flowfinance.WithLogger(log),
		flowfinance.WithRate(decimal.NewFromFloat(cfg.UsdHuf)))
	if err != nil {
		e.Close()
		return ctx, nil, err
	}
	return ctx, e, nil
}

// Close releases the storage connection, if any.
func (e *env) Close() error {
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// withEnv runs f in an opened env and reports errors on stderr.
func withEnv(ctx context.Context, f func(ctx context.Context, e *env) error) subcommands.ExitStatus {
	ctx, e, err := openEnv(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()
	if err := f(ctx, e); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// usageError reports an invalid command line, nothing is changed.
func usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// printMarkdown prints md rendered for the terminal, or raw with -md.
func printMarkdown(md string) {
	if rawOutput {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}
