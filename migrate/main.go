// Command migrate moves the flow state between storages and checks it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/logger"
	"github.com/etnz/flowfinance/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

func main() {
	// The migrate tool needs its own set of flags, independent of the main flow tool.
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	commander := subcommands.NewCommander(flag.CommandLine, "migrate")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&copyCmd{}, "")
	commander.Register(&checkCmd{}, "")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// parseStorage parses a storage description "<driver>:<address>":
//
//	dir:.flow
//	redis:localhost:6379
//	mongo:mongodb://localhost:27017
//	memory:
func parseStorage(desc string) (store.Options, error) {
	driver, addr, ok := strings.Cut(desc, ":")
	if !ok {
		return store.Options{}, fmt.Errorf("invalid storage %q: want <driver>:<address>", desc)
	}
	o := store.Options{Driver: store.Driver(driver), RedisPrefix: "flow:"}
	switch o.Driver {
	case store.DriverDir:
		o.Dir = addr
	case store.DriverRedis:
		o.RedisAddr = addr
	case store.DriverMongo:
		o.MongoURI = addr
	case store.DriverMemory:
	default:
		return store.Options{}, fmt.Errorf("invalid storage %q: unknown driver %q", desc, driver)
	}
	return o, nil
}

func openStorage(ctx context.Context, desc string) (store.Storage, error) {
	o, err := parseStorage(desc)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, o)
}

func closeStorage(s store.Storage) {
	if c, ok := s.(io.Closer); ok {
		c.Close()
	}
}

// copyKeys copies the flow keys present in src to dst and returns the keys copied.
func copyKeys(ctx context.Context, src, dst store.Storage) ([]string, error) {
	var copied []string
	for _, key := range flowfinance.Keys {
		value, ok, err := src.Get(ctx, key)
		if err != nil {
			return copied, fmt.Errorf("cannot read %q: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.Set(ctx, key, value); err != nil {
			return copied, fmt.Errorf("cannot write %q: %w", key, err)
		}
		copied = append(copied, key)
	}
	return copied, nil
}

// --- copyCmd ---

type copyCmd struct {
	from string
	to   string
}

func (*copyCmd) Name() string     { return "copy" }
func (*copyCmd) Synopsis() string { return "copies the flow state from a storage to another" }
func (*copyCmd) Usage() string {
	return `migrate copy -from <driver>:<address> -to <driver>:<address>

Copies the stored values as they are, for instance from a data directory to a
Redis server. Keys missing in the source are left untouched in the destination.
`
}
func (c *copyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "The source storage, e.g. dir:.flow")
	f.StringVar(&c.to, "to", "", "The destination storage, e.g. redis:localhost:6379")
}

func (c *copyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" {
		fmt.Fprintln(os.Stderr, "Error: -from and -to flags are required.")
		return subcommands.ExitUsageError
	}
	if c.from == c.to {
		fmt.Fprintln(os.Stderr, "Error: -from and -to must be different storages.")
		return subcommands.ExitUsageError
	}

	src, err := openStorage(ctx, c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the source: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStorage(src)
	dst, err := openStorage(ctx, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the destination: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStorage(dst)

	copied, err := copyKeys(ctx, src, dst)
	for _, key := range copied {
		fmt.Printf("  copied %s\n", key)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("\nSuccessfully copied %d keys to %s\n", len(copied), c.to)
	return subcommands.ExitSuccess
}

// --- checkCmd ---

type checkCmd struct {
	in string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "checks that the stored flow state loads cleanly" }
func (*checkCmd) Usage() string {
	return `migrate check -in <driver>:<address>

Loads the state from a copy of the storage and reports the values that are
malformed or invalid. The storage itself is not modified.
`
}
func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "The storage to check, e.g. dir:.flow")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in flag is required.")
		return subcommands.ExitUsageError
	}
	src, err := openStorage(ctx, c.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the storage: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStorage(src)

	warnings, s, err := check(ctx, src, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%d transactions, %d goals, net worth without crypto %s\n", s.Ledger.Len(), len(s.Goals), s.Balances.Total())
	if warnings > 0 {
		fmt.Printf("%d problems found\n", warnings)
		return subcommands.ExitFailure
	}
	fmt.Println("No problem found")
	return subcommands.ExitSuccess
}

// check loads the state of a memory copy of src, logging problems to w. It
// returns the number of problems.
func check(ctx context.Context, src store.Storage, w io.Writer) (int, flowfinance.State, error) {
	mem := store.NewMemory()
	copied, err := copyKeys(ctx, src, mem)
	if err != nil {
		return 0, flowfinance.State{}, err
	}
	if len(copied) == 0 {
		return 0, flowfinance.State{}, errNoState
	}
	counter := &lineCounter{w: w}
	log := logger.NewWithWriter(counter).Level(zerolog.WarnLevel)
	app, err := flowfinance.Open(ctx, mem, flowfinance.WithLogger(log))
	if err != nil {
		return 0, flowfinance.State{}, err
	}
	return counter.lines, app.Snapshot(), nil
}

// lineCounter counts the log lines written to w.
type lineCounter struct {
	w     io.Writer
	lines int
}

func (c *lineCounter) Write(p []byte) (int, error) {
	c.lines += strings.Count(string(p), "\n")
	if c.w == nil {
		return len(p), nil
	}
	return c.w.Write(p)
}

var errNoState = errors.New("no flow state found")
