// Command flow tracks personal finances from the terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/flowfinance/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.SetFlags(flag.CommandLine)
	cmd.Register(commander)
	cmd.Complete(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
