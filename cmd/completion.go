package cmd

import (
	"flag"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors completes the values of the flags that have a known set of values.
var flagPredictors = map[string]complete.Predictor{
	"k":        predict.Set{string(flowfinance.Income), string(flowfinance.Expense)},
	"a":        accountNames(),
	"o":        predict.Files("*.json"),
	"config":   predict.Files("*.toml"),
	"data-dir": predict.Dirs("*"),
}

// argPredictors completes the positional arguments of some commands.
var argPredictors = map[string]complete.Predictor{
	"balance": accountNames(),
	"import":  predict.Files("*.json"),
	"topic":   complete.PredictFunc(topicNames),
}

func accountNames() predict.Set {
	var names predict.Set
	for _, a := range flowfinance.Accounts {
		names = append(names, a.String())
	}
	return names
}

func topicNames(string) []string {
	topics, _ := docs.GetAllTopics()
	return topics
}

// Completion describes the commands registered in c and the global flags for
// shell completion.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictFlags(c.VisitAll, ""),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		fs := flag.NewFlagSet(sub.Name(), flag.ContinueOnError)
		sub.SetFlags(fs)
		cmd := &complete.Command{Flags: predictFlags(fs.VisitAll, sub.Name()), Args: argPredictors[sub.Name()]}
		if cmd.Args == nil {
			cmd.Args = predict.Nothing
		}
		root.Sub[sub.Name()] = cmd
	})
	return root
}

// predictFlags returns the predictors of the flags visited, for the command 'name'.
func predictFlags(visit func(func(*flag.Flag)), name string) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	visit(func(f *flag.Flag) {
		switch p, known := flagPredictors[f.Name]; {
		case f.Name == "k" && name == "goal":
			flags[f.Name] = predict.Set{string(flowfinance.SpendingLimit), string(flowfinance.SavingGoal)}
		case known:
			flags[f.Name] = p
		case isBool(f):
			flags[f.Name] = predict.Nothing
		default:
			flags[f.Name] = predict.Something
		}
	})
	return flags
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// Complete runs the shell completion when flow is invoked by the shell to
// complete a command line, and exits. It returns otherwise.
func Complete(c *subcommands.Commander) {
	Completion(c).Complete(c.Name())
}
