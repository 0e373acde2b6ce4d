package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/renderer"
	"github.com/google/subcommands"
)

type goalCmd struct {
	kind string
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "add a monthly budget goal" }
func (*goalCmd) Usage() string {
	return `flow goal [-k spending_limit|saving_goal] <category> <amount>

  Adds a monthly target on the expenses of a category.
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", string(flowfinance.SpendingLimit), "Kind of goal: spending_limit or saving_goal.")
}

func (c *goalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usageError("want a category and an amount")
	}
	kind, err := flowfinance.ParseGoalKind(c.kind)
	if err != nil {
		return usageError("%v", err)
	}
	target, err := flowfinance.ParsePositiveMoney(f.Arg(1))
	if err != nil {
		return usageError("%v", err)
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		g, err := e.app.AddGoal(ctx, flowfinance.BudgetGoal{Category: f.Arg(0), TargetAmount: target, Kind: kind})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added goal %s %s for %s: %s\n", g.Kind, g.TargetAmount, g.Category, g.ID)
		return nil
	})
}

type ungoalCmd struct{}

func (*ungoalCmd) Name() string     { return "ungoal" }
func (*ungoalCmd) Synopsis() string { return "remove a budget goal" }
func (*ungoalCmd) Usage() string {
	return `flow ungoal <id>

  Removes a budget goal.
`
}

func (*ungoalCmd) SetFlags(*flag.FlagSet) {}

func (*ungoalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one goal id")
	}
	id := f.Arg(0)
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		ok, err := e.app.RemoveGoal(ctx, id)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(stdout, "Removed %s\n", id)
		} else {
			fmt.Fprintf(stdout, "No goal %s\n", id)
		}
		return nil
	})
}

type goalsCmd struct{}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "show the progress of the budget goals" }
func (*goalsCmd) Usage() string {
	return `flow goals

  Shows, for every goal, the expenses of the current month in its category.
`
}

func (*goalsCmd) SetFlags(*flag.FlagSet) {}

func (*goalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		s, on := e.app.Snapshot(), e.app.Today()
		var progress []flowfinance.Progress
		for _, g := range s.Goals {
			progress = append(progress, flowfinance.GoalProgress(s, g, on))
		}
		printMarkdown(renderer.RenderGoals(progress))
		return nil
	})
}
