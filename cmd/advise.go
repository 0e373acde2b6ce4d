package cmd

import (
	"context"
	"flag"

	"github.com/etnz/flowfinance/advisor"
	"github.com/etnz/flowfinance/renderer"
	"github.com/google/subcommands"
)

// newGenerator connects to the generative model.
var newGenerator = func(ctx context.Context, model string) (advisor.Generator, error) {
	return advisor.NewGemini(ctx, model)
}

type adviseCmd struct{}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "ask Gemini for savings advice" }
func (*adviseCmd) Usage() string {
	return `flow advise

  Sends a summary of the finances to Gemini and prints its advice. The API
  key is read from GEMINI_API_KEY or GOOGLE_API_KEY.
`
}

func (*adviseCmd) SetFlags(*flag.FlagSet) {}

func (*adviseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		usd := newFeed(e).Quote(ctx)
		answer := advisor.Apology
		if g, err := newGenerator(ctx, e.cfg.Advisor.Model); err != nil {
			e.log.Error().Err(err).Msg("cannot connect to the advisor")
		} else {
			a := advisor.New(g)
			a.Log = e.log
			answer = a.Advise(ctx, e.app.Snapshot(), usd)
		}
		printMarkdown(renderer.RenderAdvice(answer))
		return nil
	})
}
