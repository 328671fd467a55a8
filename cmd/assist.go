package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	ledger string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `hld assist [-l <ledger>] [initial question]

  Starts an interactive session with the AI assistant. The assistant can
  read the ledger to answer questions about positions, gains and taxes.
  Requires Gemini credentials in the environment.
`
}

func (p *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledger, "l", "", "Ledger to answer about. Defaults to the only ledger if one exists.")
}

func (p *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	accountant := agent.NewAccountant(func() (*holdings.Ledger, error) {
		return DecodeLedger(p.ledger)
	})
	a := agent.New(os.Stdout, os.Stdin, accountant)

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
