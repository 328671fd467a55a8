package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/holdings/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI for shell completion. Install it with
// COMP_INSTALL=1 hld.
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"portfolio-path": predict.Dirs("*"),
		"currency":       predict.Set{"EUR", "USD"},
	},
	Sub: map[string]*complete.Command{
		"buy":     {Flags: map[string]complete.Predictor{"l": predict.Something, "d": predict.Something, "q": predict.Something, "p": predict.Something, "c": predict.Set{"stock", "etf", "crypto", "bond", "commodity", "other"}}},
		"sell":    {Flags: map[string]complete.Predictor{"l": predict.Something, "d": predict.Something, "q": predict.Something, "p": predict.Something}},
		"tx":      {Flags: map[string]complete.Predictor{"l": predict.Something, "a": predict.Something}},
		"import":  {Flags: map[string]complete.Predictor{"l": predict.Something, "file": predict.Files("*.csv")}},
		"summary": {Flags: map[string]complete.Predictor{"l": predict.Something, "offline": predict.Nothing}},
		"gains":   {Flags: map[string]complete.Predictor{"l": predict.Something}},
		"tax":     {Flags: map[string]complete.Predictor{"l": predict.Something, "y": predict.Something}},
		"export":  {Flags: map[string]complete.Predictor{"l": predict.Something, "report": predict.Set{"summary", "sales", "tax"}, "o": predict.Files("*.csv")}},
		"ls":      {},
		"rm":      {Flags: map[string]complete.Predictor{"f": predict.Nothing}},
		"serve":   {Flags: map[string]complete.Predictor{"l": predict.Something, "addr": predict.Something}},
		"assist":  {Flags: map[string]complete.Predictor{"l": predict.Something}},
		"topic":   {Args: predict.Set{"fifo", "import", "pricing", "tax", "readme"}},
	},
}

func main() {
	completion.Complete("hld")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
