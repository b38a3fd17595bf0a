// Command pfi maintains and publishes a weekly portfolio performance index.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/perfindex/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// The API key usually lives in a .env next to the holdings file.
	// Its absence is fine, the environment may carry the key directly.
	godotenv.Load()

	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion handles shell completion requests and returns immediately when
// the binary is invoked as a regular command.
func completion() {
	quoteFlags := map[string]complete.Predictor{
		"api-key": predict.Something,
		"n":       predict.Something,
		"max-age": predict.Something,
		"pace":    predict.Something,
		"source":  predict.Something,
	}
	pfi := &complete.Command{
		Sub: map[string]*complete.Command{
			"update":  {Flags: quoteFlags},
			"summary": {},
			"topic":   {Args: predict.Set{"readme", "holdings", "performance", "update", "*"}},
		},
		Flags: map[string]complete.Predictor{
			"holdings-file": predict.Files("*.json"),
			"output-file":   predict.Files("*.json"),
			"cache-dir":     predict.Dirs("*"),
		},
	}
	pfi.Complete("pfi")
}
