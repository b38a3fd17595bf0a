package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/perfindex"
	"github.com/etnz/perfindex/alphavantage"
	"github.com/google/subcommands"
)

const alphavantage_api_key = "ALPHAVANTAGE_API_KEY"

// updateCmd implements the "update" command, the weekly pipeline run.
type updateCmd struct {
	apiKeyFlag string
	points     int
	maxAge     time.Duration
	pace       time.Duration
	source     string
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "fetch quotes and publish this week's performance point"
}
func (*updateCmd) Usage() string {
	return `pfi update [-n <points>] [-max-age <duration>] [-pace <duration>]

  Reads the holdings file, fetches a quote per holding, merges one weekly
  point into the performance document and writes it back. Made to run from
  cron every Friday after the close; re-running within the same week only
  refreshes the last point.

  Requires the ` + alphavantage_api_key + ` environment variable to be set or
  passed as a flag.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiKeyFlag, "api-key", "", "Alpha Vantage API key. This flag takes precedence over the "+alphavantage_api_key+" environment variable. You can get one at https://www.alphavantage.co/")
	f.IntVar(&c.points, "n", perfindex.DefaultPoints, "Number of weekly points retained in the published series.")
	f.DurationVar(&c.maxAge, "max-age", perfindex.DefaultCacheMaxAge, "Freshness window of the per-ticker quote cache.")
	f.DurationVar(&c.pace, "pace", alphavantage.DefaultPace, "Fixed delay between two consecutive API calls.")
	f.StringVar(&c.source, "source", "pfi", "Provenance label recorded on the document.")
}

// apiKey retrieves the API key from the command-line flag or the environment
// variable. It prioritizes the flag over the environment variable.
func (c *updateCmd) apiKey() string {
	if c.apiKeyFlag == "" {
		c.apiKeyFlag = os.Getenv(alphavantage_api_key)
	}
	return c.apiKeyFlag
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}

	key := c.apiKey()
	if key == "" {
		return fail("API key is not set. Use -api-key flag or " + alphavantage_api_key + " environment variable")
	}

	holdings, err := DecodeHoldings()
	if err != nil {
		return fail("could not load holdings: %v", err)
	}

	prior, err := DecodeDocument()
	if err != nil {
		return fail("could not load prior document: %v", err)
	}

	quotes := alphavantage.New(key).WithPace(c.pace)
	cache := perfindex.NewTickerCache(*cacheDir)

	doc := perfindex.Update(prior, holdings, quotes, cache, perfindex.UpdateOptions{
		Now:    now(),
		Points: c.points,
		MaxAge: c.maxAge,
		Source: c.source,
	})

	if err := perfindex.EncodeDocumentFile(*outputFile, doc); err != nil {
		return fail("could not write document: %v", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Successfully updated %s (index %.2f on %s).\n",
		*outputFile, doc.Latest.Index, doc.Labels[len(doc.Labels)-1])
	return subcommands.ExitSuccess
}
