// Package cmd implements the CLI application to publish the portfolio
// performance index.
package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/etnz/perfindex"
	"github.com/google/subcommands"
)

// Commands lists the subcommands of the application. A main package
// registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&updateCmd{},
	&summaryCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var holdingsFile = flag.String("holdings-file", "holdings.json", "Path to the holdings definition file")
var outputFile = flag.String("output-file", "performance.json", "Path to the published performance document")
var cacheDir = flag.String("cache-dir", "cache", "Path to the per-ticker quote cache folder")

// DecodeHoldings decodes the holdings definition from the app holdings file.
func DecodeHoldings() (*perfindex.Holdings, error) {
	return perfindex.DecodeHoldingsFile(*holdingsFile)
}

// DecodeDocument decodes the prior performance document from the app output
// file. A missing file returns nil: there is no prior series yet.
func DecodeDocument() (*perfindex.Document, error) {
	return perfindex.DecodeDocumentFile(*outputFile)
}

// now returns the current instant, overridable for reproducible runs.
func now() time.Time {
	if fake := os.Getenv("PERFINDEX_TESTING_NOW"); fake != "" {
		t, err := time.Parse("2006-01-02 15:04:05", fake)
		if err != nil {
			log.Printf("warning: ignoring invalid PERFINDEX_TESTING_NOW %q: %v", fake, err)
			return time.Now()
		}
		return t.UTC()
	}
	return time.Now()
}

// fail prints an error and returns the failure exit status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
