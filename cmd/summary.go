package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/perfindex/renderer"
	"github.com/google/subcommands"
)

// summaryCmd displays the published performance document.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the published performance index" }
func (*summaryCmd) Usage() string {
	return `pfi summary

  Displays the latest index value, the change over the retained window and
  the holdings table, from the published performance document.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := DecodeDocument()
	if err != nil {
		return fail("could not load document: %v", err)
	}
	if doc == nil {
		fmt.Printf("No performance document at %q yet. Run 'pfi update' first.\n", *outputFile)
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.RenderPerformance(renderer.NewPerformance(doc)))
	return subcommands.ExitSuccess
}
