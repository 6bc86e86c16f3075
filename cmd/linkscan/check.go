package main

import (
	"fmt"

	"github.com/fwojciec/linkscan"
	"github.com/fwojciec/linkscan/crawl"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	progress := func(event crawl.ProgressEvent) {
		switch event.Stage {
		case crawl.StageDiscover:
			switch event.Type {
			case crawl.ProgressStarted:
				fmt.Fprintf(deps.Stdout, "Crawling %s (up to %d pages)\n", event.URL, event.Total)
			case crawl.ProgressCompleted:
				fmt.Fprintf(deps.Stdout, "  [%d/%d] %s (%d links, %d queued)\n", event.Completed, event.Total, event.URL, event.Links, event.Queued)
			case crawl.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "  failed: %s: %v\n", event.URL, event.Error)
			case crawl.ProgressSkipped:
				deps.Logger.Info("skipped page", "url", event.URL, "reason", event.Reason)
			}
		case crawl.StageValidate:
			switch event.Type {
			case crawl.ProgressStarted:
				fmt.Fprintf(deps.Stdout, "Validating %d unique links\n", event.Total)
			case crawl.ProgressCompleted:
				fmt.Fprintf(deps.Stdout, "  validated %d/%d\n", event.Completed, event.Total)
			}
		}
	}

	report, err := deps.Checker.Check(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkscan.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout)
	printSummary(deps.Stdout, report)

	broken := report.BrokenLinks()
	if len(broken) > 0 {
		fmt.Fprintln(deps.Stdout)
		printBrokenLinks(deps.Stdout, broken)
	}

	if c.Save {
		run, err := deps.Runs.CreateRun(deps.Ctx, report)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", linkscan.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "\nSaved run %s\n", run.ID)
	}

	return nil
}
