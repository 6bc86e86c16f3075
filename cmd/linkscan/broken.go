package main

import (
	"fmt"

	"github.com/fwojciec/linkscan"
)

// Run executes the broken command.
func (c *BrokenCmd) Run(deps *Dependencies) error {
	links, err := deps.Runs.FindBrokenLinks(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkscan.ErrorMessage(err))
		return err
	}

	if len(links) == 0 {
		fmt.Fprintf(deps.Stdout, "No broken links recorded for run %s\n", c.RunID)
		return nil
	}

	printBrokenLinks(deps.Stdout, links)
	return nil
}
