package main

import (
	"fmt"

	"github.com/fwojciec/linkscan"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return linkscan.Errorf(linkscan.EINVALID, "use --force to confirm deletion")
	}

	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		if linkscan.ErrorCode(err) == linkscan.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'linkscan runs' to see saved runs.\n", c.RunID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkscan.ErrorMessage(err))
		return err
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, run.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkscan.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s (%s)\n", run.ID, run.BaseURL)
	return nil
}
