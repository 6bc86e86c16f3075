package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/linkscan"
	"github.com/rodaine/table"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := linkscan.RunFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.BaseURL = &c.URL
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkscan.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'linkscan check --save' to record one.")
		return nil
	}

	tbl := table.New("ID", "URL", "Started", "Pages", "Links", "Broken").WithWriter(deps.Stdout)
	for _, r := range runs {
		tbl.AddRow(r.ID, r.BaseURL, r.StartedAt.Local().Format(time.DateTime), r.PagesScanned, r.UniqueLinks, r.BrokenLinks)
	}
	tbl.Print()

	return nil
}
