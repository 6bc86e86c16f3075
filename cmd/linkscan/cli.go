package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/linkscan"
	"github.com/fwojciec/linkscan/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Runs    linkscan.RunService
	Checker *crawl.Checker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log every request to stderr"`

	Check  CheckCmd  `cmd:"" help:"Crawl a site and validate every link found"`
	Runs   RunsCmd   `cmd:"" help:"List saved runs"`
	Broken BrokenCmd `cmd:"" help:"List broken links recorded for a saved run"`
	Delete DeleteCmd `cmd:"" help:"Delete a saved run"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	URL       string        `arg:"" help:"Base URL of the site to scan"`
	MaxPages  int           `short:"n" default:"100" help:"Maximum number of pages to crawl"`
	Delay     time.Duration `short:"d" default:"1s" help:"Delay between page requests"`
	Timeout   time.Duration `short:"t" default:"10s" help:"Timeout for each request"`
	Workers   int           `short:"w" default:"5" help:"Concurrent link validations"`
	NoRobots  bool          `help:"Ignore robots.txt"`
	UserAgent string        `help:"User-Agent header sent with every request"`
	Sitemap   bool          `help:"Seed the crawl with URLs from the site's sitemap"`
	Include   []string      `short:"i" help:"Only follow pages matching regex (repeatable)"`
	Exclude   []string      `short:"x" help:"Never follow pages matching regex (repeatable)"`
	Insecure  bool          `help:"Skip TLS certificate verification when fetching pages"`
	Save      bool          `short:"s" help:"Save the report to the run database"`
}

// Config returns the scan configuration described by the flags.
func (c *CheckCmd) Config() linkscan.Config {
	return linkscan.Config{
		BaseURL:         c.URL,
		MaxPages:        c.MaxPages,
		Delay:           c.Delay,
		Timeout:         c.Timeout,
		Workers:         c.Workers,
		RespectRobots:   !c.NoRobots,
		UserAgent:       c.UserAgent,
		SeedFromSitemap: c.Sitemap,
	}
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	URL   string `help:"Only list runs for this base URL"`
	Limit int    `short:"l" default:"20" help:"Maximum number of runs to list"`
}

// BrokenCmd is the "broken" subcommand.
type BrokenCmd struct {
	RunID string `arg:"" help:"Run ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	RunID string `arg:"" help:"Run ID"`
	Force bool   `help:"Confirm deletion"`
}
