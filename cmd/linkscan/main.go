package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linkscan"
	"github.com/fwojciec/linkscan/crawl"
	"github.com/fwojciec/linkscan/goquery"
	lshttp "github.com/fwojciec/linkscan/http"
	"github.com/fwojciec/linkscan/robotstxt"
	lsslog "github.com/fwojciec/linkscan/slog"
	"github.com/fwojciec/linkscan/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Run store. When set before Run() the database is not opened,
	// which allows end-to-end testing with a mock.
	RunService linkscan.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linkscan"),
		kong.Description("Crawl a website and report broken links."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'linkscan --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	// Configuration errors are reported before any request is made.
	if cmd == "check" {
		checker, closeFn, err := newChecker(ctx, &cli.Check, deps.Logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", linkscan.ErrorMessage(err))
			return err
		}
		defer closeFn()
		deps.Checker = checker
	}

	if cmd == "runs" || cmd == "broken" || cmd == "delete" || (cmd == "check" && cli.Check.Save) {
		if m.RunService == nil {
			m.DB = sqlite.NewDB(m.DBPath)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set LINKSCAN_DB to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
			}
			defer m.Close()
			m.RunService = lsslog.NewLoggingRunService(sqlite.NewRunService(m.DB), deps.Logger)
		}
		deps.Runs = m.RunService
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w. Debug output is enabled by verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newChecker wires the scan pipeline for the check command. The returned
// function releases idle connections.
func newChecker(ctx context.Context, c *CheckCmd, logger *slog.Logger) (*crawl.Checker, func(), error) {
	cfg := c.Config().WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	filter, err := linkscan.CompileURLFilter(c.Include, c.Exclude)
	if err != nil {
		return nil, nil, err
	}

	opts := []lshttp.Option{
		lshttp.WithTimeout(cfg.Timeout),
		lshttp.WithUserAgent(cfg.UserAgent),
	}
	fetchOpts := opts
	if c.Insecure {
		fetchOpts = append(fetchOpts[:len(fetchOpts):len(fetchOpts)], lshttp.WithInsecureSkipVerify())
	}

	fetcher := lshttp.NewFetcher(fetchOpts...)
	prober := lshttp.NewProber(opts...)

	discoverer := &crawl.Discoverer{
		Fetcher:         lsslog.NewLoggingFetcher(fetcher, logger),
		Extractor:       lsslog.NewLoggingExtractor(goquery.NewExtractor(cfg.Domain()), logger),
		RateLimiter:     crawl.NewDomainLimiter(cfg.Delay),
		Filter:          filter,
		MaxPages:        cfg.MaxPages,
		UserAgent:       cfg.UserAgent,
		SeedFromSitemap: cfg.SeedFromSitemap,
		Log: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	}

	if cfg.RespectRobots {
		policy, err := robotstxt.Load(ctx, lshttp.NewClient(fetchOpts...), cfg.BaseURL, cfg.UserAgent)
		if err != nil {
			logger.Warn("robots.txt unavailable, crawling without restrictions", "err", err)
		}
		discoverer.Robots = policy
	}

	if cfg.SeedFromSitemap {
		discoverer.Sitemaps = lsslog.NewLoggingSitemapService(lshttp.NewSitemapService(fetchOpts...), logger)
	}

	checker := &crawl.Checker{
		Discoverer: discoverer,
		Validator: &crawl.Validator{
			Prober:  lsslog.NewLoggingProber(prober, logger),
			Workers: cfg.Workers,
		},
	}

	closeFn := func() {
		_ = fetcher.Close()
		_ = prober.Close()
	}
	return checker, closeFn, nil
}

func defaultDBPath() string {
	if path := os.Getenv("LINKSCAN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "linkscan.db"
	}
	dir := filepath.Join(home, ".linkscan")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "linkscan.db")
}
