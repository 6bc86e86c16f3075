package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linkscan"
	main "github.com/fwojciec/linkscan/cmd/linkscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"check", "runs", "broken", "delete"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCheckCmd_Config(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"check", "https://example.com", "--no-robots", "-n", "5", "--delay", "250ms", "--sitemap"})
	require.NoError(t, err)

	cfg := cli.Check.Config()
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, linkscan.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, linkscan.DefaultWorkers, cfg.Workers)
	assert.Equal(t, 250_000_000, int(cfg.Delay))
	assert.False(t, cfg.RespectRobots)
	assert.True(t, cfg.SeedFromSitemap)
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	for _, cmd := range []string{"check", "runs", "broken", "delete"} {
		assert.Contains(t, stdout.String(), cmd)
	}
	assert.NoFileExists(t, m.DBPath, "help should not create the database")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_RejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"ftp://example.com", "example.com", "https://"} {
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"check", raw, "--save"}, &bytes.Buffer{}, stderr)

		require.Error(t, err, raw)
		assert.Equal(t, linkscan.EINVALID, linkscan.ErrorCode(err), raw)
		assert.Contains(t, stderr.String(), "error:")
		assert.NoFileExists(t, m.DBPath)
	}
}

func TestMain_Run_RejectsInvalidFilter(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	err := m.Run(context.Background(), []string{"check", "https://example.com", "--include", "(["}, &bytes.Buffer{}, &bytes.Buffer{})

	assert.Equal(t, linkscan.EINVALID, linkscan.ErrorCode(err))
}

func TestMain_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><a href="/">Home</a><a href="/gone">Old</a></body></html>`))
	})
	mux.HandleFunc("/private/", func(w http.ResponseWriter, r *http.Request) {
		// Links are probed with HEAD; only crawling issues GET.
		if r.Method == http.MethodGet {
			t.Error("robots.txt disallowed page was crawled")
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
			<a href="/about">About</a>
			<a href="/gone">Gone</a>
			<a href="/private/area">Private</a>
			<img src="/logo.png">
		</body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dbPath := filepath.Join(t.TempDir(), "linkscan.db")
	ctx := context.Background()

	// check --save
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	m := main.NewMain()
	m.DBPath = dbPath
	err := m.Run(ctx, []string{"check", server.URL, "--delay", "0s", "--timeout", "2s", "--save"}, stdout, stderr)
	require.NoError(t, err, stderr.String())

	output := stdout.String()
	assert.Contains(t, output, "Pages scanned: 2")
	assert.Contains(t, output, "Unique links:  5")
	assert.Contains(t, output, "Broken links:  3")
	assert.Contains(t, output, server.URL+"/gone")
	assert.Contains(t, output, "404 Not Found")
	assert.FileExists(t, dbPath)

	match := regexp.MustCompile(`Saved run (\S+)`).FindStringSubmatch(output)
	require.Len(t, match, 2)
	runID := match[1]

	// runs
	stdout.Reset()
	m = main.NewMain()
	m.DBPath = dbPath
	require.NoError(t, m.Run(ctx, []string{"runs"}, stdout, stderr))
	assert.Contains(t, stdout.String(), runID)
	assert.Contains(t, stdout.String(), server.URL)

	// broken <id>
	stdout.Reset()
	m = main.NewMain()
	m.DBPath = dbPath
	require.NoError(t, m.Run(ctx, []string{"broken", runID}, stdout, stderr))
	assert.Contains(t, stdout.String(), server.URL+"/gone")
	assert.Contains(t, stdout.String(), server.URL+"/logo.png")

	// broken with an unknown id
	m = main.NewMain()
	m.DBPath = dbPath
	err = m.Run(ctx, []string{"broken", "nope"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, linkscan.ENOTFOUND, linkscan.ErrorCode(err))

	// delete <id>
	stdout.Reset()
	m = main.NewMain()
	m.DBPath = dbPath
	require.NoError(t, m.Run(ctx, []string{"delete", runID, "--force"}, stdout, stderr))
	assert.Contains(t, stdout.String(), "Deleted run "+runID)

	m = main.NewMain()
	m.DBPath = dbPath
	err = m.Run(ctx, []string{"broken", runID}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, linkscan.ENOTFOUND, linkscan.ErrorCode(err))
}

func TestMain_Run_ReportsDatabaseErrors(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "missing", "dir", "db.sqlite")
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"runs"}, &bytes.Buffer{}, stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "LINKSCAN_DB")
	_, statErr := os.Stat(m.DBPath)
	assert.True(t, os.IsNotExist(statErr))
}
