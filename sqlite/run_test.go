package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/linkscan"
	"github.com/fwojciec/linkscan/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func intPtr(n int) *int {
	return &n
}

// testReport builds a two page report where /gone is referenced from both
// pages and /slow timed out.
func testReport(baseURL string, started time.Time) *linkscan.Report {
	home := baseURL
	about := baseURL + "/about"
	ref := func(source, url, text string, typ linkscan.LinkType) linkscan.Reference {
		return linkscan.Reference{
			URL:        url,
			SourcePage: source,
			Origin:     linkscan.Origin{Tag: "a", Attr: "href"},
			AnchorText: text,
			Type:       typ,
		}
	}

	homeRefs := []linkscan.Reference{
		ref(home, about, "About", linkscan.LinkTypeInternal),
		ref(home, baseURL+"/gone", "Gone", linkscan.LinkTypeInternal),
		ref(home, "https://slow.example.org", "Slow", linkscan.LinkTypeExternal),
	}
	aboutRefs := []linkscan.Reference{
		ref(about, baseURL+"/gone", "Old page", linkscan.LinkTypeInternal),
	}

	return &linkscan.Report{
		BaseURL:    baseURL,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Pages: []*linkscan.PageRecord{
			{URL: home, Depth: 0, FetchedAt: started, ContentHash: "00000000000000aa", References: homeRefs},
			{URL: about, Depth: 1, FetchedAt: started, ContentHash: "00000000000000bb", References: aboutRefs},
		},
		Links: map[string][]linkscan.Reference{
			home:  homeRefs,
			about: aboutRefs,
		},
		Results: map[string]*linkscan.ValidationResult{
			about:                      {URL: about, StatusCode: intPtr(200), StatusText: "OK"},
			baseURL + "/gone":          {URL: baseURL + "/gone", StatusCode: intPtr(404), StatusText: "Not Found", ResponseTime: 120 * time.Millisecond, ContentType: "text/html", FinalURL: baseURL + "/gone"},
			"https://slow.example.org": {URL: "https://slow.example.org", StatusText: "Request Timeout", Error: "Timeout"},
		},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("saves report with generated ID and stats", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		report := testReport("https://example.com", time.Now())
		run, err := svc.CreateRun(ctx, report)

		require.NoError(t, err)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, run.ID, report.ID)
		assert.Equal(t, "https://example.com", run.BaseURL)
		assert.Equal(t, 2, run.PagesScanned)
		assert.Equal(t, 4, run.LinksFound)
		assert.Equal(t, 3, run.UniqueLinks)
		assert.Equal(t, 3, run.BrokenLinks)

		var pages, refs, results int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages WHERE run_id = ?", run.ID).Scan(&pages))
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM refs WHERE run_id = ?", run.ID).Scan(&refs))
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results WHERE run_id = ?", run.ID).Scan(&results))
		assert.Equal(t, 2, pages)
		assert.Equal(t, 4, refs)
		assert.Equal(t, 3, results)
	})

	t.Run("returns error for report without base URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		_, err := svc.CreateRun(context.Background(), &linkscan.Report{})

		require.Error(t, err)
		assert.Equal(t, linkscan.EINVALID, linkscan.ErrorCode(err))
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("returns saved run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		created, err := svc.CreateRun(ctx, testReport("https://example.com", started))
		require.NoError(t, err)

		found, err := svc.FindRunByID(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, created, found)
		assert.Equal(t, started, found.StartedAt)
		assert.Equal(t, started.Add(3*time.Second), found.FinishedAt)
	})

	t.Run("returns ENOTFOUND for missing run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		_, err := svc.FindRunByID(context.Background(), "nonexistent")

		require.Error(t, err)
		assert.Equal(t, linkscan.ENOTFOUND, linkscan.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("returns newest runs first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		_, err := svc.CreateRun(ctx, testReport("https://a.com", base))
		require.NoError(t, err)
		_, err = svc.CreateRun(ctx, testReport("https://b.com", base.Add(time.Hour)))
		require.NoError(t, err)
		_, err = svc.CreateRun(ctx, testReport("https://a.com", base.Add(2*time.Hour)))
		require.NoError(t, err)

		runs, err := svc.FindRuns(ctx, linkscan.RunFilter{})

		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, base.Add(2*time.Hour), runs[0].StartedAt)
		assert.Equal(t, "https://b.com", runs[1].BaseURL)
		assert.Equal(t, base, runs[2].StartedAt)
	})

	t.Run("filters by base URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		now := time.Now()
		_, err := svc.CreateRun(ctx, testReport("https://a.com", now))
		require.NoError(t, err)
		_, err = svc.CreateRun(ctx, testReport("https://b.com", now))
		require.NoError(t, err)

		baseURL := "https://b.com"
		runs, err := svc.FindRuns(ctx, linkscan.RunFilter{BaseURL: &baseURL})

		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "https://b.com", runs[0].BaseURL)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		for i := range 5 {
			_, err := svc.CreateRun(ctx, testReport("https://a.com", base.Add(time.Duration(i)*time.Hour)))
			require.NoError(t, err)
		}

		runs, err := svc.FindRuns(ctx, linkscan.RunFilter{Limit: 2, Offset: 1})

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, base.Add(3*time.Hour), runs[0].StartedAt)
		assert.Equal(t, base.Add(2*time.Hour), runs[1].StartedAt)
	})
}

func TestRunService_FindBrokenLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns one entry per broken reference", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run, err := svc.CreateRun(ctx, testReport("https://example.com", time.Now()))
		require.NoError(t, err)

		links, err := svc.FindBrokenLinks(ctx, run.ID)

		require.NoError(t, err)
		require.Len(t, links, 3)

		assert.Equal(t, "https://example.com/gone", links[0].Reference.URL)
		assert.Equal(t, "https://example.com", links[0].Reference.SourcePage)
		assert.Equal(t, "Gone", links[0].Reference.AnchorText)
		assert.Equal(t, linkscan.Origin{Tag: "a", Attr: "href"}, links[0].Reference.Origin)
		assert.Equal(t, linkscan.LinkTypeInternal, links[0].Reference.Type)
		assert.Equal(t, 404, links[0].Result.Status())
		assert.Equal(t, 120*time.Millisecond, links[0].Result.ResponseTime)
		assert.Equal(t, "text/html", links[0].Result.ContentType)

		assert.Equal(t, "https://slow.example.org", links[1].Reference.URL)
		assert.Nil(t, links[1].Result.StatusCode)
		assert.Equal(t, "Timeout", links[1].Result.Error)

		assert.Equal(t, "https://example.com/about", links[2].Reference.SourcePage)
		assert.Same(t, links[0].Result, links[2].Result)
	})

	t.Run("returns ENOTFOUND for missing run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		_, err := svc.FindBrokenLinks(context.Background(), "nonexistent")

		assert.Equal(t, linkscan.ENOTFOUND, linkscan.ErrorCode(err))
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	t.Parallel()

	t.Run("removes run and its records", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run, err := svc.CreateRun(ctx, testReport("https://example.com", time.Now()))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteRun(ctx, run.ID))

		_, err = svc.FindRunByID(ctx, run.ID)
		assert.Equal(t, linkscan.ENOTFOUND, linkscan.ErrorCode(err))

		var refs int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM refs WHERE run_id = ?", run.ID).Scan(&refs))
		assert.Zero(t, refs)
	})

	t.Run("returns ENOTFOUND for missing run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		err := svc.DeleteRun(context.Background(), "nonexistent")

		assert.Equal(t, linkscan.ENOTFOUND, linkscan.ErrorCode(err))
	})
}
