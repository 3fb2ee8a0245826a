package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bayrecht-backend/lib/scrapers/bayernrecht"
	"bayrecht-backend/lib/testutil"
	"bayrecht-backend/services/laws"
	"bayrecht-backend/services/laws/db"

	"github.com/stretchr/testify/require"
)

// fakeSite serves a mutable set of provision pages the way the
// upstream does: known paths return html, everything else is a 404.
type fakeSite struct {
	mu       sync.Mutex
	pages    map[string]string
	requests int
}

func newFakeSite() *fakeSite {
	return &fakeSite{pages: map[string]string{}}
}

func (f *fakeSite) set(path, html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[path] = html
}

func (f *fakeSite) remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pages, path)
}

func (f *fakeSite) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	page, ok := f.pages[r.URL.Path]
	f.requests++
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Write([]byte(page))
}

func normHTML(numberRaw, title, text string) string {
	return fmt.Sprintf(`<html><body>
<div class="paraheading">
  <div class="paranr">%s</div>
  <div class="paratitel">%s</div>
</div>
<div class="paracontent">
  <div class="paratext">%s</div>
</div>
</body></html>`, numberRaw, title, text)
}

func setupScraper(t *testing.T, site *fakeSite) (Scraper, laws.Store, context.Context) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/laws/scraper",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	ts := httptest.NewServer(site)
	t.Cleanup(ts.Close)

	client := bayernrecht.NewClient(bayernrecht.ClientOptions{
		BaseUrl:    ts.URL,
		MaxRetries: 2,
		RetryWait:  time.Millisecond,
	})
	config := Config{
		BaseUrl: ts.URL,
		Global:  GlobalConfig{Retries: 2, DelayBetweenRequests: 0.001},
		Laws: []LawConfig{{
			Id:   "BayVO",
			Name: "Bayerische Verordnung",
			Numbering: NumberingConfig{
				Type:   "article",
				Prefix: "BayVO-",
				Start:  1,
				End:    5,
			},
		}},
	}

	store := laws.NewStore(setup.DB)
	scraper := New(store, client, config)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	t.Cleanup(cancel)

	return scraper, store, ctx
}

func TestScrapeFirstPass(t *testing.T) {
	site := newFakeSite()
	site.set("/BayVO-1", normHTML("Art. 1", "Anwendungsbereich", "Dieses Gesetz gilt."))
	site.set("/BayVO-2", normHTML("Art. 2", "Begriffe", "Eine Versammlung ist."))
	site.set("/BayVO-4", normHTML("Art. 4", "Pflichten", "Der Leiter hat."))

	scraper, store, ctx := setupScraper(t, site)
	scraper.today = func() string { return "2025-01-01" }

	err := scraper.Scrape(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// 3 and 5 are numbering gaps, not errors
	norms, err := store.ListNorms(ctx, "BayVO")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, norms, 3)
	for _, norm := range norms {
		require.EqualValues(t, 0, norm.IsStale)
	}

	norm, _, err := store.GetNorm(ctx, "BayVO", "2")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Begriffe", norm.Title)
	require.Equal(t, "2025-01-01", norm.LastSeen.String)
}

func TestScrapeDetectsChangedNorm(t *testing.T) {
	site := newFakeSite()
	site.set("/BayVO-1", normHTML("Art. 1", "Anwendungsbereich", "Dieses Gesetz gilt."))
	site.set("/BayVO-2", normHTML("Art. 2", "Begriffe", "Eine Versammlung ist."))
	site.set("/BayVO-4", normHTML("Art. 4", "Pflichten", "Der Leiter hat."))

	scraper, store, ctx := setupScraper(t, site)
	scraper.today = func() string { return "2025-01-01" }
	if err := scraper.Scrape(ctx); err != nil {
		t.Fatal(err)
	}

	before, _, err := store.GetNorm(ctx, "BayVO", "1")
	if err != nil {
		t.Fatal(err)
	}

	site.set("/BayVO-2", normHTML("Art. 2", "Begriffsbestimmungen", "Eine Versammlung ist."))

	scraper.today = func() string { return "2025-01-02" }
	if err := scraper.Scrape(ctx); err != nil {
		t.Fatal(err)
	}

	changed, _, err := store.GetNorm(ctx, "BayVO", "2")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Begriffsbestimmungen", changed.Title)
	require.Equal(t, "2025-01-02", changed.LastSeen.String)

	// the unchanged norm keeps its content but still moves its watermark
	after, _, err := store.GetNorm(ctx, "BayVO", "1")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, before.ContentHash, after.ContentHash)
	require.Equal(t, "2025-01-02", after.LastSeen.String)
	require.EqualValues(t, 0, after.IsStale)
}

func TestScrapeFlagsDisappearedNorm(t *testing.T) {
	site := newFakeSite()
	site.set("/BayVO-1", normHTML("Art. 1", "Anwendungsbereich", "Dieses Gesetz gilt."))
	site.set("/BayVO-4", normHTML("Art. 4", "Pflichten", "Der Leiter hat."))

	scraper, store, ctx := setupScraper(t, site)
	scraper.today = func() string { return "2025-01-01" }
	if err := scraper.Scrape(ctx); err != nil {
		t.Fatal(err)
	}

	site.remove("/BayVO-4")

	scraper.today = func() string { return "2025-01-02" }
	if err := scraper.Scrape(ctx); err != nil {
		t.Fatal(err)
	}

	// stale norms stay visible, they are flagged rather than deleted
	norms, err := store.ListNorms(ctx, "BayVO")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, norms, 2)

	gone, _, err := store.GetNorm(ctx, "BayVO", "4")
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 1, gone.IsStale)

	kept, _, err := store.GetNorm(ctx, "BayVO", "1")
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 0, kept.IsStale)

	// the norm comes back upstream and is revived on the next pass
	site.set("/BayVO-4", normHTML("Art. 4", "Pflichten", "Der Leiter hat."))
	scraper.today = func() string { return "2025-01-03" }
	if err := scraper.Scrape(ctx); err != nil {
		t.Fatal(err)
	}

	revived, _, err := store.GetNorm(ctx, "BayVO", "4")
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 0, revived.IsStale)
}

func TestScrapeSkipsMalformedPage(t *testing.T) {
	site := newFakeSite()
	site.set("/BayVO-1", normHTML("Art. 1", "Anwendungsbereich", "Dieses Gesetz gilt."))
	// no paraheading, the parser rejects this
	site.set("/BayVO-2", `<html><body><div class="paracontent"></div></body></html>`)
	site.set("/BayVO-4", normHTML("Art. 4", "Pflichten", "Der Leiter hat."))

	scraper, store, ctx := setupScraper(t, site)
	scraper.today = func() string { return "2025-01-01" }

	err := scraper.Scrape(ctx)
	if err != nil {
		t.Fatal(err)
	}

	norms, err := store.ListNorms(ctx, "BayVO")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, norms, 2)

	numbers := []string{norms[0].Number, norms[1].Number}
	require.NotContains(t, numbers, "2")
}

func TestScrapeSkipsUnchangedLaw(t *testing.T) {
	site := newFakeSite()
	site.set("/BayVO-", `<html><body>Gesamtausgabe Stand: 01.08.2025</body></html>`)
	site.set("/BayVO-1", normHTML("Art. 1", "Anwendungsbereich", "Dieses Gesetz gilt."))

	scraper, store, ctx := setupScraper(t, site)
	scraper.today = func() string { return "2025-01-01" }
	if err := scraper.Scrape(ctx); err != nil {
		t.Fatal(err)
	}

	laws, err := store.ListLaws(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, laws, 1)
	require.Equal(t, "01.08.2025", laws[0].LastModified.String)

	firstPass := site.requestCount()

	scraper.today = func() string { return "2025-01-02" }
	if err := scraper.Scrape(ctx); err != nil {
		t.Fatal(err)
	}

	// the second pass stops after the overview page
	require.Equal(t, firstPass+1, site.requestCount())

	// the publication date moves, the next pass scans again
	site.set("/BayVO-", `<html><body>Gesamtausgabe Stand: 02.08.2025</body></html>`)
	scraper.today = func() string { return "2025-01-03" }
	if err := scraper.Scrape(ctx); err != nil {
		t.Fatal(err)
	}

	norm, _, err := store.GetNorm(ctx, "BayVO", "1")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "2025-01-03", norm.LastSeen.String)
}

func TestScrapeCancellation(t *testing.T) {
	site := newFakeSite()
	for i := 1; i <= 5; i++ {
		site.set(fmt.Sprintf("/BayVO-%d", i), normHTML(
			fmt.Sprintf("Art. %d", i), "Titel", "Text",
		))
	}

	scraper, _, _ := setupScraper(t, site)
	scraper.today = func() string { return "2025-01-01" }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := scraper.Scrape(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
