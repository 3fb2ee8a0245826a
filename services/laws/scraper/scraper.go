package scraper

import (
	"bayrecht-backend/lib/scrapers/bayernrecht"
	"bayrecht-backend/lib/timezone"
	"bayrecht-backend/services/laws"
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/laws/scraper")

type NumberingConfig struct {
	Type   string `json:"type"`
	Prefix string `json:"prefix"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

type LawConfig struct {
	Id        string          `json:"id"`
	Name      string          `json:"name"`
	Numbering NumberingConfig `json:"numbering"`
}

type GlobalConfig struct {
	Retries int `json:"retries"`
	// seconds between consecutive requests
	DelayBetweenRequests float64 `json:"delay_between_requests"`
}

type Config struct {
	BaseUrl string       `json:"base_url"`
	Global  GlobalConfig `json:"global"`
	Laws    []LawConfig  `json:"laws"`
}

func (c Config) retries() int {
	if c.Global.Retries <= 0 {
		return 3
	}
	return c.Global.Retries
}

func (c Config) delay() time.Duration {
	if c.Global.DelayBetweenRequests <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.Global.DelayBetweenRequests * float64(time.Second))
}

type Scraper struct {
	store  laws.Store
	client *bayernrecht.Client
	config Config
	// watermark source, swapped out in tests to simulate passes on
	// different days
	today func() string
}

func New(store laws.Store, client *bayernrecht.Client, config Config) Scraper {
	return Scraper{
		store:  store,
		client: client,
		config: config,
		today:  timezone.Today,
	}
}

// Scrape runs one full pass over every configured law. A failing norm
// skips to the next number, a failing law skips to the next law; only
// context cancellation and panics abort the run.
func (s Scraper) Scrape(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scrape run panicked: %v", r)
			slog.Error("fatal error during scrape run", "panic", r)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	for _, law := range s.config.Laws {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.scrapeLaw(ctx, law); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("law scrape failed", "law", law.Id, "err", err)
		}
	}
	return nil
}

func (s Scraper) scrapeLaw(ctx context.Context, law LawConfig) error {
	ctx, span := tracer.Start(ctx, "scrapeLaw")
	defer span.End()
	span.SetAttributes(attribute.String("law", law.Id))

	lawID, err := s.store.GetOrCreateLaw(ctx, law.Id, law.Name)
	if err != nil {
		return fmt.Errorf("get or create law: %w", err)
	}

	prefix := law.Numbering.Prefix
	overviewDate, skip := s.checkOverview(ctx, lawID, prefix)
	if skip {
		slog.Info("upstream unchanged, skipping", "law", law.Id, "date", overviewDate)
		return nil
	}

	today := s.today()
	slog.Info(
		"scraping law",
		"law", law.Id,
		"start", law.Numbering.Start,
		"end", law.Numbering.End,
	)

	for number := law.Numbering.Start; number <= law.Numbering.End; number++ {
		// cancellation boundary: each norm is its own transaction, so
		// stopping between numbers never leaves partial state
		if ctx.Err() != nil {
			return ctx.Err()
		}

		url := fmt.Sprintf("%s/%s%d", s.config.BaseUrl, prefix, number)
		if err := s.scrapeNorm(ctx, lawID, url, today); err != nil {
			slog.Error("norm skipped", "url", url, "err", err)
		}

		if err := wait(ctx, s.config.delay()); err != nil {
			return err
		}
	}

	stale, err := s.store.FlagStaleNorms(ctx, lawID, today)
	if err != nil {
		return fmt.Errorf("flag stale norms: %w", err)
	}
	if stale > 0 {
		slog.Warn("stale norms flagged", "law", law.Id, "n", stale)
	}

	if overviewDate != "" {
		err := s.store.UpdateLawLastModified(ctx, lawID, overviewDate)
		if err != nil {
			return fmt.Errorf("update law watermark: %w", err)
		}
	}
	return nil
}

// checkOverview fetches the law's overview page and compares its
// publication date against the stored watermark. Returns the upstream
// date (empty when unavailable) and whether the full scan can be
// skipped. Any failure here degrades to a full scan.
func (s Scraper) checkOverview(ctx context.Context, lawID int64, prefix string) (string, bool) {
	url := fmt.Sprintf("%s/%s", s.config.BaseUrl, prefix)
	res, err := s.client.Fetch(ctx, url)
	if err != nil || res.Status != bayernrecht.FetchOk {
		slog.Warn("overview page unavailable", "url", url)
		return "", false
	}
	date, ok := bayernrecht.ParseOverviewDate(res.Body)
	if !ok {
		slog.Warn("overview page has no publication date", "url", url)
		return "", false
	}

	law, err := s.store.GetLaw(ctx, lawID)
	if err != nil {
		slog.Warn("could not read law watermark", "law_id", lawID, "err", err)
		return date, false
	}
	if law.LastModified.Valid && law.LastModified.String == date {
		return date, true
	}
	return date, false
}

func (s Scraper) scrapeNorm(ctx context.Context, lawID int64, url, today string) error {
	res, err := s.client.Fetch(ctx, url)
	if err != nil {
		return err
	}
	switch res.Status {
	case bayernrecht.FetchNotFound:
		// numbering gaps are expected, the range scan continues
		return nil
	case bayernrecht.FetchGivenUp:
		return fmt.Errorf("retries exhausted")
	}

	record, err := bayernrecht.ParseNorm(res.Body)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	record.Url = url

	err = s.store.SaveNorm(ctx, laws.SaveNormRequest{
		LawID:       lawID,
		Number:      record.Number,
		NumberRaw:   record.NumberRaw,
		Title:       record.Title,
		Content:     record.ContentJSON(),
		Url:         url,
		ContentHash: record.Fingerprint(),
		LastSeen:    today,
	})
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
