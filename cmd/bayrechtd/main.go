package main

import (
	"bayrecht-backend/lib/configutil"
	configsqlite "bayrecht-backend/lib/configutil/sqlite"
	"bayrecht-backend/lib/scrapers/bayernrecht"
	"bayrecht-backend/lib/serviceutil"
	"bayrecht-backend/lib/telemetry"
	"bayrecht-backend/lib/timezone"
	"bayrecht-backend/services/laws"
	"bayrecht-backend/services/laws/db"
	"bayrecht-backend/services/laws/scraper"
	"bayrecht-backend/services/laws/server"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	Database configsqlite.Struct `json:"database"`
	Port     int                 `json:"port"`
	// local hour at which the daily scrape pass runs
	ScrapeHour int `json:"scrape_hour"`
	// path to the scrape config, defaults to config.json5
	ScrapeConfig string `json:"scrape_config"`
}

// scrapeWorker triggers one pass per day at the configured hour. only
// one pass ever runs at a time, the upstream is sequential by design.
func scrapeWorker(ctx context.Context, s scraper.Scraper, hour int) {
	ticker := time.NewTicker(time.Minute * 10)
	defer ticker.Stop()

	lastRun := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := timezone.Now()
			today := timezone.Today()
			if now.Hour() != hour || lastRun == today {
				continue
			}
			lastRun = today
			err := s.Scrape(ctx)
			if err != nil && ctx.Err() == nil {
				slog.Error("scheduled scrape failed", "err", err)
			}
		}
	}
}

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.SetupFromEnv(ctx, "bayrechtd")
	telemetry.InitSlog(false)

	cfg, err := configutil.ReadConfig[Config]("bayrechtd.json5")
	if err != nil {
		serviceutil.Fatal("failed to read bayrechtd.json5", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.ScrapeConfig == "" {
		cfg.ScrapeConfig = "config.json5"
	}

	scrapeCfg, err := configutil.ReadConfig[scraper.Config](cfg.ScrapeConfig)
	if err != nil {
		serviceutil.Fatal("failed to read scrape config", err)
	}

	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	defer database.Close()

	store := laws.NewStore(database)
	client := bayernrecht.NewClient(bayernrecht.ClientOptions{
		BaseUrl:    scrapeCfg.BaseUrl,
		MaxRetries: scrapeCfg.Global.Retries,
	})
	go scrapeWorker(ctx, scraper.New(store, client, scrapeCfg), cfg.ScrapeHour)

	app := fiber.New()
	server.NewService(store).Register(app)

	go func() {
		<-ctx.Done()
		app.Shutdown()
	}()

	slog.Info("listening", "port", cfg.Port)
	err = app.Listen(fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		serviceutil.Fatal("failed to listen", err)
	}
}
