package commands

import (
	"bayrecht-backend/lib/configutil"
	configsqlite "bayrecht-backend/lib/configutil/sqlite"
	"bayrecht-backend/lib/scrapers/bayernrecht"
	"bayrecht-backend/lib/serviceutil"
	"bayrecht-backend/services/laws"
	"bayrecht-backend/services/laws/db"
	"bayrecht-backend/services/laws/scraper"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var scrapeDb *string

func init() {
	scrapeDb = scrapeCmd.Flags().String("db", "bayrecht.db", "The database to write scrape results to.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--db <path/to/output.db>]",
	Short: "Runs one scrape pass over every law in config.json5.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[scraper.Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		database, err := configsqlite.Struct{File: *scrapeDb}.OpenDB(db.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		client := bayernrecht.NewClient(bayernrecht.ClientOptions{
			BaseUrl:    cfg.BaseUrl,
			MaxRetries: cfg.Global.Retries,
		})

		ctx := serviceutil.SignalContext()

		t1 := time.Now()
		err = scraper.New(laws.NewStore(database), client, cfg).Scrape(ctx)
		if err != nil {
			serviceutil.Fatal("scrape run aborted", err)
		}
		slog.Info("scrape finished", "seconds", time.Since(t1).Seconds())
	},
}
