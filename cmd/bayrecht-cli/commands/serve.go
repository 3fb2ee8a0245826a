package commands

import (
	configsqlite "bayrecht-backend/lib/configutil/sqlite"
	"bayrecht-backend/lib/serviceutil"
	"bayrecht-backend/services/laws"
	"bayrecht-backend/services/laws/db"
	"bayrecht-backend/services/laws/server"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

var serveDb *string
var servePort *int

func init() {
	serveDb = serveCmd.Flags().String("db", "bayrecht.db", "The database to read from.")
	servePort = serveCmd.Flags().Int("port", 5000, "The port to listen on.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--db <path/to/output.db>] [--port <port>]",
	Short: "Serves the read api over the scraped norm database.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := configsqlite.Struct{File: *serveDb}.OpenDB(db.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		app := fiber.New()
		server.NewService(laws.NewStore(database)).Register(app)

		slog.Info("listening", "port", *servePort)
		err = app.Listen(fmt.Sprintf(":%d", *servePort))
		if err != nil {
			serviceutil.Fatal("failed to listen", err)
		}
	},
}
