package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ruicoelho/tally/internal/config"
	"github.com/ruicoelho/tally/internal/database"
	tallyHttp "github.com/ruicoelho/tally/internal/http"
	txHandler "github.com/ruicoelho/tally/internal/http/transaction"
	"github.com/ruicoelho/tally/internal/importer"
	"github.com/ruicoelho/tally/internal/ledger"
	"github.com/ruicoelho/tally/internal/ledger/store"
	"github.com/ruicoelho/tally/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		ledgerService = ledger.NewService(store.New(db))
		importService = importer.NewService()
		sessions      = session.NewManager(cfg.Session.CookieName, cfg.Session.TTL)
	)

	router := tallyHttp.New(sessions, txHandler.NewHandler(ledgerService, importService))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "port", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
