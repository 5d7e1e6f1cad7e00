package main

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/importer"
	"trading-journal-go/internal/logger"
	"trading-journal-go/internal/notify"
	"trading-journal-go/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Connect to the database
	db, err := database.NewDatabase(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	trades := store.NewTradeRepository(db, log)
	jobs := store.NewJobRepository(db)

	var notifier importer.Notifier
	if cfg.Webhook.Enabled {
		notifier = notify.NewClient(&cfg.Webhook, log.Named("webhook"))
		log.Info("Webhook notifications enabled", zap.String("url", cfg.Webhook.URL))
	}

	imports := importer.NewService(log.Named("importer"), trades, jobs, notifier)

	// Setup HTTP server
	mux := http.NewServeMux()
	apiHandler := NewAPIHandler(log, &cfg, imports, trades)

	mux.HandleFunc("/api/imports", apiHandler.ImportsHandler)
	mux.HandleFunc("/api/imports/", apiHandler.ImportStatusHandler)
	mux.HandleFunc("/api/stats", apiHandler.StatsHandler)
	mux.HandleFunc("/health", apiHandler.HealthHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting web server", zap.String("address", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Web server failed", zap.Error(err))
	}
}
