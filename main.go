package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	"github.com/pemira/evote-server/cliparse"
	"github.com/pemira/evote-server/db"
	"github.com/pemira/evote-server/engine"
	"github.com/pemira/evote-server/live"
	"github.com/pemira/evote-server/middleware"
	"github.com/pemira/evote-server/router"
	"github.com/pemira/evote-server/store"
)

func main() {
	var err error

	// Load .env if present (dev convenience, ignored in production)
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open database (sqlite or postgres per config)
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Ensure the assets directory exists before anything serves from it
	if err := os.MkdirAll(cfg.AssetsDir, 0o755); err != nil {
		slog.Error("assets directory creation failed", "error", err, "dir", cfg.AssetsDir)
		os.Exit(1)
	}

	// Live result stream shared by the cast path and the SSE endpoint
	hub := live.NewHub()

	// Background consistency sweep for the casting saga
	reconciler := engine.NewReconciler(store.NewBallotStore(dbConn))
	sched := cron.New()
	_, err = sched.AddFunc(cfg.ReconcileSchedule, func() {
		if _, err := reconciler.Sweep(context.Background()); err != nil {
			slog.Error("reconciliation sweep failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("invalid reconcile schedule", "error", err, "schedule", cfg.ReconcileSchedule)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	mux := router.NewRouter(dbConn, hub, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
