// main.go - Entry point and dependency injection
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sstent/podsync-go/internal/analysis"
	"github.com/sstent/podsync-go/internal/config"
	"github.com/sstent/podsync-go/internal/database"
	"github.com/sstent/podsync-go/internal/logger"
	"github.com/sstent/podsync-go/internal/sync"
	"github.com/sstent/podsync-go/internal/web"
)

type App struct {
	cfg         *config.Config
	log         *zap.Logger
	db          *database.SQLiteDB
	cron        *cron.Cron
	server      *http.Server
	syncService *sync.SyncService
	shutdown    chan os.Signal

	// ctx is cancelled on shutdown so a running sync stops between files.
	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "podsync")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Debug("no .env file found, using system environment variables")
	}

	app := &App{
		cfg:      cfg,
		log:      log,
		shutdown: make(chan os.Signal, 1),
	}

	if err := app.init(); err != nil {
		log.Fatal("failed to initialize app", zap.Error(err))
	}

	if err := app.start(); err != nil {
		log.Fatal("failed to start app", zap.Error(err))
	}

	// Wait for shutdown signal
	signal.Notify(app.shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-app.shutdown
	log.Info("received signal", zap.String("signal", sig.String()))

	app.stop()
}

func (app *App) init() error {
	app.ctx, app.cancel = context.WithCancel(context.Background())

	if err := os.MkdirAll(app.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := database.NewSQLiteDB(app.cfg.DBPath, logger.Component(app.log, "database"))
	if err != nil {
		return err
	}
	app.db = db

	app.syncService = sync.NewSyncService(app.db, app.cfg.DataDir, logger.Component(app.log, "sync"))
	app.cron = cron.New()

	gin.SetMode(app.cfg.HTTP.GinMode)
	analyzer := analysis.NewAnalyzer(app.db, logger.Component(app.log, "analysis"))
	webHandler := web.NewWebHandler(analyzer, app.db, app.syncService, logger.Component(app.log, "web"))
	router, err := web.NewRouter(webHandler)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	app.server = &http.Server{
		Addr:              app.cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

func (app *App) start() error {
	if app.cfg.Sync.Enabled {
		_, err := app.cron.AddFunc(app.cfg.Sync.Schedule, app.runSync)
		if err != nil {
			return fmt.Errorf("invalid sync schedule %q: %w", app.cfg.Sync.Schedule, err)
		}
		app.cron.Start()
		app.log.Info("inbox sync scheduled",
			zap.String("schedule", app.cfg.Sync.Schedule),
			zap.String("inbox", app.syncService.InboxDir()))
	}

	go func() {
		app.log.Info("server starting", zap.String("addr", app.cfg.HTTP.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.Error("server error", zap.Error(err))
			app.shutdown <- syscall.SIGTERM
		}
	}()

	return nil
}

func (app *App) runSync() {
	if _, err := app.syncService.Sync(app.ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			app.log.Info("scheduled sync cancelled")
			return
		}
		app.log.Error("scheduled sync failed", zap.Error(err))
	}
}

func (app *App) stop() {
	app.log.Info("shutting down")

	// Stop a running sync after its current file, then wait for it
	app.cancel()
	<-app.cron.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.log.Error("server shutdown error", zap.Error(err))
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.log.Error("database close error", zap.Error(err))
		}
	}

	app.log.Info("shutdown complete")
}
