package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/config"
	"github.com/anarmmdv/bazar/internal/repository/mongodb"
	"github.com/anarmmdv/bazar/internal/repository/sheets"
	"github.com/anarmmdv/bazar/internal/repository/supastore"
	"github.com/anarmmdv/bazar/internal/scheduler"
	"github.com/anarmmdv/bazar/internal/server/handlers"
	"github.com/anarmmdv/bazar/internal/server/router"
	authsvc "github.com/anarmmdv/bazar/internal/service/auth"
	ledgersvc "github.com/anarmmdv/bazar/internal/service/ledger"
	reportsvc "github.com/anarmmdv/bazar/internal/service/report"
	"github.com/anarmmdv/bazar/pkg/clients/supabase"
	"github.com/anarmmdv/bazar/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("failed to resolve timezone", zap.Error(err))
	}

	supaClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	store := supastore.NewSupabaseStore(supaClient, baseLogger.Named("repo.supastore"))

	archive, err := mongodb.NewMongoDBArchive(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb archive", zap.Error(err))
	}
	defer func() {
		if err := archive.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Spreadsheet export is optional; the analysis screen works without it.
	var exporter sheets.Exporter
	if cfg.Sheets.CredentialsPath != "" && cfg.Sheets.SpreadsheetID != "" {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("spreadsheet export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, spreadsheet export disabled")
	}

	sessions := authsvc.NewManager(supaClient, baseLogger.Named("svc.auth"))
	todaySession := ledgersvc.NewSession(store, loc, cfg.Ledger.AutosaveDebounce, baseLogger.Named("svc.ledger"))
	defer todaySession.Close()

	reportSvc := reportsvc.NewService(store, baseLogger.Named("svc.report"))

	engine := router.New(router.Handlers{
		Auth:     handlers.NewAuthHandler(sessions, cfg.Supabase.AnonKey, baseLogger.Named("handlers.auth")),
		Products: handlers.NewProductsHandler(store, baseLogger.Named("handlers.products")),
		Today:    handlers.NewTodayHandler(todaySession, baseLogger.Named("handlers.today")),
		Analysis: handlers.NewAnalysisHandler(reportSvc, exporter, loc, baseLogger.Named("handlers.analysis")),
	}, sessions, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, loc, reportSvc, archive, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
