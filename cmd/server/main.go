package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Simplici0/sellsheet/internal/config"
	"github.com/Simplici0/sellsheet/internal/db"
	"github.com/Simplici0/sellsheet/internal/logging"
	"github.com/Simplici0/sellsheet/internal/metrics"
	"github.com/Simplici0/sellsheet/internal/migrations"
	"github.com/Simplici0/sellsheet/internal/recipes"
	"github.com/Simplici0/sellsheet/internal/seed"
	"github.com/Simplici0/sellsheet/internal/store"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	db           *sql.DB
	logger       *zap.Logger
	states       *store.StateStore
	recipes      *recipes.Service
	maxBodyBytes int64
	now          func() time.Time
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, OutputFile: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("op", "main"), zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(database, logger); err != nil {
		logger.Fatal("failed to run database migrations", zap.String("op", "main"), zap.Error(err))
	}

	if cfg.IsDev() {
		stats, err := seed.Run(database)
		if err != nil {
			logger.Fatal("failed to seed sample data", zap.String("op", "main"), zap.Error(err))
		}
		logger.Info("sample data seeded", zap.String("op", "main"), zap.Int("inserts", stats.Inserts))
	}

	srv := newServer(database, logger, cfg)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.String("op", "main"), zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("op", "main"), zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.String("op", "main"), zap.Error(err))
	}
	logger.Info("server stopped", zap.String("op", "main"))
}

func newServer(database *sql.DB, logger *zap.Logger, cfg config.Config) *server {
	return &server{
		db:           database,
		logger:       logger,
		states:       store.NewStateStore(database, logger),
		recipes:      recipes.NewService(store.NewRecipeStore(database, logger), logger, cfg.CacheSize, cfg.CacheTTL),
		maxBodyBytes: cfg.MaxBodyBytes,
		now:          time.Now,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/units", s.handleUnits)
		r.Get("/defaults", s.handleDefaults)
		r.Post("/analysis", s.handleAnalysis)

		r.Get("/state", s.handleGetState)
		r.Put("/state", s.handlePutState)
		r.Delete("/state", s.handleClearState)
		r.Get("/state/export.csv", s.handleExportState(formatCSV))
		r.Get("/state/export.pdf", s.handleExportState(formatPDF))

		r.Get("/recipes", s.handleListRecipes)
		r.Post("/recipes", s.handleCreateRecipe)
		r.Get("/recipes/{id}", s.handleGetRecipe)
		r.Delete("/recipes/{id}", s.handleDeleteRecipe)
		r.Post("/recipes/{id}/load", s.handleLoadRecipe)
		r.Get("/recipes/{id}/export.csv", s.handleExportRecipe(formatCSV))
		r.Get("/recipes/{id}/export.pdf", s.handleExportRecipe(formatPDF))
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request served",
			zap.String("op", "server.requestLogger"),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "database unavailable", "server.handleHealth", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
