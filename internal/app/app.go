// Package app wires the application together and runs its launch modes.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sadokz/lamaitrise/internal/auth"
	"github.com/sadokz/lamaitrise/internal/config"
	"github.com/sadokz/lamaitrise/internal/database"
	"github.com/sadokz/lamaitrise/internal/handler"
	"github.com/sadokz/lamaitrise/internal/logger"
	"github.com/sadokz/lamaitrise/internal/metrics"
	"github.com/sadokz/lamaitrise/internal/middleware"
	"github.com/sadokz/lamaitrise/internal/repository"
	"github.com/sadokz/lamaitrise/internal/security"
	"github.com/sadokz/lamaitrise/internal/sitetext"
	"github.com/sadokz/lamaitrise/internal/storage"

	"golang.org/x/time/rate"
)

// Init sets up JSON structured logging and loads the Config from the
// environment. When w is non-nil logs go to that writer.
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run is the application entry point. args is os.Args[1:].
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck skips full initialization; it only needs the port.
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe opens the database, wires every dependency and serves HTTP until
// SIGINT or SIGTERM, then shuts down gracefully.
func runServe(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration on startup failed: %w", err)
	}

	// Repositories
	adminRepo := repository.NewPostgresAdminRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	referenceRepo := repository.NewPostgresReferenceRepo(db)
	domainRepo := repository.NewPostgresDomainRepo(db)
	competenceRepo := repository.NewPostgresCompetenceRepo(db)
	siteTextRepo := repository.NewPostgresSiteTextRepo(db)
	settingsRepo := repository.NewPostgresSettingsRepo(db)

	// Security services
	urlGuard := security.NewURLGuard()
	sanitizer := security.NewPlainTextSanitizer()
	richSanitizer := security.NewRichTextSanitizer()

	// Domain services
	authService := auth.NewService(adminRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge})
	textService := sitetext.NewService(siteTextRepo, sanitizer)

	store, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		return fmt.Errorf("failed to prepare upload directory: %w", err)
	}
	uploadService := storage.NewUploadService(store, slog.Default())

	// First-run admin bootstrap
	if err := authService.Bootstrap(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Rate limits come from config in req/min and the limiter wants req/sec.
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.UploadRate = rate.Limit(float64(cfg.RateLimitUpload) / 60.0)
	rateLimiterCfg.UploadBurst = cfg.RateLimitUpload
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	csrfConfig := middleware.CSRFConfig{
		CookieSecure: cfg.CookieSecure,
		CookieDomain: cfg.CookieDomain,
	}

	router := handler.NewRouter(handler.RouterDeps{
		Auth: handler.NewAuthHandler(authService, handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		}),
		Texts:       handler.NewTextHandler(textService, collector),
		References:  handler.NewReferenceHandler(referenceRepo, domainRepo, urlGuard, richSanitizer, collector),
		Domains:     handler.NewDomainHandler(domainRepo, urlGuard, richSanitizer),
		Competences: handler.NewCompetenceHandler(competenceRepo, urlGuard, richSanitizer),
		Settings:    handler.NewSettingsHandler(settingsRepo, urlGuard, richSanitizer),
		Uploads:     handler.NewUploadHandler(uploadService, collector),

		SessionResolver: authService,
		RateLimiter:     rateLimiter,
		Collector:       collector,
		Gatherer:        registry,

		Logger:        slog.Default(),
		AllowedOrigin: cfg.CORSAllowedOrigin,
		CSRFConfig:    csrfConfig,
		UploadDir:     store.Dir(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate applies all pending database migrations in order.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck probes the local server's health endpoint.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL hides the credential part of the connection URL in logs.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
