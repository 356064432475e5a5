// Command remape serves the sales-team reporting dashboard.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"remape/internal/auth"
	"remape/internal/config"
	"remape/internal/core"
	apphttp "remape/internal/http"
	"remape/internal/log"
	"remape/internal/services"
	"remape/internal/sheets"
	gsheet "remape/internal/sheets/google"
	mem "remape/internal/sheets/memory"
)

func main() {
	// A missing .env is fine; real deployments set the environment.
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(os.Getenv("LOG_LEVEL")),
		Format:    os.Getenv("LOG_FORMAT"),
		Component: "remape",
	})
	log.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.UsingDefaultSecret() {
		logger.Warn("Signing session tokens with the built-in default secret; set SECRET_KEY")
	}

	store := auth.NewStore(cfg.BcryptCost,
		auth.Credential{
			Login:       cfg.FallbackLogin,
			DisplayName: cfg.FallbackName,
			Password:    cfg.FallbackPassword,
		},
		credentialProviders(cfg)...)
	logger.Info("Credential store ready", "identities", store.Count())

	authSvc := auth.NewService(store, cfg.SecretKey, cfg.TokenTTL)

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize sheet backend", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}

	reports := services.NewReportService(fetcher, sheetSources(cfg), cfg.SuperUser)

	srv := apphttp.NewServer(":"+cfg.Port, authSvc, reports, cfg.TokenTTL, logger.WithComponent("http"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting remape server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// credentialProviders lists the startup credential sources in load order:
// USER_* environment entries first, then the optional YAML file.
func credentialProviders(cfg *config.Config) []auth.Provider {
	providers := []auth.Provider{auth.EnvProvider{Prefix: "USER_"}}
	if cfg.UsersFile != "" {
		providers = append(providers, auth.FileProvider{Path: cfg.UsersFile})
	}
	return providers
}

// newFetcher builds the row fetcher for the configured backend and wraps
// it with retry and in-flight deduplication.
func newFetcher(cfg *config.Config, logger *log.Logger) (sheets.RowFetcher, error) {
	var fetcher sheets.RowFetcher
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			return nil, err
		}
		fetcher = cli
		logger.Info("Initialized Google Sheets backend")
	default:
		fetcher = mem.NewWithSamples(cfg.MainSpreadsheetID, cfg.SalesSpreadsheetID)
		logger.Info("Initialized memory backend with sample data")
	}

	fetcher = sheets.WithRetry(fetcher, sheets.RetryConfig{
		Attempts: cfg.FetchAttempts,
		Backoff:  cfg.FetchBackoff,
		Timeout:  cfg.FetchTimeout,
	})
	return sheets.WithDedupe(fetcher), nil
}

// sheetSources maps every sheet kind to its spreadsheet and worksheet.
// VENDAS lives in its own spreadsheet; everything else shares the main one.
func sheetSources(cfg *config.Config) map[core.Kind]services.SheetSource {
	sources := make(map[core.Kind]services.SheetSource, len(core.Kinds()))
	for _, kind := range core.Kinds() {
		spreadsheet := cfg.MainSpreadsheetID
		if kind == core.KindSales {
			spreadsheet = cfg.SalesSpreadsheetID
		}
		sources[kind] = services.SheetSource{
			SpreadsheetID: spreadsheet,
			Worksheet:     cfg.Worksheet(kind.Name()),
		}
	}
	return sources
}
