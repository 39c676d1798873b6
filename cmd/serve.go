package cmd

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
	"github.com/spf13/cobra"

	"howmuch-apple/config"
	"howmuch-apple/metrics"
	"howmuch-apple/server"
	"howmuch-apple/services"
	"howmuch-apple/storage"
	"howmuch-apple/utils"
)

const staticLoadTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the HTTP server with the search page, results pages and JSON API.

The analyzer is chosen by ANALYZER_MODE or --mode:
  mock  synthesise results from the region directory (default)
  live  post queries to PRICE_API_BASE_URL + PRICE_API_PATH
  db    aggregate listings stored by "howmuch import"`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// The root command serves too, so it takes the same flags.
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().String("addr", "", "listen address (default from HTTP_ADDR)")
		c.Flags().String("mode", "", "analyzer mode: mock, live or db (default from ANALYZER_MODE)")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.AnalyzerMode = mode
	}

	logger.Info("=== howmuch starting (mode: %s) ===", cfg.AnalyzerMode)

	directory, catalog := loadStaticData(cmd.Context(), cfg, logger)

	analyzer, closeFn, err := buildAnalyzer(cmd.Context(), cfg, directory, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	if utils.ParseLevel(cfg.LogLevel) != utils.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(server.Options{
		Directory:     directory,
		Catalog:       catalog,
		Analyzer:      services.Instrumented{Mode: cfg.AnalyzerMode, Next: analyzer},
		Mode:          cfg.AnalyzerMode,
		RequireRegion: cfg.RequireRegion,
		Logger:        logger,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutdown signal received: %s", sig)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error: %v", err)
	}
	logger.Info("Server stopped")
	return nil
}

// loadStaticData reads the region directory and the device options at the
// same time. Each keeps its own outcome; a failure of one does not affect
// the other.
func loadStaticData(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*services.RegionDirectory, *services.DeviceCatalog) {
	ctx, cancel := context.WithTimeout(ctx, staticLoadTimeout)
	defer cancel()

	client := &http.Client{Timeout: staticLoadTimeout}
	pool := utils.NewWorkerPool(2, 0)

	var directory *services.RegionDirectory
	var catalog *services.DeviceCatalog
	pool.Submit(func() {
		directory = services.LoadRegionDirectory(ctx, client, cfg.RegionDataPath, logger)
	})
	pool.Submit(func() {
		catalog = services.LoadDeviceCatalog(ctx, client, cfg.DeviceOptionsPath, logger)
	})
	pool.Wait()

	metrics.SetStaticLoaded("regions", directory.Ready())
	metrics.SetStaticLoaded("device_options", catalog.Ready())
	return directory, catalog
}

func buildAnalyzer(ctx context.Context, cfg *config.Config, directory *services.RegionDirectory, logger *utils.Logger) (services.PriceAnalyzer, func(), error) {
	noop := func() {}
	switch cfg.AnalyzerMode {
	case config.ModeMock:
		return services.NewMockAnalyzer(directory, cfg.MockSeed, logger), noop, nil
	case config.ModeLive:
		logger.Info("Price backend: %s", cfg.PriceEndpoint())
		return services.NewLiveAnalyzer(cfg.PriceEndpoint(), nil, logger), noop, nil
	case config.ModeDB:
		store, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.MaxRetries, logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			return nil, nil, err
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Warn("PostgreSQL close: %v", err)
			}
		}
		return services.NewStoredAnalyzer(store, logger), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown analyzer mode %q (want %s, %s or %s)",
			cfg.AnalyzerMode, config.ModeMock, config.ModeLive, config.ModeDB)
	}
}
