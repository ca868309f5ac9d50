package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/foodwaste/predictor/internal/artifact"
	"github.com/foodwaste/predictor/internal/config"
	httpdelivery "github.com/foodwaste/predictor/internal/delivery/http"
	"github.com/foodwaste/predictor/internal/repository/postgres"
	"github.com/foodwaste/predictor/internal/service"
)

// classifierCacheTTL bounds how long a cached category answer is reused.
const classifierCacheTTL = 10 * time.Minute

var servePort string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP",
	Long: `Load the artifacts once and serve predictions over HTTP.

Endpoints:
  GET  /health               artifact and database status
  POST /api/v1/predict       same event JSON as the command line
  GET  /api/v1/predictions   newest audit log entries
  GET  /metrics              Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.ErrOrStderr())
		if err == nil {
			if servePort != "" {
				cfg.Port = servePort
			}
			err = runServer(cmd.Context(), cfg)
		}
		if err != nil {
			log.Error().Err(err).Msg("Server failed")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "server port (default from config, 8080)")
}

func runServer(ctx context.Context, cfg *config.Config) error {
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	source, err := artifact.NewCached(loadCtx, newLoader(cfg))
	if err != nil {
		return err
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}
	if bridge, ok := classifier.(*service.ClassifierBridge); ok {
		if err := bridge.Health(loadCtx); err != nil {
			log.Warn().Err(err).Str("url", cfg.Classifier.URL).Msg("Food classifier not reachable at startup")
		}
	}
	cached := service.NewCachedClassifier(classifier, cfg.Classifier.CacheBytes, classifierCacheTTL)
	predictionSvc := newPredictionService(cfg, source, cached)

	repo, closeRepo := newRepository(loadCtx, cfg)
	defer closeRepo()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := httpdelivery.NewHandler(predictionSvc, source, repo, httpdelivery.NewMetrics(registry))

	app := newApp()
	httpdelivery.SetupRoutes(app, handler, registry)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		serveErr <- app.Listen(":" + cfg.Port)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Float64("classifier_cache_hit_rate", cached.HitRate()).Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Food Waste Predictor " + Version,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpdelivery.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
		Output: os.Stderr,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	return app
}

// newRepository connects the audit log. Without a database, or when it is
// unreachable, predictions are kept in memory only.
func newRepository(ctx context.Context, cfg *config.Config) (service.PredictionLogRepository, func()) {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("No database configured, audit log kept in memory")
		return postgres.NewMockRepository(), func() {}
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err == nil {
		err = pool.Ping(ctx)
		if err != nil {
			pool.Close()
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("Could not connect to database, audit log kept in memory")
		return postgres.NewMockRepository(), func() {}
	}

	log.Info().Msg("Connected to PostgreSQL")
	return postgres.NewPostgresRepository(pool), pool.Close
}
