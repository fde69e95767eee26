package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"talento/internal/api"
	"talento/internal/config"
	"talento/internal/database"
	"talento/internal/domain"
	"talento/internal/events"
	"talento/internal/export"
	"talento/internal/google"
	"talento/internal/importer"
	"talento/internal/logging"
	"talento/internal/metrics"
	"talento/internal/models"
	"talento/internal/notify"
	"talento/internal/repository"
	"talento/internal/scheduler"
	"talento/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	benefits := initBenefits(redisClient, &logger)
	resultCache := initImportCache(redisClient)

	sheetsService := initGoogleSheets(cfg, &logger)

	eventBus := events.NewEventBus()
	subscribeImportEvents(ctx, eventBus, sheetsService, &logger)

	imp := importer.New(db, resultCache, eventBus, &logger)

	registry := notify.NewRegistry(&logger,
		notify.NewEmailChannel(cfg.SMTP, &logger),
		notify.NewAppChannel(db, &logger),
		notify.NewTelegramChannel(cfg.Telegram, &logger),
		notify.NewWhatsAppChannel(cfg.WhatsApp, &logger),
	)

	notifyWorker := worker.NewNotifyWorker(registry, redisClient, cfg.Notifications.QueueName, worker.RetryPolicy{}, &logger)
	for i := 0; i < cfg.Notifications.Workers; i++ {
		go notifyWorker.Start(ctx)
	}

	sched := scheduler.New(db, registry, cfg.Notifications.DefaultRecipient, &logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
		return err
	}
	defer sched.Stop()

	exporter := export.NewExporter(db, cfg.Exports.Path, &logger)

	httpServer := api.NewHTTPServer(cfg.API, db, imp, resultCache, benefits, sched, exporter, notifyWorker, eventBus, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("create database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("create export directory")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	if err := seedOrgData(cfg, db, logger); err != nil {
		logger.Warn().Err(err).Msg("seed data failed, continuing")
	}
	return db, nil
}

// seedOrgData loads departments and positions from the seed file on first
// run. Existing records are left alone.
func seedOrgData(cfg *config.Config, db *database.DB, logger *zerolog.Logger) error {
	seedPath := cfg.Seed.Path
	if seedPath == "" {
		seedPath = "configs/seed.yaml"
	}
	data, err := os.ReadFile(seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var seed struct {
		Departments []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
		} `yaml:"departments"`
		Positions []struct {
			Title      string  `yaml:"title"`
			BaseSalary float64 `yaml:"base_salary"`
		} `yaml:"positions"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	ctx := context.Background()
	for _, d := range seed.Departments {
		if _, err := db.GetDepartmentByName(ctx, d.Name); err == nil {
			continue
		}
		dept := models.Department{Name: d.Name, Description: d.Description}
		if err := db.CreateDepartment(ctx, &dept); err != nil {
			logger.Warn().Err(err).Str("department", d.Name).Msg("seed department")
		}
	}

	existing, err := db.ListPositions(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.Title] = true
	}
	for _, p := range seed.Positions {
		if known[p.Title] {
			continue
		}
		pos := models.Position{Title: p.Title, BaseSalary: p.BaseSalary}
		if err := db.CreatePosition(ctx, &pos); err != nil {
			logger.Warn().Err(err).Str("position", p.Title).Msg("seed position")
		}
	}

	logger.Info().Str("seed_path", seedPath).Msg("seed data applied")
	return nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initBenefits(redisClient *redis.Client, logger *zerolog.Logger) domain.BenefitRepository {
	fallback := repository.NewMemoryBenefitRepository()
	if redisClient == nil {
		return fallback
	}
	primary := repository.NewRedisBenefitRepository(redisClient)
	return repository.NewFailoverBenefitRepository(primary, fallback, logger)
}

func initImportCache(redisClient *redis.Client) domain.ImportResultCache {
	if redisClient == nil {
		return repository.NewMemoryImportResultCache()
	}
	return repository.NewRedisImportResultCache(redisClient, 24*time.Hour)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.PayrollSpreadsheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.PayrollSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

// subscribeImportEvents mirrors each finished import run into the shared
// spreadsheet accounting reads.
func subscribeImportEvents(ctx context.Context, bus *events.EventBus, sheets *google.SheetsService, logger *zerolog.Logger) {
	if bus == nil || sheets == nil {
		return
	}

	bus.Subscribe(events.EventImportCompleted, func(ev *events.Event) error {
		var result models.ImportResult
		if err := json.Unmarshal(ev.Payload, &result); err != nil {
			logger.Error().Err(err).Msg("event bus: decode import result")
			return nil
		}
		if err := sheets.AppendImportSummary(ctx, &result); err != nil {
			logger.Error().Err(err).Str("kind", result.Kind).Msg("event bus: append import summary")
		}
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
