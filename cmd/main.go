package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"doucetentation/internal/api"
	"doucetentation/internal/classify"
	"doucetentation/internal/codec"
	"doucetentation/internal/config"
	"doucetentation/internal/database"
	"doucetentation/internal/gloria"
	"doucetentation/internal/menu"
	"doucetentation/internal/monitoring"
	"doucetentation/internal/pricing"
	"doucetentation/internal/store"
	"doucetentation/internal/syncer"
	"doucetentation/internal/transform"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort > 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	catalog := menu.Default()
	classifier := classify.New(cfg.Classifier)
	optionCodec := codec.New(catalog)
	transformer := transform.New(classifier, optionCodec)
	pricer := pricing.New(catalog)
	orderStore := store.NewGormStore(db)
	monitor := monitoring.NewSyncMonitor()

	client := gloria.NewClient(cfg.Gloria.APIURL, cfg.Gloria.APIKey,
		cfg.Gloria.APIVersion, cfg.RequestTimeout(), logger)

	engine := syncer.New(syncer.Options{
		Poller:       client,
		Store:        orderStore,
		Transformer:  transformer,
		Source:       cfg.Source(),
		Monitor:      monitor,
		Logger:       logger,
		Interval:     cfg.Interval(),
		InitialDelay: cfg.InitialDelay(),
	})
	go engine.Run(ctx)

	ordersAPI := api.NewOrdersAPI(orderStore, engine, monitor, pricer, logger)

	go startMetricsServer(cfg.Server.MetricsPort, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: ordersAPI.Router,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down servers")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown", zap.Error(err))
		}

		cancel()
	}()

	logger.Info("starting API server",
		zap.Int("port", cfg.Server.Port),
		zap.String("channel", cfg.Gloria.Channel))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("API server error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func startMetricsServer(port int, logger *zap.Logger) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	logger.Info("starting metrics server", zap.Int("port", port))
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("metrics server error", zap.Error(err))
	}
}
