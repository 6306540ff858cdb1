package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-assistant/internal/client"
	"github.com/kjstillabower/weather-assistant/internal/config"
	httphandler "github.com/kjstillabower/weather-assistant/internal/http"
	"github.com/kjstillabower/weather-assistant/internal/lifecycle"
	"github.com/kjstillabower/weather-assistant/internal/llm"
	"github.com/kjstillabower/weather-assistant/internal/observability"
	"github.com/kjstillabower/weather-assistant/internal/service"
	"github.com/kjstillabower/weather-assistant/internal/shell"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	weatherClient, err := client.NewOpenWeatherClient(
		cfg.WeatherAPIKey,
		cfg.WeatherAPIURL,
		cfg.WeatherAPITimeout,
		client.WithMaxLocationLength(cfg.LocationMaxLength),
	)
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}

	llmClient, err := llm.New(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout)
	if err != nil {
		logger.Fatal("llm client", zap.Error(err))
	}

	mode, err := service.ParseExtractionMode(cfg.ExtractionMode)
	if err != nil {
		logger.Fatal("pipeline", zap.Error(err))
	}
	pipeline, err := service.NewPipeline(llmClient, weatherClient,
		service.WithExtractionMode(mode),
		service.WithUnitDetection(cfg.DetectUnit),
		service.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("pipeline", zap.Error(err))
	}
	logger.Info("assistant configured",
		zap.String("model", llmClient.Model()),
		zap.String("extraction_mode", string(mode)),
		zap.Bool("detect_unit", cfg.DetectUnit))

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		handler := httphandler.NewHandler(httphandler.HealthInfo{
			Service:   "weather-assistant",
			Version:   "dev",
			Model:     llmClient.Model(),
			Mode:      string(mode),
			StartTime: time.Now(),

			DegradedWindow:     cfg.DegradedWindow,
			DegradedFailurePct: cfg.DegradedFailurePct,
		}, logger)
		srv = &http.Server{
			Addr:         cfg.MetricsAddr,
			Handler:      httphandler.NewRouter(handler, logger),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("metrics server starting", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := shell.New(os.Stdin, os.Stdout, pipeline, logger)
	sh.OnReady = func() { lifecycle.Set(lifecycle.Serving) }
	runErr := sh.Run(ctx)
	stop()

	lifecycle.Set(lifecycle.ShuttingDown)
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown", zap.Error(err))
		}
		cancel()
	}

	if runErr != nil {
		logger.Error("shell", zap.Error(runErr))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
