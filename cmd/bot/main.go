// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"chainx-bot/internal/bot"
	"chainx-bot/internal/common/config"
	"chainx-bot/internal/common/logger"
	"chainx-bot/internal/inference"
	"chainx-bot/internal/schema"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting ChainX bot...",
		zap.String("environment", cfg.App.Environment),
		zap.String("model", cfg.Gemini.Model),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := schema.NewRegistry(cfg.DataSource.BaseURL)

	gen, err := inference.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		zapLog.Fatal("inference client init failed", zap.Error(err))
	}
	defer gen.Close()

	// --- Init Telegram client with retry ---
	var api *tgbotapi.BotAPI
	err = retryWithBackoff(func() error {
		var err error
		api, err = tgbotapi.NewBotAPI(cfg.Telegram.Token)
		return err
	}, 5, 2*time.Second, zapLog, "Telegram client initialization")
	if err != nil {
		zapLog.Fatal("telegram client init failed", zap.Error(err))
	}

	// --- Metrics and pprof endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			zapLog.Info("metrics server listening", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, nil); err != nil {
				zapLog.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	b := bot.New(cfg, api, registry, gen, log)

	if err := b.Run(ctx); err != nil && err != context.Canceled {
		zapLog.Fatal("bot stopped with error", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
