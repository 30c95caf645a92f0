package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"LendIt/internal/cli/bootstrap"
	"LendIt/internal/config"
	"LendIt/internal/handlers"
	"LendIt/internal/middleware"
)

func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap по LOG_MODE
	logger, err := bootstrap.NewLogger(cfg.LogMode)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	//context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := bootstrap.Open(cfg, sugar, nil)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			sugar.Errorw("failed to close database", "error", err)
		}
	}()

	sink, err := bootstrap.NewSink(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to create reminder sink", "notifier", cfg.Notifier, "error", err)
	}
	defer sink.Close()

	go app.Dispatcher(sink).Run(ctx, cfg.ReminderPoll)

	h := handlers.NewHandler(app.Service, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"Notifier", cfg.Notifier,
		"ReminderPoll", cfg.ReminderPoll,
		"Locale", cfg.Locale,
		"Timezone", cfg.Location().String(),
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("Server failed", "error", err)
		return
	}
	sugar.Infow("Server stopped")
}
