package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gaze-tracker/config"
	telegram "gaze-tracker/internal/api"
	"gaze-tracker/internal/container"
	"gaze-tracker/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	log.Init(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Fatal("tracker stopped", "error", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Собираем трекер
	c, err := container.New(cfg)
	if err != nil {
		return fmt.Errorf("build tracker: %w", err)
	}
	defer c.Close()

	// Бот необязателен: без токена трекер только пишет отчёт
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, c.SessionService, c.Calibrator)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		go func() {
			if err := bot.Run(ctx); err != nil {
				log.Error("bot stopped", "error", err)
			}
		}()
	}

	log.Info("tracker is running", "frames_dir", cfg.FramesDir, "camera", cfg.CameraID)
	session, runErr := c.TrackingService.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if session != nil && cfg.ReportPath != "" {
		if err := writeReport(context.WithoutCancel(ctx), c, cfg.ReportPath, session); err != nil {
			log.Error("failed to write report", "error", err)
		} else {
			log.Info("report written", "path", cfg.ReportPath)
		}
	}
	return runErr
}
