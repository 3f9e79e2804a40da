package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/staticimport/swa/internal/api/http"
	"github.com/staticimport/swa/internal/config"
	"github.com/staticimport/swa/internal/fares"
	"github.com/staticimport/swa/internal/fares/sources"
	"github.com/staticimport/swa/internal/notify"
	"github.com/staticimport/swa/internal/scheduler"
	"github.com/staticimport/swa/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("<<<<<<<< new run >>>>>>>>")

	itineraries, err := config.LoadItineraries(cfg.TripsFile)
	if err != nil {
		fatal("failed to load trips", err)
	}
	personals, err := config.LoadPersonals(cfg.PersonalsFile)
	if err != nil {
		fatal("failed to load personals", err)
	}

	notifier, err := buildNotifier(cfg, personals)
	if err != nil {
		fatal("failed to set up notifications", err)
	}

	trips := make([]*fares.Trip, 0, len(itineraries))
	for _, it := range itineraries {
		trips = append(trips, fares.NewTrip(it, cfg.DropRule))
	}

	// In-memory alert history with configured retention.
	memStore := store.NewMemoryStore(cfg.AlertMaxHistory, cfg.AlertMaxAge)

	// Core service orchestrating source, trips, store and notifier.
	service := fares.NewService(buildSource(cfg), notifier, memStore, trips)
	slog.Info("tracking trips", "count", len(trips), "channels", notifier.Channels(),
		"threshold", cfg.DropRule.Threshold.String(), "policy", cfg.DropRule.Policy.String())

	// Scheduler that periodically polls and diffs fares.
	sched := scheduler.New(service, cfg.PollInterval, cfg.PollJitter, 2*cfg.HTTPTimeout)
	if err := sched.Start(); err != nil {
		fatal("failed to start scheduler", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "swa-pricer",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "swa-pricer",
			"cycles":  sched.Cycles(),
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}

func buildSource(cfg *config.AppConfig) fares.Source {
	if cfg.FareReplayFile != "" {
		slog.Info("replaying fares from file", "path", cfg.FareReplayFile)
		return sources.NewReplaySource(cfg.FareReplayFile)
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	return sources.NewHTTPSource(httpClient, cfg.FareSourceURL, sources.DefaultBackoff())
}

func buildNotifier(cfg *config.AppConfig, p *config.Personals) (*notify.Fanout, error) {
	fanout := notify.NewFanout()
	if p.SMSEnabled {
		fanout.Add(notify.NewSMS(p.TwilioAccountSID, p.TwilioAuthToken, p.SMSFrom, p.SMSTo), notify.Once)
	}
	if p.EmailEnabled {
		fanout.Add(notify.NewEmail(p.SMTPHost, p.SMTPPort, p.SMTPUser, p.SMTPPassword, p.EmailFrom, p.EmailTo),
			notify.RetryPolicy{Attempts: cfg.EmailRetry.Attempts, Delay: cfg.EmailRetry.Delay})
	}
	if p.TelegramEnabled {
		tg, err := notify.NewTelegram(p.TelegramToken, p.TelegramChatID)
		if err != nil {
			return nil, err
		}
		fanout.Add(tg, notify.Once)
	}
	if len(fanout.Channels()) == 0 {
		slog.Warn("no notification channels enabled; alerts are only logged and stored")
	}
	return fanout, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err, "config_error", errors.Is(err, config.ErrConfig))
	os.Exit(1)
}
