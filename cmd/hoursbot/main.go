// Package main contains the entrypoint for the hours reminder service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"hoursbot/internal/bot"
	"hoursbot/internal/bot/tasks"
	"hoursbot/internal/config"
	"hoursbot/internal/harvest"
	"hoursbot/internal/logger"
	"hoursbot/internal/notify"
	"hoursbot/internal/report"
	"hoursbot/internal/server"
	"hoursbot/internal/slackdir"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components (config, logger, backend clients, channels,
// runner, scheduler, HTTP server), starts the orchestrator, and returns an
// exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	tracker := harvest.NewClient(cfg.Harvest.BaseURL, cfg.Harvest.Token, cfg.Harvest.AccountID, log)
	directory := slackdir.New(cfg.Slack.Token, log)

	channels, err := buildChannels(cfg)
	if err != nil {
		log.Error("Failed to build notification channels", "error", err)
		return 1
	}
	log.Info("Notification channels configured",
		"general", len(channels[report.AudienceGeneral]),
		"executive", len(channels[report.AudienceExecutive]))

	runner := report.NewRunner(tracker, directory, channels, report.Settings{
		Baseline: report.Baseline{
			Hours:             cfg.Report.BaselineHours,
			ReducedRole:       cfg.Report.ReducedRole,
			ReducedMultiplier: cfg.Report.ReducedMultiplier,
		},
		MissingThreshold: cfg.Report.MissingThreshold,
		ExecutiveRole:    cfg.Report.ExecutiveRole,
	}, log)

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Runner: runner,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	router := server.SetupRoutes(server.NewHandlers(runner, log), log)
	app := bot.NewBot(log, cfg.Server.Addr, router, sched)

	log.Info("Starting hours reminder service...")
	runErr := app.Run(ctx)
	log.Info("Run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Service stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Service stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

// buildChannels constructs the delivery channels per audience from
// configuration. The Telegram bot client is created once and shared by
// every telegram channel.
func buildChannels(cfg *config.Config) (map[report.Audience][]report.Channel, error) {
	var tg *tgbot.Bot
	telegramBot := func() (*tgbot.Bot, error) {
		if tg != nil {
			return tg, nil
		}
		var err error
		if tg, err = tgbot.New(cfg.Telegram.Token, tgbot.WithSkipGetMe()); err != nil {
			return nil, fmt.Errorf("creating telegram bot: %w", err)
		}
		return tg, nil
	}

	build := func(audience report.Audience, configs []config.ChannelConfig) ([]report.Channel, error) {
		chans := make([]report.Channel, 0, len(configs))
		for i, cc := range configs {
			name := fmt.Sprintf("%s/%s-%d", audience, cc.Type, i+1)
			switch cc.Type {
			case config.ChannelSlackWebhook:
				chans = append(chans, notify.NewSlackWebhook(name, cc.WebhookURL))
			case config.ChannelTelegram:
				b, err := telegramBot()
				if err != nil {
					return nil, err
				}
				chans = append(chans, notify.NewTelegramChat(name, b, cc.ChatID))
			default:
				return nil, fmt.Errorf("unknown channel type %q", cc.Type)
			}
		}
		return chans, nil
	}

	channels := make(map[report.Audience][]report.Channel, 2)
	var err error
	if channels[report.AudienceGeneral], err = build(report.AudienceGeneral, cfg.Channels.General); err != nil {
		return nil, err
	}
	if channels[report.AudienceExecutive], err = build(report.AudienceExecutive, cfg.Channels.Executive); err != nil {
		return nil, err
	}
	return channels, nil
}
