// Command camp-sessions-bot answers session plan questions on Telegram.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pfrederiksen/camp-sessions/internal/camp"
	"github.com/pfrederiksen/camp-sessions/internal/config"
	"github.com/pfrederiksen/camp-sessions/internal/logger"
	"github.com/pfrederiksen/camp-sessions/internal/telegram"
	"github.com/pfrederiksen/camp-sessions/internal/telemetry"
)

const pollTimeoutSeconds = 30

type options struct {
	botToken     string
	configPath   string
	dryRun       bool
	loopDuration time.Duration
}

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var opts options
	flag.StringVar(&opts.botToken, "bot-token", os.Getenv(config.EnvTelegramToken), "Telegram bot token (or env: TELEGRAM_BOT_TOKEN)")
	flag.StringVar(&opts.configPath, "config", "camp-sessions.yaml", "Path to the YAML configuration file")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Print replies instead of sending them")
	flag.DurationVar(&opts.loopDuration, "loop-duration", 0, "Stop after this long (0 runs until interrupted)")
	flag.Parse()

	if opts.botToken == "" {
		fmt.Fprintf(os.Stderr, "Error: bot token is required (use --bot-token or TELEGRAM_BOT_TOKEN env var)\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	telemetry.Init()
	if cfg.MetricsListen != "" {
		srv := startMetrics(cfg.MetricsListen)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) // nolint:errcheck
		}()
	}

	c := camp.FromConfig(cfg)
	result := c.Start(ctx)
	logger.Info("Initial session plan loaded", logger.Fields{
		"result":     string(result),
		"time_slots": len(c.TimeSlots()),
	})

	scheduler, err := startScheduler(ctx, cfg, c)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	runLoop(ctx, c, opts)
	return nil
}

// startScheduler refreshes the plan and the credentials on their cron schedules
func startScheduler(ctx context.Context, cfg *config.Config, c *camp.Camp) (*cron.Cron, error) {
	scheduler := cron.New()

	if _, err := scheduler.AddFunc(cfg.Refresh, func() {
		result := c.Refresh(ctx)
		logger.Debug("Session plan refreshed", logger.Fields{"result": string(result)})
	}); err != nil {
		return nil, fmt.Errorf("scheduling refresh: %w", err)
	}

	if _, err := scheduler.AddFunc(cfg.CredentialsRefresh, func() {
		c.RefreshCredentials(ctx)
	}); err != nil {
		return nil, fmt.Errorf("scheduling credentials refresh: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}

func startMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Serving metrics", logger.Fields{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", nil, err)
		}
	}()
	return srv
}

func runLoop(ctx context.Context, c *camp.Camp, opts options) {
	logger.Info("Starting long polling loop", logger.Fields{"duration": opts.loopDuration.String()})
	startTime := time.Now()
	offset := 0

	for {
		if ctx.Err() != nil {
			logger.Info("Shutting down", nil)
			return
		}
		if opts.loopDuration > 0 && time.Since(startTime) >= opts.loopDuration {
			logger.Info("Reached time limit, exiting gracefully", logger.Fields{"duration": opts.loopDuration.String()})
			return
		}

		updates, err := telegram.GetUpdates(ctx, opts.botToken, offset, pollTimeoutSeconds)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error("Error getting updates", nil, err)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			handleUpdate(ctx, c, update, opts)

			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
		}
	}
}

func handleUpdate(ctx context.Context, c *camp.Camp, update telegram.Update, opts options) {
	switch {
	case update.CallbackQuery != nil:
		answerCallback(c, update.CallbackQuery, opts)
	case update.Message != nil:
		chatID := update.Message.Chat.ChatIDString()
		logger.Debug("Message received", logger.Fields{"chat_id": chatID, "text": update.Message.Text})

		r := processCommand(ctx, c, update.Message.Text, time.Now())
		sendReply(chatID, r, opts)
	}
}

// sendReply delivers a reply to a chat
func sendReply(chatID string, r reply, opts options) {
	if r.Text == "" && len(r.Document) == 0 {
		return
	}

	if opts.dryRun {
		fmt.Printf("[DRY RUN] Would send to %s:\n%s\n\n", chatID, r.Text)
		if len(r.Document) > 0 {
			fmt.Printf("[DRY RUN] Would also send %s (%d bytes)\n", r.Filename, len(r.Document))
		}
		return
	}

	client, err := telegram.NewClient(opts.botToken, chatID)
	if err != nil {
		logger.Error("Error creating client", logger.Fields{"chat_id": chatID}, err)
		return
	}

	if len(r.Document) > 0 {
		err = client.SendDocument(r.Filename, r.Document, r.Text)
	} else {
		err = client.SendMessageWithKeyboard(r.Text, r.Keyboard)
	}
	if err != nil {
		logger.Error("Error sending reply", logger.Fields{"chat_id": chatID}, err)
	}
}

// answerCallback replaces the keyboard message with the chosen result
func answerCallback(c *camp.Camp, cb *telegram.CallbackQuery, opts options) {
	text := handleCallback(c, cb.Data)

	chatID := strconv.FormatInt(cb.From.ID, 10)
	messageID := 0
	if cb.Message != nil {
		chatID = cb.Message.Chat.ChatIDString()
		messageID = cb.Message.MessageID
	}

	if opts.dryRun {
		fmt.Printf("[DRY RUN] Would answer callback %q in %s:\n%s\n\n", cb.Data, chatID, text)
		return
	}

	client, err := telegram.NewClient(opts.botToken, chatID)
	if err != nil {
		logger.Error("Error creating client", logger.Fields{"chat_id": chatID}, err)
		return
	}
	if err := client.AnswerCallbackQuery(cb.ID, "", false); err != nil {
		logger.Warn("Error answering callback", logger.Fields{"chat_id": chatID, "error": err.Error()})
	}

	if messageID == 0 {
		err = client.SendMessage(text)
	} else {
		err = client.EditMessageText(chatID, messageID, text, nil)
	}
	if err != nil {
		logger.Error("Error editing message", logger.Fields{"chat_id": chatID}, err)
	}
}
