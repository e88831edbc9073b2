package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/roniemartinez/SiteSummarizerBot/app/api"
	"github.com/roniemartinez/SiteSummarizerBot/app/bot"
	"github.com/roniemartinez/SiteSummarizerBot/app/cfg"
	"github.com/roniemartinez/SiteSummarizerBot/app/config"
	"github.com/roniemartinez/SiteSummarizerBot/app/content"
	"github.com/roniemartinez/SiteSummarizerBot/app/database"
	"github.com/roniemartinez/SiteSummarizerBot/app/dedup"
	"github.com/roniemartinez/SiteSummarizerBot/app/reddit"
)

const journalRetention = 30 * 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		// Not an error: .env is optional outside local development.
		slog.Debug("No .env file loaded", "error", err)
	}

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Site Summarizer Bot", "version", appCfg.Version)

	botConfig, err := config.NewLoader(appCfg.ConfigFile).Load()
	if err != nil {
		slog.Error("Failed to load watch-target configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Watch targets loaded", "subreddits", botConfig.Watch.Subreddits)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Dedup store is the correctness mechanism: refusing to start
	// without it beats silently replying twice.
	store, err := dedup.Open(ctx, appCfg.RedisHost, appCfg.RedisPort, appCfg.RedisPassword, appCfg.RedisDB)
	if err != nil {
		slog.Error("Failed to connect to dedup store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open reply journal", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run journal migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Journal migrations applied", "version", version, "dirty", dirty)

	journal := database.NewReplyRepository(db)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	extractor := content.NewExtractor(httpClient, appCfg.UserAgent)
	resolver := content.NewResolver(extractor, content.NewSummarizer())
	pipeline := bot.NewPipeline(store, resolver, journal)

	creds := reddit.Credentials{
		ClientID:     appCfg.ClientID,
		ClientSecret: appCfg.ClientSecret,
		Username:     appCfg.BotUsername,
		Password:     appCfg.BotPassword,
		UserAgent:    appCfg.UserAgent,
	}

	pollInterval := time.Duration(appCfg.PollInterval) * time.Second
	if botConfig.Settings.PollInterval > 0 {
		pollInterval = time.Duration(botConfig.Settings.PollInterval) * time.Second
	}
	pageSize := botConfig.Settings.StreamPageSize

	// Each watcher owns its own platform session handle.
	watchers := make([]bot.Watcher, 0, len(botConfig.Watch.Subreddits)+2)
	for _, subreddit := range botConfig.Watch.Subreddits {
		watchers = append(watchers, bot.NewSubmissionWatcher(
			reddit.NewClient(creds, httpClient), pipeline, subreddit, pollInterval, pageSize))
	}
	watchers = append(watchers, bot.NewMentionWatcher(
		reddit.NewClient(creds, httpClient), pipeline, pollInterval, pageSize))
	watchers = append(watchers, bot.NewDownvoteMonitor(
		reddit.NewClient(creds, httpClient), journal, appCfg.BotUsername,
		botConfig.Settings.RetractionThreshold, pollInterval, pageSize))

	// Journal housekeeping: prune long-retracted rows once a day.
	housekeeper := cron.New()
	_, err = housekeeper.AddFunc("@daily", func() {
		pruned, err := journal.PruneDeleted(time.Now().Add(-journalRetention))
		if err != nil {
			slog.Error("Journal prune failed", "error", err)
			return
		}
		if pruned > 0 {
			slog.Info("Journal pruned", "rows", pruned)
		}
	})
	if err != nil {
		slog.Error("Failed to schedule journal housekeeping", "error", err)
		os.Exit(1)
	}
	housekeeper.Start()
	defer housekeeper.Stop()

	// Status HTTP server
	handler := api.NewHandler(store, journal, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting status server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("status server error: %w", err)
		}
	}()

	supervisor := bot.NewSupervisor(watchers...)
	supervisorDone := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(supervisorDone)
	}()

	slog.Info("Site Summarizer Bot started", "watchers", len(watchers))

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		slog.Error("Status server failed", "error", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Status server shutdown error", "error", err)
	}

	select {
	case <-supervisorDone:
	case <-shutdownCtx.Done():
		slog.Warn("Watchers did not stop before shutdown deadline")
	}

	slog.Info("Site Summarizer Bot shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
