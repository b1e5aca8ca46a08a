package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/bowerhall/parley/internal/bot"
	"github.com/bowerhall/parley/internal/channel"
	"github.com/bowerhall/parley/internal/config"
	"github.com/bowerhall/parley/internal/logger"
)

func init() {
	godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	timezone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using UTC", "timezone", cfg.Timezone, "error", err)
		timezone = time.UTC
	}

	b := bot.New(bot.Config{
		ContextTimeout: cfg.ContextTimeout,
		FuzzyThreshold: cfg.FuzzyThreshold,
		Timezone:       timezone,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := cron.New()
	_, err = sweeper.AddFunc(fmt.Sprintf("@every %s", cfg.SweepInterval), func() {
		if purged := b.Contexts().Sweep(time.Now()); purged > 0 {
			logger.Debug("contexts swept", "purged", purged)
		}
	})
	if err != nil {
		logger.Fatal("failed to schedule sweeper", "error", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	if len(cfg.Channels) == 0 {
		logger.Info("no channels configured, starting console")

		console := channel.NewConsole(b.ProcessMessage)
		if err := console.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Fatal("console failed", "error", err)
		}

		return
	}

	var wg sync.WaitGroup
	for _, chCfg := range cfg.Channels {
		ch, err := channel.New(chCfg, b.ProcessMessage)
		if err != nil {
			logger.Fatal("failed to create channel", "provider", chCfg.Provider, "error", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			logger.Info("channel starting", "channel", ch.Name())
			if err := ch.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("channel stopped", "channel", ch.Name(), "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")
	wg.Wait()
}
