package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bowerhall/parley/internal/channel"
)

const (
	defaultContextTimeout = 5 * time.Minute
	defaultSweepInterval  = time.Minute
	defaultFuzzyThreshold = 0.6
	defaultChannelsFile   = "channels.yml"
)

type Config struct {
	ContextTimeout time.Duration
	SweepInterval  time.Duration
	FuzzyThreshold float64
	Timezone       string
	Channels       []channel.Config
}

func Load() (*Config, error) {
	timezone := os.Getenv("TZ")
	if timezone == "" {
		timezone = "UTC"
	}

	channels, err := loadChannels()
	if err != nil {
		return nil, err
	}

	return &Config{
		ContextTimeout: loadDuration("PARLEY_CONTEXT_TIMEOUT", defaultContextTimeout),
		SweepInterval:  loadDuration("PARLEY_SWEEP_INTERVAL", defaultSweepInterval),
		FuzzyThreshold: loadThreshold(),
		Timezone:       timezone,
		Channels:       channels,
	}, nil
}

func loadDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func loadThreshold() float64 {
	raw := os.Getenv("PARLEY_FUZZY_THRESHOLD")
	if raw == "" {
		return defaultFuzzyThreshold
	}

	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil || threshold <= 0 || threshold > 1 {
		return defaultFuzzyThreshold
	}

	return threshold
}

// loadChannels reads the channels file when present, otherwise derives
// channels from the environment. No channels configured means the bot runs
// on the console only.
func loadChannels() ([]channel.Config, error) {
	path := os.Getenv("PARLEY_CHANNELS")
	explicit := path != ""
	if !explicit {
		path = defaultChannelsFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return nil, fmt.Errorf("channels file %s: %w", path, err)
		}
		return channelsFromEnv(), nil
	}

	var file struct {
		Channels []channel.Config `yaml:"channels"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("channels file %s: %w", path, err)
	}

	for i, ch := range file.Channels {
		if ch.Provider == "" {
			return nil, fmt.Errorf("channels file %s: entry %d has no provider", path, i)
		}
	}

	return file.Channels, nil
}

func channelsFromEnv() []channel.Config {
	var channels []channel.Config

	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		channels = append(channels, channel.Config{Provider: "telegram", Token: token})
	}

	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		channels = append(channels, channel.Config{Provider: "discord", Token: token})
	}

	if apiKey := os.Getenv("WHATSAPP_API_KEY"); apiKey != "" {
		channels = append(channels, channel.Config{
			Provider:   "whatsapp",
			APIKey:     apiKey,
			Endpoint:   os.Getenv("WHATSAPP_ENDPOINT"),
			ListenAddr: os.Getenv("WHATSAPP_LISTEN_ADDR"),
		})
	}

	if webhook := os.Getenv("MATTERMOST_WEBHOOK_URL"); webhook != "" {
		channels = append(channels, channel.Config{
			Provider:   "mattermost",
			WebhookURL: webhook,
			ListenAddr: os.Getenv("MATTERMOST_LISTEN_ADDR"),
		})
	}

	return channels
}
