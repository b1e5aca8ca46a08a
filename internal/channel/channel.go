package channel

import (
	"context"
	"fmt"
)

// Handler processes one inbound message and returns the reply text.
// The orchestrator's ProcessMessage satisfies this.
type Handler func(ctx context.Context, userID, text string) string

// Channel is a transport adapter. Each adapter delivers (userID, text)
// pairs to its Handler and transmits the returned response; the core is
// agnostic to the transport.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Send(recipientID, message string) error
}

// Config carries the per-provider settings a channel needs. Unused fields
// are ignored by providers that don't need them.
type Config struct {
	Provider   string `yaml:"provider"`
	Token      string `yaml:"token"`
	APIKey     string `yaml:"api_key"`
	Endpoint   string `yaml:"endpoint"`
	WebhookURL string `yaml:"webhook_url"`
	ListenAddr string `yaml:"listen_addr"`
}

func New(cfg Config, handle Handler) (Channel, error) {
	switch cfg.Provider {
	case "telegram":
		return newTelegram(cfg.Token, handle)
	case "discord":
		return newDiscord(cfg.Token, handle)
	case "whatsapp":
		return newWhatsApp(cfg, handle)
	case "mattermost":
		return newMattermost(cfg, handle)
	case "console":
		return NewConsole(handle), nil
	default:
		return nil, fmt.Errorf("unknown channel provider: %s", cfg.Provider)
	}
}
