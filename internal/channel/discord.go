package channel

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/bowerhall/parley/internal/logger"
)

type discord struct {
	session *discordgo.Session
	handle  Handler
	ctx     context.Context
}

func newDiscord(token string, handle Handler) (Channel, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	d := &discord{session: session, handle: handle}
	session.AddHandler(d.handleMessage)

	return d, nil
}

func (d *discord) Name() string {
	return "discord"
}

func (d *discord) Start(ctx context.Context) error {
	d.ctx = ctx

	if err := d.session.Open(); err != nil {
		return err
	}

	<-ctx.Done()
	return d.session.Close()
}

func (d *discord) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	userID := fmt.Sprintf("discord:%s", m.ChannelID)
	logger.Info("message received", "channel", "discord", "user", userID, "from", m.Author.Username)

	response := d.handle(d.ctx, userID, m.Content)

	if _, err := s.ChannelMessageSendReply(m.ChannelID, response, m.Reference()); err != nil {
		logger.Error("discord reply failed", "error", err, "user", userID)
	}
}

func (d *discord) Send(recipientID, message string) error {
	channelID := strings.TrimPrefix(recipientID, "discord:")

	_, err := d.session.ChannelMessageSend(channelID, message)
	if err != nil {
		logger.Error("discord send failed", "error", err, "channelID", channelID)
	}

	return err
}
