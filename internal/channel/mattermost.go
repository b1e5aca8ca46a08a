package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bowerhall/parley/internal/logger"
)

// mattermost pairs an incoming webhook (for Send) with a small HTTP
// listener for Mattermost outgoing webhooks. Replies to inbound posts go
// back in the webhook response body.
type mattermost struct {
	webhookURL string
	listenAddr string
	handle     Handler
	client     *http.Client
}

type mattermostPost struct {
	UserID  string `json:"user_id"`
	Text    string `json:"text"`
	Channel string `json:"channel_name"`
}

func newMattermost(cfg Config, handle Handler) (Channel, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("mattermost: webhook_url not set")
	}

	addr := cfg.ListenAddr
	if addr == "" {
		addr = ":8065"
	}

	return &mattermost{
		webhookURL: cfg.WebhookURL,
		listenAddr: addr,
		handle:     handle,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (m *mattermost) Name() string {
	return "mattermost"
}

func (m *mattermost) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", m.handleWebhook)

	server := &http.Server{
		Addr:         m.listenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mattermost webhook listening", "addr", m.listenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

func (m *mattermost) handleWebhook(w http.ResponseWriter, r *http.Request) {
	userID, text, err := ParseMattermostWebhook(r)
	if err != nil {
		logger.Warn("bad mattermost payload", "error", err)
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	response := m.handle(r.Context(), userID, text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"text": response})
}

// ParseMattermostWebhook normalizes an outgoing-webhook request to the
// (userID, text) pair the orchestrator consumes.
func ParseMattermostWebhook(r *http.Request) (string, string, error) {
	var post mattermostPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		return "", "", err
	}

	if post.UserID == "" {
		return "", "", fmt.Errorf("mattermost: payload missing user_id")
	}

	return "mattermost:" + post.UserID, post.Text, nil
}

func (m *mattermost) Send(recipientID, message string) error {
	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}

	resp, err := m.client.Post(m.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		logger.Error("mattermost send failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mattermost send failed: HTTP %d", resp.StatusCode)
	}

	return nil
}
