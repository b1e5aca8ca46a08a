package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bowerhall/parley/internal/logger"
)

// whatsapp talks to a Business-API-style HTTP endpoint: outbound messages
// POST to the provider, inbound messages arrive on a webhook listener.
type whatsapp struct {
	endpoint   string
	apiKey     string
	listenAddr string
	handle     Handler
	client     *http.Client
}

type whatsappMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func newWhatsApp(cfg Config, handle Handler) (Channel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("whatsapp: api_key not set")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://graph.facebook.com/v17.0/messages"
	}

	addr := cfg.ListenAddr
	if addr == "" {
		addr = ":8066"
	}

	return &whatsapp{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		listenAddr: addr,
		handle:     handle,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (w *whatsapp) Name() string {
	return "whatsapp"
}

func (w *whatsapp) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", w.handleWebhook)

	server := &http.Server{
		Addr:         w.listenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("whatsapp webhook listening", "addr", w.listenAddr)
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

func (w *whatsapp) handleWebhook(rw http.ResponseWriter, r *http.Request) {
	userID, text, err := ParseWhatsAppWebhook(r)
	if err != nil {
		logger.Warn("bad whatsapp payload", "error", err)
		http.Error(rw, "bad payload", http.StatusBadRequest)
		return
	}

	response := w.handle(r.Context(), userID, text)

	if err := w.Send(userID, response); err != nil {
		logger.Error("whatsapp reply failed", "error", err, "user", userID)
	}

	rw.WriteHeader(http.StatusOK)
}

// ParseWhatsAppWebhook normalizes an inbound message payload to the
// (userID, text) pair the orchestrator consumes.
func ParseWhatsAppWebhook(r *http.Request) (string, string, error) {
	var msg whatsappMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		return "", "", err
	}

	if msg.Phone == "" {
		return "", "", fmt.Errorf("whatsapp: payload missing phone")
	}

	return "whatsapp:" + msg.Phone, msg.Message, nil
}

func (w *whatsapp) Send(recipientID, message string) error {
	payload, err := json.Marshal(whatsappMessage{
		Phone:   strings.TrimPrefix(recipientID, "whatsapp:"),
		Message: message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, w.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		logger.Error("whatsapp send failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp send failed: HTTP %d", resp.StatusCode)
	}

	return nil
}
