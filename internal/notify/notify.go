package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/martomarzo/shutupandtakemythings/internal/model"
)

// DefaultPriority is the message priority sent upstream.
const DefaultPriority = 5

var (
	ErrNotConfigured = errors.New("notification service not configured")
	ErrUpstream      = errors.New("failed to send notification")
)

// Notifier forwards buyer messages to a push notification service and
// exposes the public contact settings used by the storefront.
type Notifier struct {
	// URL receives the JSON message. Empty disables Send.
	URL   string
	Token string

	NtfyURL        string
	WhatsAppNumber string

	Client *http.Client
}

// PublicConfig is the contact configuration shown to visitors.
type PublicConfig struct {
	NtfyURL        string `json:"ntfyUrl"`
	WhatsAppNumber string `json:"whatsappNumber"`
}

type message struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

// PublicConfig returns the settings visitors need to contact the seller.
func (n *Notifier) PublicConfig() PublicConfig {
	return PublicConfig{NtfyURL: n.NtfyURL, WhatsAppNumber: n.WhatsAppNumber}
}

// Send posts a message to the configured notification service.
func (n *Notifier) Send(ctx context.Context, title, text string) error {
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	if title == "" || text == "" {
		return model.NewValidationError("title and message required")
	}
	if n.URL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(message{Title: title, Message: text, Priority: DefaultPriority})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.Token != "" {
		req.Header.Set("X-Gotify-Key", n.Token)
	}

	resp, err := n.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: upstream returned %d", ErrUpstream, resp.StatusCode)
	}

	slog.Info("notification sent", "title", title)
	return nil
}

func (n *Notifier) client() *http.Client {
	if n.Client != nil {
		return n.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}
