// Package poller relays unread messages to the processor endpoint.
package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prasetyadi/graphmail-pipeline/internal/graph"
)

// Poller lists messages matching a filter and POSTs each one's transport
// JSON to the processor URL. It never marks messages read: a message stays
// eligible for the next tick until the processor has dealt with it.
type Poller struct {
	mail         graph.MailClient
	httpClient   *http.Client
	processorURL string
	filter       string
	apiKey       string
	logger       *slog.Logger
}

// New creates a Poller. apiKey may be empty when the processor endpoint is
// unsecured.
func New(mail graph.MailClient, processorURL, filter, apiKey string, logger *slog.Logger) *Poller {
	return &Poller{
		mail:         mail,
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		processorURL: processorURL,
		filter:       filter,
		apiKey:       apiKey,
		logger:       logger,
	}
}

// Run executes one poll tick and returns how many messages were relayed.
// Per-message relay failures are logged and skipped; they do not abort the
// remaining messages.
func (p *Poller) Run(ctx context.Context) (int, error) {
	messages, err := p.mail.ListMessages(ctx, p.filter)
	if err != nil {
		return 0, fmt.Errorf("failed to list messages: %w", err)
	}
	p.logger.Info("fetched unread messages", "count", len(messages))

	relayed := 0
	for _, msg := range messages {
		p.logger.Info("relaying message",
			"message_id", msg.ID,
			"subject", msg.Subject,
			"received", msg.ReceivedDateTime,
		)
		if err := p.relay(ctx, msg); err != nil {
			p.logger.Error("failed to relay message", "message_id", msg.ID, "error", err)
			continue
		}
		relayed++
	}
	return relayed, nil
}

// relay POSTs one message to the processor URL. Any status other than 200 is
// a failure.
func (p *Poller) relay(ctx context.Context, msg graph.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.processorURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("processor call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("processor returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
