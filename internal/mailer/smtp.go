// Package mailer submits report emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/jhillyerd/enmime"
)

// Sender sends an email with a single file attachment
type Sender interface {
	Send(ctx context.Context, subject, body, attachmentPath string) error
}

// SMTPSender implements Sender against a submission server using PLAIN auth
// over STARTTLS.
type SMTPSender struct {
	host      string
	port      int
	from      string
	password  string
	to        string
	tlsConfig *tls.Config
	logger    *slog.Logger
}

// NewSMTPSender creates an SMTPSender
func NewSMTPSender(host string, port int, from, password, to string, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		to:       to,
		logger:   logger,
	}
}

// SetTLSConfig overrides TLS settings for the STARTTLS handshake. Used in
// tests against servers with self-signed certificates.
func (s *SMTPSender) SetTLSConfig(cfg *tls.Config) {
	s.tlsConfig = cfg
}

// Send builds a MIME message with the file attached and submits it
func (s *SMTPSender) Send(ctx context.Context, subject, body, attachmentPath string) error {
	data, err := os.ReadFile(attachmentPath)
	if err != nil {
		return fmt.Errorf("failed to read attachment %s: %w", attachmentPath, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(attachmentPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	part, err := enmime.Builder().
		From("", s.from).
		To("", s.to).
		Subject(subject).
		Text([]byte(body)).
		AddAttachment(data, contentType, filepath.Base(attachmentPath)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build mime message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode mime message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	client, err := smtp.DialStartTLS(addr, s.tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer client.Close()

	if err := client.Auth(sasl.NewPlainClient("", s.from, s.password)); err != nil {
		return fmt.Errorf("smtp authentication failed: %w", err)
	}

	if err := client.SendMail(s.from, []string{s.to}, &buf); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}

	s.logger.Info("report email sent", "to", s.to, "attachment", filepath.Base(attachmentPath))
	return client.Quit()
}
