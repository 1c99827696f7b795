// Package notification delivers provisioning tokens to operators. Delivery
// is best effort: with SMTP configured the message goes out by mail,
// otherwise it is logged and the receipt names the missing configuration so
// the caller can show what to fix.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	apperrors "github.com/leadgrid/leadgrid/internal/errors"
)

// Transport values reported in receipts.
const (
	TransportEmail = "email"
	TransportLog   = "log"
)

// Message is one notification to deliver.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Receipt reports how a message was delivered. MissingConfig is empty for
// real transports; the logging fallback lists the configuration keys that
// would turn it into one.
type Receipt struct {
	Transport     string
	MissingConfig []string
}

// Dispatcher delivers notifications.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) (*Receipt, error)
}

// SMTPConfig carries the relay settings for the SMTP dispatcher.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// smtpDispatcher sends mail through a relay, falling back to logging when
// the relay is not configured.
type smtpDispatcher struct {
	config SMTPConfig
	logger *slog.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewDispatcher creates a Dispatcher for the given SMTP settings. Host and
// From are required for the email transport; anything less falls back to
// logging.
func NewDispatcher(config SMTPConfig, logger *slog.Logger) Dispatcher {
	return &smtpDispatcher{config: config, logger: logger, send: smtp.SendMail}
}

func (d *smtpDispatcher) Dispatch(ctx context.Context, msg Message) (*Receipt, error) {
	if missing := d.missingConfig(); len(missing) > 0 {
		// The log line is the delivery channel here, so the body goes in.
		d.logger.Info("notification logged, smtp not configured",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
			slog.String("body", msg.Body),
			slog.Any("missing_config", missing),
		)
		return &Receipt{Transport: TransportLog, MissingConfig: missing}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "notification cancelled")
	}

	var auth smtp.Auth
	if d.config.Username != "" {
		auth = smtp.PlainAuth("", d.config.Username, d.config.Password, d.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", d.config.Host, d.config.Port)
	payload := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		d.config.From, msg.To, msg.Subject, msg.Body,
	)

	if err := d.send(addr, auth, d.config.From, []string{msg.To}, []byte(payload)); err != nil {
		return nil, apperrors.Wrap(err, "failed to send notification mail")
	}

	return &Receipt{Transport: TransportEmail}, nil
}

func (d *smtpDispatcher) missingConfig() []string {
	var missing []string
	if d.config.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if d.config.From == "" {
		missing = append(missing, "SMTP_FROM")
	}
	return missing
}
