package auth

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// SMTPNotifier delivers one time codes by email over plain SMTP with
// optional AUTH. Connection parameters are validated at construction so
// a misconfigured mailer fails at startup instead of on the first login.
type SMTPNotifier struct {
	cfg    SMTPConfig
	from   string
	logger Logger
	// send is swapped in tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

type SMTPNotifierOption func(*SMTPNotifier)

func WithSMTPLogger(logger Logger) SMTPNotifierOption {
	return func(n *SMTPNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

func NewSMTPNotifier(cfg SMTPConfig, opts ...SMTPNotifierOption) (*SMTPNotifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	notifier := &SMTPNotifier{
		cfg:    cfg,
		from:   cfg.GetSender(),
		logger: defLogger{},
		send:   smtp.SendMail,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(notifier)
		}
	}

	return notifier, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryInternal, "notification canceled")
	default:
	}

	var auth smtp.Auth
	if n.cfg.GetUsername() != "" {
		auth = smtp.PlainAuth("", n.cfg.GetUsername(), n.cfg.GetPassword(), n.cfg.GetHost())
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.GetHost(), n.cfg.GetPort())
	msg := buildMailMessage(n.from, to, subject, body)

	if err := n.send(addr, auth, n.from, []string{to}, msg); err != nil {
		n.logger.Error("SMTPNotifier delivery failed", "to", to, "error", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to deliver notification")
	}

	n.logger.Debug("SMTPNotifier delivered message", "to", to, "subject", subject)
	return nil
}

func buildMailMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// ConsoleNotifier prints messages to stdout. It stands in for a real
// mailer in local development and examples.
type ConsoleNotifier struct{}

func (ConsoleNotifier) Send(_ context.Context, to, subject, body string) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", to)
	fmt.Printf("subject: %s\n", subject)
	fmt.Printf("body: %s\n", body)
	return nil
}
