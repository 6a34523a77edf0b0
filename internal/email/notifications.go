package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"saveit/internal/config"
	"saveit/internal/models"
)

// MaxRecipients caps the recipients of a single share.
const MaxRecipients = 20

// Recipient list errors returned by ParseRecipients.
var (
	ErrNoRecipients      = errors.New("no recipients")
	ErrTooManyRecipients = errors.New("more than 20 recipients")
)

// InvalidRecipientError reports an address that does not parse.
type InvalidRecipientError struct {
	Address string
}

func (e *InvalidRecipientError) Error() string {
	return fmt.Sprintf("invalid email address %q", e.Address)
}

// Notifier sends share notifications.
type Notifier struct {
	service   *Service
	templates *Templates
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
	}
}

// IsEnabled reports whether notifications are actually delivered.
func (n *Notifier) IsEnabled() bool {
	return n.service.IsEnabled()
}

// ParseRecipients trims, validates and de-duplicates addresses.
func ParseRecipients(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		addr, err := mail.ParseAddress(r)
		if err != nil {
			return nil, &InvalidRecipientError{Address: r}
		}
		key := strings.ToLower(addr.Address)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr.Address)
	}
	if len(out) == 0 {
		return nil, ErrNoRecipients
	}
	if len(out) > MaxRecipients {
		return nil, ErrTooManyRecipients
	}
	return out, nil
}

// NotifyCollectionShared emails the shared collection to recipients. A
// single recipient is addressed directly; several are sent as Bcc so they
// don't see each other. It does nothing when email is disabled.
func (n *Notifier) NotifyCollectionShared(ctx context.Context, recipients []string, sender *models.User, payload *models.SharedPayload, shareURL string) error {
	if !n.service.IsEnabled() {
		return nil
	}

	rcpts, err := ParseRecipients(recipients)
	if err != nil {
		return err
	}

	subject, htmlBody, textBody := n.templates.CollectionShared(sender, payload, shareURL)
	msg := Message{Subject: subject, HTML: htmlBody, Text: textBody}
	if len(rcpts) == 1 {
		msg.To = rcpts
	} else {
		msg.Bcc = rcpts
	}

	if err := n.service.Send(ctx, msg); err != nil {
		slog.Error("failed to email shared collection", "sender_id", sender.ID, "recipients", len(rcpts), "error", err)
		return err
	}
	slog.Info("shared collection emailed", "sender_id", sender.ID, "recipients", len(rcpts))
	return nil
}
