package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"saveit/internal/config"
	"saveit/internal/models"
)

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr error
	}{
		{"single", []string{"a@example.com"}, []string{"a@example.com"}, nil},
		{"trims and skips blanks", []string{" a@example.com ", "", "  "}, []string{"a@example.com"}, nil},
		{"named address", []string{"Bob <bob@example.com>"}, []string{"bob@example.com"}, nil},
		{"dedupes case-insensitively", []string{"a@example.com", "A@Example.com"}, []string{"a@example.com"}, nil},
		{"empty", nil, nil, ErrNoRecipients},
		{"only blanks", []string{" "}, nil, ErrNoRecipients},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecipients(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRecipients_Invalid(t *testing.T) {
	_, err := ParseRecipients([]string{"a@example.com", "not-an-address"})
	var invalid *InvalidRecipientError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want InvalidRecipientError", err)
	}
	if invalid.Address != "not-an-address" {
		t.Errorf("Address = %q", invalid.Address)
	}
}

func TestParseRecipients_TooMany(t *testing.T) {
	var in []string
	for i := 0; i <= MaxRecipients; i++ {
		in = append(in, fmt.Sprintf("u%d@example.com", i))
	}
	if _, err := ParseRecipients(in); !errors.Is(err, ErrTooManyRecipients) {
		t.Errorf("error = %v, want ErrTooManyRecipients", err)
	}
}

func newCapturingNotifier(cfg *config.Config) (*Notifier, *capturedSend) {
	n := NewNotifier(cfg)
	c := &capturedSend{}
	n.service.send = c.send
	return n, c
}

func TestNotifier_NotifyCollectionShared(t *testing.T) {
	sender := &models.User{Name: "Ann"}
	payload := &models.SharedPayload{Links: []models.Link{{URL: "https://a.com"}}}

	t.Run("disabled is a no-op", func(t *testing.T) {
		n, c := newCapturingNotifier(&config.Config{})
		if err := n.NotifyCollectionShared(context.Background(), []string{"bad"}, sender, payload, "https://x"); err != nil {
			t.Errorf("error = %v, want nil", err)
		}
		if c.calls != 0 {
			t.Error("disabled notifier must not send")
		}
	})

	t.Run("single recipient is addressed directly", func(t *testing.T) {
		n, c := newCapturingNotifier(enabledConfig())
		if err := n.NotifyCollectionShared(context.Background(), []string{"bob@example.com"}, sender, payload, "https://x"); err != nil {
			t.Fatalf("error = %v", err)
		}
		if c.calls != 1 {
			t.Fatalf("calls = %d, want 1", c.calls)
		}
		if !strings.Contains(c.data, "To: bob@example.com\r\n") {
			t.Error("expected recipient in To header")
		}
	})

	t.Run("multiple recipients are Bcc", func(t *testing.T) {
		n, c := newCapturingNotifier(enabledConfig())
		rcpts := []string{"bob@example.com", "carol@example.com"}
		if err := n.NotifyCollectionShared(context.Background(), rcpts, sender, payload, "https://x"); err != nil {
			t.Fatalf("error = %v", err)
		}
		if len(c.rcpts) != 2 {
			t.Errorf("rcpts = %v", c.rcpts)
		}
		if strings.Contains(c.data, "bob@example.com") || strings.Contains(c.data, "carol@example.com") {
			t.Error("recipients must not see each other")
		}
	})

	t.Run("invalid recipient", func(t *testing.T) {
		n, c := newCapturingNotifier(enabledConfig())
		err := n.NotifyCollectionShared(context.Background(), []string{"nope"}, sender, payload, "https://x")
		var invalid *InvalidRecipientError
		if !errors.As(err, &invalid) {
			t.Errorf("error = %v, want InvalidRecipientError", err)
		}
		if c.calls != 0 {
			t.Error("must not send on invalid recipients")
		}
	})
}
