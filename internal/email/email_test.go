package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"saveit/internal/config"
)

func enabledConfig() *config.Config {
	return &config.Config{
		SMTPEnabled:  true,
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPFrom:     "noreply@example.com",
		SMTPFromName: "SaveIT",
		SMTPTLS:      "starttls",
		SiteTitle:    "SaveIT",
		BaseURL:      "https://saveit.example.com",
	}
}

type capturedSend struct {
	calls int
	rcpts []string
	data  string
	err   error
}

func (c *capturedSend) send(_ context.Context, rcpts []string, data []byte) error {
	c.calls++
	c.rcpts = rcpts
	c.data = string(data)
	return c.err
}

func newCapturingService(cfg *config.Config) (*Service, *capturedSend) {
	svc := NewService(cfg)
	c := &capturedSend{}
	svc.send = c.send
	return svc, c
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		wantEnabled bool
	}{
		{
			name:        "enabled when all SMTP settings configured",
			cfg:         enabledConfig(),
			wantEnabled: true,
		},
		{
			name: "disabled when SMTPEnabled is false",
			cfg: &config.Config{
				SMTPHost: "smtp.example.com",
				SMTPFrom: "noreply@example.com",
			},
			wantEnabled: false,
		},
		{
			name: "disabled when SMTPHost is empty",
			cfg: &config.Config{
				SMTPEnabled: true,
				SMTPFrom:    "noreply@example.com",
			},
			wantEnabled: false,
		},
		{
			name: "disabled when SMTPFrom is empty",
			cfg: &config.Config{
				SMTPEnabled: true,
				SMTPHost:    "smtp.example.com",
			},
			wantEnabled: false,
		},
		{
			name:        "disabled with empty config",
			cfg:         &config.Config{},
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.cfg)
			if svc.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", svc.IsEnabled(), tt.wantEnabled)
			}
		})
	}
}

func TestService_Send_Disabled(t *testing.T) {
	svc, c := newCapturingService(&config.Config{})

	if err := svc.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "x"}); err != nil {
		t.Errorf("Send() error = %v, want nil", err)
	}
	if c.calls != 0 {
		t.Errorf("transport called %d times, want 0", c.calls)
	}
}

func TestService_Send_NoRecipients(t *testing.T) {
	svc, c := newCapturingService(enabledConfig())

	if err := svc.Send(context.Background(), Message{Subject: "x"}); err != nil {
		t.Errorf("Send() error = %v, want nil", err)
	}
	if c.calls != 0 {
		t.Errorf("transport called %d times, want 0", c.calls)
	}
}

func TestService_Send_Message(t *testing.T) {
	svc, c := newCapturingService(enabledConfig())

	err := svc.Send(context.Background(), Message{
		To:      []string{"alice@example.com"},
		Subject: "Hello\r\nBcc: evil@example.com",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(c.rcpts) != 1 || c.rcpts[0] != "alice@example.com" {
		t.Errorf("rcpts = %v", c.rcpts)
	}

	for _, want := range []string{
		"From: SaveIT <noreply@example.com>\r\n",
		"To: alice@example.com\r\n",
		"Subject: Hello  Bcc: evil@example.com\r\n",
		"Content-Type: multipart/alternative; boundary=\"" + mimeBoundary + "\"",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"--" + mimeBoundary + "--",
	} {
		if !strings.Contains(c.data, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestService_Send_BccHidden(t *testing.T) {
	svc, c := newCapturingService(enabledConfig())

	err := svc.Send(context.Background(), Message{
		Bcc:     []string{"a@example.com", "b@example.com"},
		Subject: "x",
		Text:    "body",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(c.rcpts) != 2 {
		t.Errorf("rcpts = %v, want 2", c.rcpts)
	}
	if strings.Contains(c.data, "a@example.com") || strings.Contains(c.data, "b@example.com") {
		t.Error("Bcc recipients must not appear in the message")
	}
	if !strings.Contains(c.data, "To: undisclosed-recipients:;\r\n") {
		t.Error("expected undisclosed-recipients To header")
	}
	if strings.Contains(c.data, "text/html") {
		t.Error("empty HTML body should not produce a part")
	}
}

func TestService_Send_TransportError(t *testing.T) {
	svc, c := newCapturingService(enabledConfig())
	boom := errors.New("connection refused")
	c.err = boom

	err := svc.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "x"})
	if !errors.Is(err, boom) {
		t.Errorf("Send() error = %v, want wrapping %v", err, boom)
	}
}

func TestService_FromHeader(t *testing.T) {
	cfg := enabledConfig()
	cfg.SMTPFromName = ""
	svc := NewService(cfg)

	if got := svc.fromHeader(); got != "noreply@example.com" {
		t.Errorf("fromHeader() = %q", got)
	}
}
