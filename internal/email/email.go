package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"saveit/internal/config"
)

const mimeBoundary = "SaveITBoundary7f3a9c"

// Message is one outgoing email. Bcc recipients receive the message but are
// never written into its headers.
type Message struct {
	To      []string
	Bcc     []string
	Subject string
	HTML    string
	Text    string
}

func (m *Message) recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Bcc))
	out = append(out, m.To...)
	return append(out, m.Bcc...)
}

// transport delivers raw message bytes to rcpts.
type transport func(ctx context.Context, rcpts []string, data []byte) error

// Service handles sending email.
type Service struct {
	cfg     *config.Config
	enabled bool
	send    transport
}

// NewService creates a new email service.
func NewService(cfg *config.Config) *Service {
	s := &Service{
		cfg:     cfg,
		enabled: cfg.IsEmailEnabled(),
	}
	s.send = s.sendSMTP

	if s.enabled {
		slog.Info("email sharing enabled", "smtp_host", cfg.SMTPHost, "smtp_port", cfg.SMTPPort, "tls", cfg.SMTPTLS)
	} else {
		slog.Info("email sharing disabled, SMTP not configured")
	}

	return s
}

// IsEnabled returns true if email is enabled.
func (s *Service) IsEnabled() bool {
	return s.enabled
}

// Send delivers msg. It is a no-op when email is disabled or msg has no
// recipients.
func (s *Service) Send(ctx context.Context, msg Message) error {
	if !s.enabled {
		return nil
	}
	rcpts := msg.recipients()
	if len(rcpts) == 0 {
		return nil
	}

	if err := s.send(ctx, rcpts, s.buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	slog.Debug("email sent", "recipients", len(rcpts), "subject", msg.Subject)
	return nil
}

func (s *Service) fromHeader() string {
	if s.cfg.SMTPFromName != "" {
		return fmt.Sprintf("%s <%s>", s.cfg.SMTPFromName, s.cfg.SMTPFrom)
	}
	return s.cfg.SMTPFrom
}

// buildMessage renders msg as a multipart/alternative MIME message.
func (s *Service) buildMessage(msg Message) []byte {
	var b strings.Builder

	to := "undisclosed-recipients:;"
	if len(msg.To) > 0 {
		to = strings.Join(msg.To, ", ")
	}

	fmt.Fprintf(&b, "From: %s\r\n", s.fromHeader())
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", mimeBoundary)
	b.WriteString("\r\n")

	writePart := func(contentType, body string) {
		if body == "" {
			return
		}
		fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
		fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
		b.WriteString("\r\n")
		b.WriteString(body)
		b.WriteString("\r\n")
	}
	writePart("text/plain", msg.Text)
	writePart("text/html", msg.HTML)

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}

// sanitizeHeader keeps user-controlled text from starting new headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// sendSMTP dials the configured server and delivers data. SMTPTLS selects
// implicit TLS ("tls", usually port 465), STARTTLS ("starttls", port 587)
// or plain SMTP ("none").
func (s *Service) sendSMTP(ctx context.Context, rcpts []string, data []byte) error {
	addr := net.JoinHostPort(s.cfg.SMTPHost, fmt.Sprint(s.cfg.SMTPPort))
	tlsConfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.SMTPTLS == "tls" {
		d := &tls.Dialer{Config: tlsConfig}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("SMTP dial failed: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP client failed: %w", err)
	}
	defer client.Close()

	if s.cfg.SMTPTLS == "starttls" {
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if s.cfg.SMTPUsername != "" && s.cfg.SMTPPassword != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("SMTP MAIL failed: %w", err)
	}
	for _, rcpt := range rcpts {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("SMTP RCPT failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("SMTP write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("SMTP close failed: %w", err)
	}

	return client.Quit()
}
