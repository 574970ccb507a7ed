package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is a plain text email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

type Service interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPService struct {
	from   string
	dialer Dialer
}

func NewSMTPService(cfg Config) *SMTPService {
	return NewSMTPServiceWithDialer(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func NewSMTPServiceWithDialer(from string, dialer Dialer) *SMTPService {
	return &SMTPService{from: from, dialer: dialer}
}

func (s *SMTPService) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("email recipient is required")
	}

	m := s.build(msg)

	// gomail has no context support; run the dial in the background and
	// stop waiting when the context ends.
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SMTPService) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}
