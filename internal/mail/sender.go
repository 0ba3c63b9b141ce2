package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"golang.org/x/time/rate"
)

// Sender delivers one outbound message. The confirmation flow depends on this
// interface so tests can swap the transport out.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends plain-text mail over a relay. Outbound volume is capped by
// a token bucket so a signup storm cannot flood the relay.
type SMTPSender struct {
	addr    string
	from    string
	limiter *rate.Limiter
}

func NewSMTPSender(host string, port int, from string, perMinute int) *SMTPSender {
	if perMinute < 1 {
		perMinute = 1
	}
	return &SMTPSender{
		addr:    fmt.Sprintf("%s:%d", host, port),
		from:    from,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mail rate limit: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
