// Package mailer delivers the newsletter through an email provider.
package mailer

import (
	"context"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/eringen/loomreport"
)

const sendPath = "/v3/mail/send"

// Message is one outgoing email. Each address in To receives its own copy.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
	Headers map[string]string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// DisplayName returns the name part of an RFC 5322 sender such as
// "TheLoomReport <digest@theloomreport.com>".
func DisplayName(from string) string {
	name, _, _ := strings.Cut(from, "<")
	return strings.Trim(strings.TrimSpace(name), `"`)
}

// SendGrid sends mail through the SendGrid v3 API.
type SendGrid struct {
	client *sendgrid.Client
	host   string
	logger zerolog.Logger
}

// Option configures a SendGrid sender.
type Option func(*SendGrid)

// WithHost points the client at a different API host.
func WithHost(host string) Option {
	return func(s *SendGrid) {
		s.host = host
	}
}

// WithLogger sets the sender's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *SendGrid) {
		s.logger = l
	}
}

// NewSendGrid returns a SendGrid sender for apiKey.
func NewSendGrid(apiKey string, opts ...Option) (*SendGrid, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, loomreport.Errorf(loomreport.KindMissingConfiguration, "sendgrid", "SENDGRID_API_KEY is required to send the newsletter")
	}
	s := &SendGrid{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.host == "" {
		s.client = sendgrid.NewSendClient(apiKey)
	} else {
		req := sendgrid.GetRequest(apiKey, sendPath, s.host)
		req.Method = "POST"
		s.client = &sendgrid.Client{Request: req}
	}
	return s, nil
}

// Send delivers msg with one personalization per recipient so recipients do
// not see each other.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return loomreport.Errorf(loomreport.KindMisuse, "send mail", "no recipients")
	}
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return loomreport.NewError(loomreport.KindMisuse, "parse sender", err)
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(from.Name, from.Address))
	m.Subject = msg.Subject
	for _, to := range msg.To {
		p := sgmail.NewPersonalization()
		p.AddTos(sgmail.NewEmail("", to))
		m.AddPersonalizations(p)
	}
	if msg.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	for k, v := range msg.Headers {
		m.SetHeader(k, v)
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return loomreport.NewError(loomreport.KindUpstream, "sendgrid send", err)
	}
	if resp.StatusCode >= 300 {
		return loomreport.Errorf(loomreport.KindUpstream, "sendgrid send", "status %d: %s", resp.StatusCode, resp.Body)
	}

	s.logger.Info().
		Int("recipients", len(msg.To)).
		Int("status", resp.StatusCode).
		Msg("newsletter dispatched")
	return nil
}
