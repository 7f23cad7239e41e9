package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/loomreport"
	"github.com/eringen/loomreport/mailer"
)

// NewsletterStatus is printed after send-newsletter.
type NewsletterStatus struct {
	Status     string   `json:"status"`
	Message    string   `json:"message,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
	Posts      []string `json:"posts,omitempty"`
}

// Newsletter mails the weekly digest.
type Newsletter struct {
	Digests        DigestBuilder
	Gate           Moderator
	Mail           Sender
	From           string
	Recipients     []string
	UnsubscribeURL string
	Logger         zerolog.Logger
}

// Send builds the digest for the week before ref and mails it to every
// recipient.
func (n *Newsletter) Send(ctx context.Context, ref time.Time) (*NewsletterStatus, error) {
	if len(n.Recipients) == 0 {
		return nil, loomreport.Errorf(loomreport.KindMissingConfiguration, "send newsletter",
			"no valid recipient emails parsed from NEWSLETTER_RECIPIENTS")
	}

	d, err := n.Digests.Build(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !d.HasPosts {
		n.Logger.Info().Str("week", d.Stamp).Msg("no posts in digest window")
		return &NewsletterStatus{Status: "no-posts", Message: "No posts discovered for digest."}, nil
	}

	if _, err := n.Gate.AssertSafe(ctx, d.HTML, "newsletter-html"); err != nil {
		return nil, err
	}

	subject := mailer.DisplayName(n.From) + " Digest — " + d.WeekLabel
	err = n.Mail.Send(ctx, mailer.Message{
		From:    n.From,
		To:      n.Recipients,
		Subject: subject,
		HTML:    d.HTML,
		Text:    d.Text,
		Headers: map[string]string{"List-Unsubscribe": "<" + n.UnsubscribeURL + ">"},
	})
	if err != nil {
		return nil, err
	}
	n.Logger.Info().Str("subject", subject).Int("recipients", len(n.Recipients)).Msg("newsletter sent")

	titles := make([]string, 0, len(d.Posts))
	for _, p := range d.Posts {
		titles = append(titles, p.Title)
	}
	return &NewsletterStatus{
		Status:     "newsletter-sent",
		Subject:    subject,
		Recipients: n.Recipients,
		Posts:      titles,
	}, nil
}
