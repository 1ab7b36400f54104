// Package mailer sends lead notifications to the sales inbox.
package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"hl-portal/internal/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier delivers lead notifications. Callers treat failures as non-fatal.
type Notifier interface {
	NotifyVisit(ctx context.Context, v *models.Visit) error
	NotifyContact(ctx context.Context, c *models.Contact) error
	SendDigest(ctx context.Context, since time.Time, visits []models.Visit) error
}

// Nop discards every notification. It is used when SMTP is not configured.
type Nop struct{}

func (Nop) NotifyVisit(context.Context, *models.Visit) error { return nil }
func (Nop) NotifyContact(context.Context, *models.Contact) error { return nil }
func (Nop) SendDigest(context.Context, time.Time, []models.Visit) error { return nil }

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Options configures an SMTP notifier.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
	CC       []string
}

// SMTP sends one message per notification. There is no retry or queue:
// a failed send is returned to the caller and dropped.
type SMTP struct {
	sender Sender
	from   string
	to     string
	cc     []string
	logger *zap.Logger
}

// New returns an SMTP notifier, or Nop when host or recipient is missing.
func New(opts Options, logger *zap.Logger) Notifier {
	if opts.Host == "" || opts.To == "" {
		logger.Info("SMTP not configured, lead notifications disabled")
		return Nop{}
	}
	return NewWithSender(gomail.NewDialer(opts.Host, opts.Port, opts.User, opts.Password), opts, logger)
}

// NewWithSender builds an SMTP notifier over an existing sender.
func NewWithSender(sender Sender, opts Options, logger *zap.Logger) *SMTP {
	from := opts.From
	if from == "" {
		from = opts.User
	}
	if from == "" {
		from = opts.To
	}
	return &SMTP{sender: sender, from: from, to: opts.To, cc: opts.CC, logger: logger}
}

func (s *SMTP) message(subject, replyTo, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	if len(s.cc) > 0 {
		m.SetHeader("Cc", s.cc...)
	}
	if replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *SMTP) send(ctx context.Context, m *gomail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *SMTP) NotifyVisit(ctx context.Context, v *models.Visit) error {
	body := table([][2]string{
		{"Name", v.Name},
		{"Email", v.Email},
		{"Phone", v.Phone},
		{"Property", v.PropertyName},
		{"Date", v.Date},
		{"Time", v.Time},
		{"Message", v.Message},
	})
	subject := "New visit request"
	if v.PropertyName != "" {
		subject += ": " + v.PropertyName
	}
	return s.send(ctx, s.message(subject, v.Email, body))
}

func (s *SMTP) NotifyContact(ctx context.Context, c *models.Contact) error {
	body := table([][2]string{
		{"Name", c.Name},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Subject", c.Subject},
		{"Message", c.Message},
	})
	subject := "New contact message"
	if c.Subject != "" {
		subject += ": " + c.Subject
	}
	return s.send(ctx, s.message(subject, c.Email, body))
}

// SendDigest mails the visits booked since the given time. Nothing is sent for an empty list.
func (s *SMTP) SendDigest(ctx context.Context, since time.Time, visits []models.Visit) error {
	if len(visits) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%d visit request(s) since %s</p>", len(visits), since.Format("2006-01-02 15:04"))
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Name</th><th>Email</th><th>Phone</th><th>Property</th><th>Date</th><th>Time</th></tr>")
	for _, v := range visits {
		b.WriteString("<tr>")
		for _, cell := range []string{v.Name, v.Email, v.Phone, v.PropertyName, v.Date, v.Time} {
			b.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	subject := fmt.Sprintf("Visit digest: %d new request(s)", len(visits))
	return s.send(ctx, s.message(subject, "", b.String()))
}

func table(rows [][2]string) string {
	var b strings.Builder
	b.WriteString("<table>")
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>",
			row[0], strings.ReplaceAll(html.EscapeString(row[1]), "\n", "<br>"))
	}
	b.WriteString("</table>")
	return b.String()
}
