// Package notify mails import reports to the records office.
package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// maxListedRows caps how many failed rows are spelled out in one mail.
const maxListedRows = 50

// ImportSummary is what a report mail describes.
type ImportSummary struct {
	Entity model.EntityKind
	Actor  string
	Report *model.ImportReport
}

type Notifier interface {
	SendImportReport(ctx context.Context, summary ImportSummary) error
}

// Noop discards reports. Used when mail is not configured.
type Noop struct{}

func (Noop) SendImportReport(context.Context, ImportSummary) error { return nil }

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Mailer sends plain-text reports over SMTP.
type Mailer struct {
	from string
	to   string
	send func(*gomail.Message) error
}

func NewMailer(cfg Config) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Mailer{from: cfg.From, to: cfg.To, send: func(msg *gomail.Message) error { return dialer.DialAndSend(msg) }}
}

// newMailerWithSender lets tests capture messages instead of dialing.
func newMailerWithSender(from, to string, send func(*gomail.Message) error) *Mailer {
	return &Mailer{from: from, to: to, send: send}
}

func (m *Mailer) SendImportReport(ctx context.Context, summary ImportSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", Subject(summary))
	msg.SetBody("text/plain", Body(summary))

	if err := m.send(msg); err != nil {
		return fmt.Errorf("failed to send import report: %w", err)
	}
	return nil
}

func Subject(s ImportSummary) string {
	return fmt.Sprintf("[hospital-api] %s import: %d of %d rows failed",
		s.Entity, s.Report.FailedCount, s.Report.TotalRows)
}

func Body(s ImportSummary) string {
	r := s.Report
	var b strings.Builder
	fmt.Fprintf(&b, "Entity:     %s\n", s.Entity)
	fmt.Fprintf(&b, "Uploaded by: %s\n", s.Actor)
	fmt.Fprintf(&b, "Total rows: %d\n", r.TotalRows)
	fmt.Fprintf(&b, "Succeeded:  %d\n", r.SuccessCount)
	fmt.Fprintf(&b, "Failed:     %d\n\n", r.FailedCount)

	for i, rowErr := range r.Errors {
		if i == maxListedRows {
			fmt.Fprintf(&b, "... and %d more rows\n", len(r.Errors)-maxListedRows)
			break
		}
		fmt.Fprintf(&b, "Row %d: %s\n", rowErr.Row, strings.Join(rowErr.Errors, "; "))
	}
	return b.String()
}
