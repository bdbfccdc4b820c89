package notification

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// EmailSender memisahkan isi email dari transportnya; consumer memakai
// interface ini supaya test tidak butuh server SMTP.
type EmailSender interface {
	SendAbsenceRequested(to, recipientName, requesterName, reference, startDate, endDate string) error
	SendAbsenceDecided(to, recipientName, reference, status string) error
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type SMTPEmailSender struct {
	config EmailConfig
}

func NewSMTPEmailSender(config EmailConfig) *SMTPEmailSender {
	return &SMTPEmailSender{config: config}
}

func (s *SMTPEmailSender) SendAbsenceRequested(to, recipientName, requesterName, reference, startDate, endDate string) error {
	subject := fmt.Sprintf("Absence request %s awaiting review", reference)
	body := fmt.Sprintf(`<html><body>
		<p>Hi %s,</p>
		<p><strong>%s</strong> requested time off from <strong>%s</strong> to <strong>%s</strong>.</p>
		<p>Request reference: %s. Please review it in the dashboard.</p>
	</body></html>`, recipientName, requesterName, startDate, endDate, reference)
	return s.sendEmail(to, subject, body)
}

func (s *SMTPEmailSender) SendAbsenceDecided(to, recipientName, reference, status string) error {
	subject := fmt.Sprintf("Absence request %s %s", reference, status)
	body := fmt.Sprintf(`<html><body>
		<p>Hi %s,</p>
		<p>Your absence request <strong>%s</strong> has been <strong>%s</strong>.</p>
		<p>Open the dashboard for the details.</p>
	</body></html>`, recipientName, reference, status)
	return s.sendEmail(to, subject, body)
}

func (s *SMTPEmailSender) sendEmail(to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	// Tanpa kredensial (MailHog/dev) kirim tanpa auth
	var auth smtp.Auth
	if s.config.User != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}

// NoopEmailSender dipakai saat SMTP tidak dikonfigurasi; notifikasi tetap
// tersimpan, hanya emailnya yang tidak terkirim.
type NoopEmailSender struct {
	logger *zap.Logger
}

func NewNoopEmailSender(logger *zap.Logger) *NoopEmailSender {
	return &NoopEmailSender{logger: logger.Named("notification.email.noop")}
}

func (s *NoopEmailSender) SendAbsenceRequested(to, recipientName, requesterName, reference, startDate, endDate string) error {
	s.logger.Debug("smtp not configured, skipping absence requested email", zap.String("to", to))
	return nil
}

func (s *NoopEmailSender) SendAbsenceDecided(to, recipientName, reference, status string) error {
	s.logger.Debug("smtp not configured, skipping absence decided email", zap.String("to", to))
	return nil
}
