package service

import (
	"context"
	"fmt"

	"fd-rental-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

type sendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) EmailSender {
	return &sendGridSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *sendGridSender) SendEmail(ctx context.Context, to []string, subject, plainText, html string) error {
	if len(to) == 0 {
		return nil
	}
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	message.Subject = subject

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/plain", plainText))
	if html != "" {
		message.AddContent(mail.NewContent("text/html", html))
	}

	logger.ExternalServiceCall(ctx, "sendgrid", "send", "recipients", len(to), "subject", subject)
	response, err := sendgrid.NewSendClient(s.apiKey).Send(message)
	if err != nil {
		err = fmt.Errorf("failed to send email via sendgrid: %w", err)
		logger.ExternalServiceResult(ctx, "sendgrid", "send", err)
		return err
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult(ctx, "sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult(ctx, "sendgrid", "send", nil, "status", response.StatusCode)
	return nil
}

type smtpSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(host string, port int, username, password, from string) EmailSender {
	return &smtpSender{host: host, port: port, username: username, password: password, from: from}
}

func (s *smtpSender) SendEmail(ctx context.Context, to []string, subject, plainText, html string) error {
	if len(to) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainText)
	if html != "" {
		m.AddAlternative("text/html", html)
	}

	logger.ExternalServiceCall(ctx, "smtp", "send", "host", s.host, "recipients", len(to))
	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		err = fmt.Errorf("failed to send email via smtp: %w", err)
		logger.ExternalServiceResult(ctx, "smtp", "send", err)
		return err
	}
	logger.ExternalServiceResult(ctx, "smtp", "send", nil)
	return nil
}

// logSender stands in for a channel that is not configured. Messages are
// logged and dropped.
type logSender struct {
	channel string
}

func NewLogEmailSender() EmailSender { return &logSender{channel: "email"} }

func NewLogSMSSender() SMSSender { return &logSender{channel: "sms"} }

func (s *logSender) SendEmail(ctx context.Context, to []string, subject, plainText, html string) error {
	logger.InfoContext(ctx, "Email channel not configured, message dropped", "to", to, "subject", subject)
	return nil
}

func (s *logSender) SendSMS(ctx context.Context, to, body string) error {
	logger.InfoContext(ctx, "SMS channel not configured, message dropped", "to", to)
	return nil
}
