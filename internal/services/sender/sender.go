// Package sender содержит сервис отправки писем о решениях по заявкам.
// Сообщения приходят из очереди RabbitMQ и отправляются через SMTP транспорт.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// Service отправляет пользователям письма о решениях по их заявкам.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendDecisionNotification разбирает событие решения и отправляет письмо.
func (s *Service) SendDecisionNotification(body []byte) error {
	var message models.DecisionInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.UserEmail}
	var subject, bodyText string
	switch message.Status {
	case models.RequestStatusApproved:
		subject = "Your premium access request was approved"
		bodyText = fmt.Sprintf("Hello, %s!\n\nYour premium access request has been approved. "+
			"The premium dashboard is now unlocked for your account.", message.UserName)
	default:
		subject = "Your premium access request was declined"
		bodyText = fmt.Sprintf("Hello, %s!\n\nUnfortunately your premium access request was declined. "+
			"You can submit a new request at any time.", message.UserName)
	}
	if message.AdminNotes != "" {
		bodyText += "\n\nReviewer notes: " + message.AdminNotes
	}

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp: %w", err)
	}
	defer func() {
		if err := client.Quit(); err != nil {
			s.log.Warn("failed to quit smtp client", sl.Err(err))
		}
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write([]byte(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	s.log.Info("decision notification sent", slog.String("to", strings.Join(to, ";")))
	return nil
}
