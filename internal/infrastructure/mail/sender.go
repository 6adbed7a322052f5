// Package mail sends transactional email over SMTP and records every
// attempt in email_logs.
package mail

import (
	"context"
	"fmt"
	"net/mail"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
	domainRepo "github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/repository"
)

// Sender delivers HTML email through the configured SMTP relay.
type Sender struct {
	cfg          config.SMTPConfig
	emailLogRepo domainRepo.EmailLogRepository
	logger       *zap.Logger

	// dial is swappable in tests.
	dial func(m *gomail.Message) error
}

// NewSender creates a new SMTP sender
func NewSender(cfg config.SMTPConfig, emailLogRepo domainRepo.EmailLogRepository, logger *zap.Logger) *Sender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &Sender{
		cfg:          cfg,
		emailLogRepo: emailLogRepo,
		logger:       logger,
		dial: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

// Send delivers one message and appends an email_logs row with the outcome.
// The log write is best-effort.
func (s *Sender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	sendErr := s.dial(m)

	record := &model.EmailLog{
		Recipient: to,
		Subject:   subject,
		Status:    model.EmailStatusSent,
	}
	if sendErr != nil {
		record.Status = model.EmailStatusFailed
		record.Error = sendErr.Error()
	}
	if err := s.emailLogRepo.Insert(ctx, record); err != nil {
		s.logger.Warn("Failed to record email log", zap.Error(err))
	}

	if sendErr != nil {
		s.logger.Error("Failed to send email",
			zap.String("recipient", to),
			zap.String("subject", subject),
			zap.Error(sendErr))
		return fmt.Errorf("failed to send email: %w", sendErr)
	}

	s.logger.Info("Email sent",
		zap.String("recipient", to),
		zap.String("subject", subject))
	return nil
}
