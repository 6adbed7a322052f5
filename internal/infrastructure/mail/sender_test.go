package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/domain/model"
)

type capturingEmailLogRepo struct {
	last *model.EmailLog
}

func (r *capturingEmailLogRepo) Insert(_ context.Context, entry *model.EmailLog) error {
	r.last = entry
	return nil
}

func newTestSender(logs *capturingEmailLogRepo) *Sender {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}
	return NewSender(cfg, logs, zap.NewNop())
}

func TestSender_Send(t *testing.T) {
	t.Run("delivered message is logged as sent", func(t *testing.T) {
		logs := &capturingEmailLogRepo{}
		s := newTestSender(logs)

		var delivered *gomail.Message
		s.dial = func(m *gomail.Message) error {
			delivered = m
			return nil
		}

		err := s.Send(context.Background(), "alice@example.com", "Reset your password", "<p>hi</p>")
		require.NoError(t, err)

		require.NotNil(t, delivered)
		assert.Equal(t, []string{"alice@example.com"}, delivered.GetHeader("To"))
		assert.Equal(t, []string{"Reset your password"}, delivered.GetHeader("Subject"))

		require.NotNil(t, logs.last)
		assert.Equal(t, model.EmailStatusSent, logs.last.Status)
		assert.Equal(t, "alice@example.com", logs.last.Recipient)
	})

	t.Run("relay failure is logged as failed", func(t *testing.T) {
		logs := &capturingEmailLogRepo{}
		s := newTestSender(logs)
		s.dial = func(*gomail.Message) error {
			return errors.New("connection refused")
		}

		err := s.Send(context.Background(), "alice@example.com", "Reset your password", "<p>hi</p>")
		require.Error(t, err)

		require.NotNil(t, logs.last)
		assert.Equal(t, model.EmailStatusFailed, logs.last.Status)
		assert.Contains(t, logs.last.Error, "connection refused")
	})

	t.Run("malformed recipient is rejected before dialing", func(t *testing.T) {
		logs := &capturingEmailLogRepo{}
		s := newTestSender(logs)
		dialed := false
		s.dial = func(*gomail.Message) error {
			dialed = true
			return nil
		}

		err := s.Send(context.Background(), "not-an-address", "Reset your password", "<p>hi</p>")
		require.Error(t, err)
		assert.False(t, dialed)
		assert.Nil(t, logs.last)
	})
}
