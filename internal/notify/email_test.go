package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendGridSender(t *testing.T) {
	t.Run("nil without API key", func(t *testing.T) {
		assert.Nil(t, NewSendGridSender(SendGridConfig{FromEmail: "noreply@quotenest.example.com"}, nil))
	})

	t.Run("defaults from name", func(t *testing.T) {
		s := NewSendGridSender(SendGridConfig{
			APIKey:    "SG.test",
			FromEmail: "noreply@quotenest.example.com",
		}, nil)
		require.NotNil(t, s)
		assert.Equal(t, "QuoteNest", s.fromName)
	})
}

func TestNewSMTPSenderRequiresFullConfig(t *testing.T) {
	complete := SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "user",
		Password: "pass",
	}

	assert.NotNil(t, NewSMTPSender(complete, "noreply@quotenest.example.com", nil))

	partial := complete
	partial.Host = ""
	assert.Nil(t, NewSMTPSender(partial, "noreply@quotenest.example.com", nil))

	assert.Nil(t, NewSMTPSender(complete, "", nil))
}

func TestStubEmailSender(t *testing.T) {
	s := NewStubEmailSender(nil)
	err := s.Send(context.Background(), EmailMessage{
		To:      "leads@quotenest.example.com",
		Subject: "test",
		Body:    "body",
	})
	assert.NoError(t, err)
}
