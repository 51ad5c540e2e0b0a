package mailer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInvitationMessage(t *testing.T) {
	msg := InvitationMessage("Coeval", "ana@uni.edu", "Móviles", "482913")

	assert.Equal(t, "ana@uni.edu", msg.To)
	assert.Contains(t, msg.Subject, "Móviles")
	assert.Contains(t, msg.Text, "482913")
	assert.Contains(t, msg.HTML, "<strong>Móviles</strong>")
}

func TestSendgridMailer_Prepare(t *testing.T) {
	m := NewSendgridMailer("key", "Coeval", "no-reply@coeval.local")
	v3 := m.prepare(Message{To: "ana@uni.edu", Subject: "Hola", Text: "texto"})

	assert.Equal(t, "no-reply@coeval.local", v3.From.Address)
	if assert.Len(t, v3.Personalizations, 1) {
		assert.Equal(t, "[Coeval] Hola", v3.Personalizations[0].Subject)
		assert.Equal(t, "ana@uni.edu", v3.Personalizations[0].To[0].Address)
	}
	assert.Len(t, v3.Content, 1)
}

func TestMailers_RejectEmptyRecipient(t *testing.T) {
	assert.ErrorIs(t, NewLogMailer(zerolog.Nop()).Send(context.Background(), Message{}), ErrNoRecipient)
	assert.ErrorIs(t, NewSendgridMailer("k", "a", "f@x").Send(context.Background(), Message{}), ErrNoRecipient)
}
