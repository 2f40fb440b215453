package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	msg, err := Render(TypeWelcome, "Ana", "http://portal.test/client/dashboard")
	require.NoError(t, err)
	require.Contains(t, msg, "Olá, Ana!")
	require.Contains(t, msg, "Memory School Fotografia")
	require.Contains(t, msg, "cadastro foi concluído com sucesso")
	require.Contains(t, msg, "http://portal.test/client/dashboard")
}

func TestRender_Reminder(t *testing.T) {
	msg, err := Render(TypeReminder24, "Ana", "http://portal.test/client/dashboard")
	require.NoError(t, err)
	require.Contains(t, msg, "Olá, Ana!")
	require.Contains(t, msg, "Acesse sua conta")
	require.Contains(t, msg, "http://portal.test/client/dashboard")
}

func TestRender_UnknownType(t *testing.T) {
	_, err := Render("promo_blast", "Ana", "http://x")
	require.ErrorIs(t, err, ErrUnknownTemplate)
}
