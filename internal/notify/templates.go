package notify

import (
	"errors"
	"fmt"
)

const (
	TypeWelcome    = "welcome"
	TypeReminder24 = "reminder_24h"
)

var ErrUnknownTemplate = errors.New("invalid messageType provided")

// Render builds the outbound message body for a template selector. An
// unrecognized selector fails here, before any delivery attempt.
func Render(messageType, name, dashboardLink string) (string, error) {
	switch messageType {
	case TypeWelcome:
		return fmt.Sprintf(`🎉 Olá, %s!
Seja bem-vindo(a) à Memory School Fotografia 📸✨

Seu cadastro foi concluído com sucesso!
Agora você já pode acessar a sua área do cliente para acompanhar os serviços, pacotes e fotos do(s) seu(s) filho(s).

👉 Acesse aqui: %s`, name, dashboardLink), nil
	case TypeReminder24:
		return fmt.Sprintf(`👋 Olá, %s!
Estamos muito felizes em tê-lo(a) conosco na Memory School Fotografia.

Se ainda não explorou sua área do cliente, aproveite para conhecer todos os recursos e novidades disponíveis.

✨ Acesse sua conta: %s`, name, dashboardLink), nil
	default:
		return "", ErrUnknownTemplate
	}
}
