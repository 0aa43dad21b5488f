// Package prompt holds the campaign text: the persona instruction sent to the
// AI providers, the canned replies the engine short-circuits with, and the
// distrust keyword set. Everything is templated from the live configuration so
// a site or name change applies to the next message.
package prompt

import (
	"fmt"
	"strings"

	"github.com/XxLosHermanosxX/Sushibot/internal/config"
)

// ObjectionDistrust is the only objection category handled so far. Each
// category fires its canned rebuttal at most once per conversation.
const ObjectionDistrust = "desconfianca"

var distrustKeywords = []string{
	"golpe", "confiável", "fake", "pix antes", "site seguro", "fraude",
	"verdade", "mentira", "enganar", "roubo", "falso",
}

// DetectsDistrust reports whether the text hits the distrust keyword set.
// Matching is case-insensitive substring search, not tokenized.
func DetectsDistrust(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range distrustKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// System is the persona instruction sent with every generation request.
func System(cfg config.Config) string {
	return fmt.Sprintf(`Você é SORA 🍣, atendente virtual do %[1]s.

Missão:
Induzir o cliente a finalizar o pedido exclusivamente pelo site:
%[2]s

Regras fixas:
- Nunca aceite pedidos fora do site
- Nunca prometa pagamento na entrega
- Sempre mencionar Pix e cartão
- Sempre transmitir segurança e profissionalismo
- Nunca repetir a mesma explicação de forma idêntica
- Respostas curtas e diretas (máximo 3 linhas quando possível)

Contexto do negócio:
- 4 unidades físicas em Curitiba
- Entrega em toda Curitiba e região
- Cardápio completo apenas no site
- Aceitamos Pix e cartão

Estilo:
- Respostas humanas, curtas e claras
- Tom calmo e confiável
- Emojis com moderação (máximo 2 por mensagem)
- Seja simpático mas profissional

IMPORTANTE: Sempre direcione para o site %[2]s para qualquer pedido ou dúvida sobre cardápio.`,
		cfg.BusinessName, cfg.SiteURL)
}

// Welcome is the fixed greeting for the first customer message of a
// conversation. It bypasses the AI entirely.
func Welcome(cfg config.Config) string {
	return fmt.Sprintf(`Oi! 😊 Seja bem-vindo ao %s 🍣

👉 Nosso cardápio completo e os pedidos são feitos pelo site:
%s

Aceitamos Pix e cartão 💳
Entregamos em toda Curitiba e região, com 4 unidades físicas.

Se quiser, posso te ajudar a escolher 😉`, cfg.BusinessName, cfg.SiteURL)
}

// DistrustReply is the canned rebuttal for the distrust objection.
func DistrustReply(cfg config.Config) string {
	return fmt.Sprintf(`Entendo a preocupação 😊
Trabalhamos com 4 unidades físicas em Curitiba, e todos os pedidos são registrados pelo site oficial:
👉 %s

O pagamento é por Pix ou cartão, com confirmação imediata 🍣`, cfg.SiteURL)
}

// Fallback is returned whenever reply generation fails for any reason.
func Fallback(cfg config.Config) string {
	return fmt.Sprintf("Desculpe, tive um problema técnico. Por favor, acesse nosso site: %s 🍣", cfg.SiteURL)
}
