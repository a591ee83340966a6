package responder

import (
	"fmt"
	"strings"

	"github.com/nmoreira/supportchat/internal/model/chat"
)

// historyLimit caps how many recent turns are replayed into the prompt.
const historyLimit = 10

// metacognitivePreamble instructs the model to reason internally without
// showing the process. The knowledge variant points the verification step at
// the supplied knowledge block.
func metacognitivePreamble(company string, withKnowledge bool) string {
	verify := "Verifica si tienes toda la información necesaria para responder adecuadamente."
	if withKnowledge {
		verify = "Verifica si tienes toda la información necesaria en la base de conocimientos proporcionada."
	}

	return fmt.Sprintf(`Eres un asistente virtual para %s. Utiliza el siguiente proceso de pensamiento INTERNO para generar respuestas precisas, pero NO MUESTRES este proceso al usuario:

1. Interpreta exactamente qué está pidiendo el usuario.
2. %s
3. Identifica posibles ambigüedades o riesgos de proporcionar información incorrecta.
4. Planifica una respuesta concisa, precisa y útil.
5. Revisa mentalmente tu respuesta antes de proporcionarla.

IMPORTANTE: Este proceso es SOLO PARA TU USO INTERNO. NO muestres estos pasos ni tu razonamiento en la respuesta final. La respuesta debe ser directa, profesional y basada en la información disponible, sin mencionar este proceso metacognitivo.
`, company, verify)
}

// systemPrompt pins the assistant's behavior: never impersonate the user,
// never invent unlisted services, surface contact info only when asked or
// when recommending contact, stay concise.
func systemPrompt(company string, withKnowledge bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Eres un asistente virtual para %s. Responde de manera amable y profesional. ", company)
	if withKnowledge {
		b.WriteString("Usa la información proporcionada para responder preguntas sobre la empresa y sus servicios.")
	}
	b.WriteString("\n\n")

	b.WriteString("IMPORTANTE: Mantén SIEMPRE tu rol como asistente. NUNCA generes texto como si fueras el usuario. ")
	b.WriteString("NUNCA uses formatos como 'Usuario: [texto]' o similares. ")
	b.WriteString("NUNCA simules una conversación entre múltiples participantes. ")
	fmt.Fprintf(&b, "Responde ÚNICAMENTE como el asistente de %s.\n\n", company)

	b.WriteString("Cuando NO tengas información específica sobre un tema en la base de conocimientos: ")
	b.WriteString("1. Sé honesto y directo, indicando que no tienes información específica sobre ese tema. ")
	b.WriteString("2. NUNCA inventes servicios o productos que no estén explícitamente mencionados en la base de conocimientos. ")
	b.WriteString("3. Si el usuario pregunta por un servicio específico que no está en la lista de productos/servicios, indica claramente que no tienes información sobre ese servicio específico. ")
	b.WriteString("4. Puedes sugerir contactar a la empresa para consultar sobre servicios específicos que no están en tu base de conocimientos. ")
	b.WriteString("5. NUNCA repitas la información de contacto en cada mensaje. ")
	b.WriteString("6. Proporciona información de contacto completa (email, teléfono, dirección) en estos casos: (a) cuando el usuario la solicite explícitamente, o (b) cuando sugieras al usuario que contacte a la empresa para más información. ")
	b.WriteString("7. Cuando sugieras contactar a la empresa, SIEMPRE incluye al menos un email o teléfono específico de la información de contacto disponible. ")
	b.WriteString("8. Mantén una conversación natural y fluida, como lo haría un asistente humano. ")
	b.WriteString("9. Responde de manera concisa y profesional.\n\n")

	return b.String()
}

// renderHistory formats the most recent turns as alternating speaker lines.
func renderHistory(turns []chat.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	start := 0
	if len(turns) > historyLimit {
		start = len(turns) - historyLimit
	}

	var b strings.Builder
	for _, t := range turns[start:] {
		switch t.Role {
		case chat.RoleUser:
			b.WriteString("Usuario: " + t.Content + "\n")
		case chat.RoleAssistant:
			b.WriteString("Asistente: " + t.Content + "\n")
		}
	}
	return b.String()
}

// buildPrompt assembles the full prompt sent to the collaborator: preamble,
// behavioral system prompt, optional knowledge block, optional history block,
// and finally the new user message.
func buildPrompt(company, knowledgeBlock, historyBlock, message string) string {
	withKnowledge := knowledgeBlock != ""

	var b strings.Builder
	b.WriteString(metacognitivePreamble(company, withKnowledge))
	b.WriteString("\n\n")
	b.WriteString(systemPrompt(company, withKnowledge))

	if knowledgeBlock != "" {
		b.WriteString(knowledgeBlock)
	}
	if historyBlock != "" {
		b.WriteString("Historial de la conversación:\n" + historyBlock + "\n")
	}

	b.WriteString("Usuario: " + message + "\nAsistente:")
	return b.String()
}
