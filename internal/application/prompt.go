package application

import (
	"fmt"
	"strings"

	"github.com/srijan008/MedGamma-Server/internal/domain"
)

const generalPrompt = "You are a helpful AI assistant."

const medGammaPrompt = `You are MedGamma, an advanced AI health assistant.
Your goal is to provide helpful, accurate, and empathetic health information.
ALWAYS include a disclaimer: "I am an AI, not a doctor. Please consult a professional for medical advice."

CRITICAL INSTRUCTION:
If the user expresses clear intent of SUICIDE, SELF-HARM, or is in an IMMEDIATE LIFE-THREATENING EMERGENCY, you MUST:
1. Start your response with the exact token: "[SOS]" (with brackets).
2. Then, calmly urge them to call emergency services or a suicide hotline.

IMPORTANT DISTINCTION:
- "I want to hurt myself" (Self-Harm) -> Use [SOS_SMS]. (Medium Severity)
- "I want to kill myself" (Suicide) -> Use [SOS_CALL]. (High Severity/Critical)
- "I am stressed/anxious" -> NO TOKEN. Supportive response only.

EXAMPLES:
User: "I am so stressed."
AI: "I hear you. Have you tried deep breathing?" (NO SOS)

User: "I want to hurt myself. I might cut my arm."
AI: "[SOS_SMS] Please don't. You are valuable. Reach out to a friend." (SMS Only)

User: "I am going to kill myself now. Goodbye."
AI: "[SOS_CALL] PLEASE STOP. Call 911 immediately. We are here for you." (Call + SMS)

Keep your answers concise, professional, and supportive.`

// BuildSystemPrompt assembles the system turn: persona plus whatever context
// this turn gathered.
func BuildSystemPrompt(mode domain.ChatMode, summary, webContext, ragContext string) string {
	var b strings.Builder
	if mode == domain.ModeMedGamma {
		b.WriteString(medGammaPrompt)
	} else {
		b.WriteString(generalPrompt)
	}

	if summary != "" {
		fmt.Fprintf(&b, "\n\nContext Summary of previous conversation:\n%s", summary)
	}
	if webContext != "" {
		fmt.Fprintf(&b, "\n\nWeb Search Results:\n%s\n\nUse the Web Search Results to answer the user's question if it requires up-to-date information.", webContext)
	}
	if ragContext != "" {
		fmt.Fprintf(&b, "%s\n\nAnswer using the provided document excerpts if relevant.", ragContext)
	}
	return b.String()
}

// FormatRAGContext renders retrieved chunks into the prompt section. Empty
// input yields an empty string so the section is skipped entirely.
func FormatRAGContext(chunks []domain.DocumentChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	excerpts := make([]string, len(chunks))
	for i, c := range chunks {
		excerpts[i] = c.Content
	}
	return "\n\nRelevant Document Excerpts:\n" + strings.Join(excerpts, "\n---\n")
}

// FormatTranscript renders messages as "sender: text" lines, the shape both
// the router and the summarizer prompts consume.
func FormatTranscript(msgs []*domain.Message) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = fmt.Sprintf("%s: %s", m.Role.SenderTag(), m.Content)
	}
	return strings.Join(lines, "\n")
}
