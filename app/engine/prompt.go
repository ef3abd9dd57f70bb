package engine

import (
	"fmt"
	"strings"

	"docchat/model"
	"docchat/types"
)

const groundingSystem = `You answer questions strictly from the provided context.
If the context is empty or does not contain the information needed, say that the document does not cover it. Nothing else.
Do not use outside knowledge and do not add introductions like 'Of course!' or 'Here's the answer:'.`

// documentPrompt composes the chat messages for a document grounded answer:
// the grounding instruction, optionally the recent turns, then the retrieved
// context with the question.
func documentPrompt(question string, results []types.SearchResult, turns []types.Turn) []model.Message {
	messages := make([]model.Message, 0, 2+2*len(turns))
	messages = append(messages, model.Message{Role: model.RoleSystem, Content: groundingSystem})
	for _, turn := range turns {
		messages = append(messages,
			model.Message{Role: model.RoleUser, Content: turn.Question},
			model.Message{Role: model.RoleAssistant, Content: turn.Answer},
		)
	}
	messages = append(messages, model.Message{
		Role:    model.RoleUser,
		Content: fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", contextBlock(results), question),
	})
	return messages
}

// transcriptPrompt renders the prompt for hybrid and open answers: an
// optional retrieved context block, the recent turns as Human:/AI: lines,
// then the question. With no context and no turns the question goes out raw.
func transcriptPrompt(question string, results []types.SearchResult, turns []types.Turn) string {
	var b strings.Builder
	if len(results) > 0 {
		b.WriteString("Context:\n")
		b.WriteString(contextBlock(results))
		b.WriteString("\n\n")
	}
	if len(turns) == 0 {
		b.WriteString(question)
		return b.String()
	}
	for _, turn := range turns {
		fmt.Fprintf(&b, "Human: %s\nAI: %s\n", turn.Question, turn.Answer)
	}
	b.WriteString("Human: ")
	b.WriteString(question)
	return b.String()
}

func contextBlock(results []types.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}

func flatten(messages []model.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}
