package domain

import "context"

// ChatTurn is one prompt message sent to the model.
type ChatTurn struct {
	Role    Role
	Content string
}

// LLMService is the hosted model client: blocking completion for the router
// and summarizer, token stream for chat replies, embeddings for retrieval.
type LLMService interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, turns []ChatTurn) (<-chan string, error)
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore indexes document chunks per session and answers similarity
// queries.
type VectorStore interface {
	AddChunks(ctx context.Context, sessionID, source string, contents []string, embeddings [][]float32) error
	Search(ctx context.Context, sessionID string, embedding []float32, topK int) ([]DocumentChunk, error)
}

// SearchService runs a live web search and returns formatted context text.
// Empty string means no usable results.
type SearchService interface {
	Search(ctx context.Context, query string) string
}

// Notifier sends the external emergency notifications.
type Notifier interface {
	Dispatch(ctx context.Context, alert *Alert) error
}

// EventDispatcher schedules work that must not block the response: alert
// delivery and summary refresh. Implementations may go through a broker or
// plain goroutines.
type EventDispatcher interface {
	DispatchAlert(alert *Alert)
	DispatchSummaryRefresh(sessionID string)
}
