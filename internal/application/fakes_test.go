package application

import (
	"context"
	"sort"
	"sync"

	"github.com/srijan008/MedGamma-Server/internal/domain"
)

type fakeRepo struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Session
	messages  map[string][]*domain.Message
	summaries map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions:  make(map[string]*domain.Session),
		messages:  make(map[string][]*domain.Message),
		summaries: make(map[string]string),
	}
}

func (r *fakeRepo) SaveMessage(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.SessionID] = append(r.messages[msg.SessionID], msg)
	return nil
}

func (r *fakeRepo) SaveSession(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeRepo) GetSession(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionID], nil
}

func (r *fakeRepo) GetSessionMessages(_ context.Context, sessionID string, limit, offset int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := append([]*domain.Message(nil), r.messages[sessionID]...)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	if offset > 0 {
		if offset >= len(msgs) {
			return nil, nil
		}
		msgs = msgs[offset:]
	}
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (r *fakeRepo) GetSessions(_ context.Context, userID string, limit, offset int) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Session
	for _, s := range r.sessions {
		if userID == "" || s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateSummary(_ context.Context, sessionID, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[sessionID] = summary
	if s, ok := r.sessions[sessionID]; ok {
		s.Summary = summary
	}
	return nil
}

func (r *fakeRepo) DeleteSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	delete(r.messages, sessionID)
	return nil
}

func (r *fakeRepo) messagesFor(sessionID string) []*domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Message(nil), r.messages[sessionID]...)
}

type fakeLLM struct {
	mu           sync.Mutex
	invokeResp   string
	invokeErr    error
	streamChunks []string
	streamErr    error
	embedErr     error
	prompts      []string
}

func (l *fakeLLM) Invoke(_ context.Context, prompt string) (string, error) {
	l.mu.Lock()
	l.prompts = append(l.prompts, prompt)
	l.mu.Unlock()
	return l.invokeResp, l.invokeErr
}

func (l *fakeLLM) Stream(_ context.Context, _ []domain.ChatTurn) (<-chan string, error) {
	if l.streamErr != nil {
		return nil, l.streamErr
	}
	out := make(chan string, len(l.streamChunks))
	for _, c := range l.streamChunks {
		out <- c
	}
	close(out)
	return out, nil
}

func (l *fakeLLM) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if l.embedErr != nil {
		return nil, l.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (l *fakeLLM) lastPrompt() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.prompts) == 0 {
		return ""
	}
	return l.prompts[len(l.prompts)-1]
}

type fakeVectors struct {
	chunks    []domain.DocumentChunk
	searchErr error
}

func (v *fakeVectors) AddChunks(_ context.Context, _, _ string, _ []string, _ [][]float32) error {
	return nil
}

func (v *fakeVectors) Search(_ context.Context, _ string, _ []float32, _ int) ([]domain.DocumentChunk, error) {
	return v.chunks, v.searchErr
}

type fakeSearch struct {
	mu      sync.Mutex
	result  string
	queries []string
}

func (s *fakeSearch) Search(_ context.Context, query string) string {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.result
}

func (s *fakeSearch) queried() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// fakeDispatcher exposes channels so tests can wait for the detached
// post-stream work to land.
type fakeDispatcher struct {
	alerts    chan *domain.Alert
	refreshes chan string
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{
		alerts:    make(chan *domain.Alert, 4),
		refreshes: make(chan string, 4),
	}
}

func (d *fakeDispatcher) DispatchAlert(alert *domain.Alert) {
	d.alerts <- alert
}

func (d *fakeDispatcher) DispatchSummaryRefresh(sessionID string) {
	d.refreshes <- sessionID
}
