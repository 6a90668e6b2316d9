package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService drives the per-message orchestration pipeline: persist the user
// turn, gather context (history, summary, retrieval, routed web search),
// stream the model reply through the SOS filter, then persist and schedule
// the post-response work.
type ChatService struct {
	repo       domain.ChatRepository
	llm        domain.LLMService
	vectors    domain.VectorStore
	search     domain.SearchService
	router     *Router
	dispatcher domain.EventDispatcher
	topK       int
}

func NewChatService(
	repo domain.ChatRepository,
	llm domain.LLMService,
	vectors domain.VectorStore,
	search domain.SearchService,
	router *Router,
	dispatcher domain.EventDispatcher,
	topK int,
) *ChatService {
	if topK <= 0 {
		topK = 3
	}
	return &ChatService{
		repo:       repo,
		llm:        llm,
		vectors:    vectors,
		search:     search,
		router:     router,
		dispatcher: dispatcher,
		topK:       topK,
	}
}

// CreateSession 创建会话
func (s *ChatService) CreateSession(ctx context.Context, userID, title string) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	session.SetTitle(title, 50)
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetHistory returns the full ordered transcript plus the rolling summary.
func (s *ChatService) GetHistory(ctx context.Context, sessionID string) ([]*domain.Message, string, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if session == nil {
		return nil, "", domain.ErrSessionNotFound
	}
	msgs, err := s.repo.GetSessionMessages(ctx, sessionID, 0, 0)
	if err != nil {
		return nil, "", err
	}
	return msgs, session.Summary, nil
}

func (s *ChatService) ListSessions(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, error) {
	return s.repo.GetSessions(ctx, userID, limit, offset)
}

func (s *ChatService) DeleteSession(ctx context.Context, sessionID, userID string) error {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil // already gone
	}
	if userID != "" && session.UserID != "" && session.UserID != userID {
		return domain.ErrPermissionDenied
	}
	return s.repo.DeleteSession(ctx, sessionID)
}

// SaveMessage persists one turn.
func (s *ChatService) SaveMessage(ctx context.Context, sessionID, userID string, role domain.Role, content string) error {
	return s.repo.SaveMessage(ctx, &domain.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// StreamReply runs the full pipeline for one user message. The returned
// channel carries cleaned response chunks and is closed at end of stream;
// persistence and alert/summary scheduling happen after the stream finishes,
// detached from the request context.
func (s *ChatService) StreamReply(ctx context.Context, sessionID, userID, text string, mode domain.ChatMode) (<-chan string, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}

	if err := s.SaveMessage(ctx, sessionID, userID, domain.RoleUser, text); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	msgs, err := s.repo.GetSessionMessages(ctx, sessionID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	recent := msgs
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}

	ragContext := s.retrieve(ctx, sessionID, text)

	historyStr := FormatTranscript(recent)
	webContext := ""
	if route := s.router.Route(ctx, text, historyStr); route == RouteWeb {
		logging.L().Info("routing to web search", zap.String("session_id", sessionID))
		webContext = s.search.Search(ctx, text)
	}

	turns := make([]domain.ChatTurn, 0, len(recent)+1)
	turns = append(turns, domain.ChatTurn{
		Role:    domain.RoleSystem,
		Content: BuildSystemPrompt(mode, session.Summary, webContext, ragContext),
	})
	for _, m := range recent {
		role := domain.RoleUser
		if !m.IsUser() {
			role = domain.RoleAssistant
		}
		turns = append(turns, domain.ChatTurn{Role: role, Content: m.Content})
	}

	stream, err := s.llm.Stream(ctx, turns)
	if err != nil {
		return nil, fmt.Errorf("start llm stream: %w", err)
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		filter := &SOSFilter{}
		send := func(chunk string) {
			if chunk == "" {
				return
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				// Client gone; keep draining so the turn still gets
				// persisted below.
			}
		}
		for chunk := range stream {
			send(filter.Feed(chunk))
		}
		send(filter.Flush())

		s.finishTurn(sessionID, userID, filter)
	}()
	return out, nil
}

// retrieve embeds the query and pulls the session's best document chunks.
// Any failure degrades to an empty context.
func (s *ChatService) retrieve(ctx context.Context, sessionID, query string) string {
	embeddings, err := s.llm.Embed(ctx, []string{query})
	if err != nil {
		logging.L().Warn("query embedding failed", zap.Error(err))
		return ""
	}
	chunks, err := s.vectors.Search(ctx, sessionID, embeddings[0], s.topK)
	if err != nil {
		logging.L().Warn("vector search failed", zap.Error(err))
		return ""
	}
	logging.L().Debug("retrieved chunks", zap.Int("count", len(chunks)))
	return FormatRAGContext(chunks)
}

// finishTurn persists the cleaned assistant message, fires the crisis alert
// when the raw text carried a marker, and schedules the summary refresh.
func (s *ChatService) finishTurn(sessionID, userID string, filter *SOSFilter) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if clean := filter.Clean(); clean != "" {
		if err := s.SaveMessage(ctx, sessionID, userID, domain.RoleAssistant, clean); err != nil {
			logging.L().Error("save assistant message failed", zap.Error(err))
		}
	}

	raw := filter.Raw()
	switch {
	case DetectSeverity(raw) == domain.SeverityNone:
		// no alert
	case strings.Contains(raw, MarkerCall):
		logging.L().Warn("critical distress detected, triggering call+sms", zap.String("session_id", sessionID))
		s.dispatcher.DispatchAlert(&domain.Alert{
			Type:     "sos",
			Severity: domain.SeverityCritical,
			Location: "High Risk Detected via Chat",
		})
	case strings.Contains(raw, MarkerSMS):
		logging.L().Warn("medium distress detected, triggering sms", zap.String("session_id", sessionID))
		s.dispatcher.DispatchAlert(&domain.Alert{
			Type:     "sos",
			Severity: domain.SeverityMedium,
			Location: "Medium Risk Detected via Chat",
		})
	default:
		logging.L().Warn("legacy distress marker detected, triggering critical", zap.String("session_id", sessionID))
		s.dispatcher.DispatchAlert(&domain.Alert{
			Type:     "sos",
			Severity: domain.SeverityCritical,
			Location: "Crisis Detected",
		})
	}

	s.dispatcher.DispatchSummaryRefresh(sessionID)
}
