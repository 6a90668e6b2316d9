package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"go.uber.org/zap"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100

	// Must stay under Cohere's 96-input cap per embedding request.
	embedBatchSize = 64
)

var ErrNoText = errors.New("document contains no extractable text")

// Service turns an uploaded PDF into searchable vector chunks bound to a chat
// session, then drops a confirmation message into the conversation.
type Service struct {
	repo     domain.ChatRepository
	llm      domain.LLMService
	vectors  domain.VectorStore
	splitter *Splitter
}

func NewService(repo domain.ChatRepository, llm domain.LLMService, vectors domain.VectorStore) *Service {
	return &Service{
		repo:     repo,
		llm:      llm,
		vectors:  vectors,
		splitter: NewSplitter(defaultChunkSize, defaultChunkOverlap),
	}
}

// IngestPDF extracts, splits, embeds and stores the PDF at path for the given
// session. Returns the number of chunks indexed.
func (s *Service) IngestPDF(ctx context.Context, sessionID, userID, filename, path string) (int, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, domain.ErrSessionNotFound
	}

	text, err := ExtractPDFText(path)
	if err != nil {
		return 0, err
	}
	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return 0, ErrNoText
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		embeddings, err := s.llm.Embed(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("embed chunks: %w", err)
		}
		if err := s.vectors.AddChunks(ctx, sessionID, filename, batch, embeddings); err != nil {
			return 0, fmt.Errorf("store chunks: %w", err)
		}
	}

	confirmation := &domain.Message{
		SessionID: sessionID,
		UserID:    userID,
		Role:      domain.RoleAssistant,
		Content:   fmt.Sprintf("PDF '%s' uploaded and analyzed. I am ready to answer questions about it.", filename),
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveMessage(ctx, confirmation); err != nil {
		logging.L().Warn("save upload confirmation failed",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	logging.L().Info("pdf ingested",
		zap.String("session_id", sessionID),
		zap.String("file", filename),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}
