package application

import (
	"context"
	"fmt"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"go.uber.org/zap"
)

// recentWindow is how many trailing messages stay verbatim in the prompt and
// therefore out of the summary.
const recentWindow = 5

const summaryPromptTmpl = `Summarize the following conversation concisely, retaining key facts and context.

Conversation:
%s

Summary:`

// Summarizer maintains the rolling per-session summary: everything older than
// the recent window gets compressed into one text stored on the session row.
type Summarizer struct {
	repo domain.ChatRepository
	llm  domain.LLMService
}

func NewSummarizer(repo domain.ChatRepository, llm domain.LLMService) *Summarizer {
	return &Summarizer{repo: repo, llm: llm}
}

func (s *Summarizer) Refresh(ctx context.Context, sessionID string) error {
	msgs, err := s.repo.GetSessionMessages(ctx, sessionID, 0, 0)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	if len(msgs) <= recentWindow {
		return nil
	}

	transcript := FormatTranscript(msgs[:len(msgs)-recentWindow])
	summary, err := s.llm.Invoke(ctx, fmt.Sprintf(summaryPromptTmpl, transcript))
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	if err := s.repo.UpdateSummary(ctx, sessionID, summary); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	logging.L().Info("summary updated", zap.String("session_id", sessionID))
	return nil
}
