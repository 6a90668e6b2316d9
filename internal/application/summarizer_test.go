package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessages(t *testing.T, repo *fakeRepo, sessionID string, n int) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		require.NoError(t, repo.SaveMessage(context.Background(), &domain.Message{
			SessionID: sessionID,
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestSummarizer_SkipsShortSessions(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["s1"] = &domain.Session{ID: "s1"}
	seedMessages(t, repo, "s1", recentWindow)

	llm := &fakeLLM{invokeResp: "should not be called"}
	s := NewSummarizer(repo, llm)

	require.NoError(t, s.Refresh(context.Background(), "s1"))
	assert.Empty(t, llm.prompts)
	assert.Empty(t, repo.summaries["s1"])
}

func TestSummarizer_SummarizesOlderMessages(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["s1"] = &domain.Session{ID: "s1"}
	seedMessages(t, repo, "s1", 8)

	llm := &fakeLLM{invokeResp: "they discussed sleep hygiene"}
	s := NewSummarizer(repo, llm)

	require.NoError(t, s.Refresh(context.Background(), "s1"))
	assert.Equal(t, "they discussed sleep hygiene", repo.summaries["s1"])

	// Only the 3 messages outside the recent window go into the prompt.
	prompt := llm.lastPrompt()
	assert.Contains(t, prompt, "message 0")
	assert.Contains(t, prompt, "message 2")
	assert.NotContains(t, prompt, "message 3")
	assert.NotContains(t, prompt, "message 7")
}

func TestSummarizer_PropagatesLLMError(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["s1"] = &domain.Session{ID: "s1"}
	seedMessages(t, repo, "s1", 10)

	llm := &fakeLLM{invokeErr: assert.AnError}
	s := NewSummarizer(repo, llm)

	assert.Error(t, s.Refresh(context.Background(), "s1"))
	assert.Empty(t, repo.summaries["s1"])
}
