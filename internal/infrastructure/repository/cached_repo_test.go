package repository

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/srijan008/MedGamma-Server/config"
	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memChatRepo stands in for the gorm repository.
type memChatRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	messages map[string][]*domain.Message
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{
		sessions: make(map[string]*domain.Session),
		messages: make(map[string][]*domain.Message),
	}
}

func (r *memChatRepo) SaveMessage(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.SessionID] = append(r.messages[msg.SessionID], msg)
	return nil
}

func (r *memChatRepo) SaveSession(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *memChatRepo) GetSession(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionID], nil
}

func (r *memChatRepo) GetSessionMessages(_ context.Context, sessionID string, limit, offset int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[sessionID]
	if offset > len(msgs) {
		offset = len(msgs)
	}
	msgs = msgs[offset:]
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	out := make([]*domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (r *memChatRepo) GetSessions(_ context.Context, userID string, limit, offset int) ([]*domain.Session, error) {
	return nil, nil
}

func (r *memChatRepo) UpdateSummary(_ context.Context, sessionID, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		s.Summary = summary
	}
	return nil
}

func (r *memChatRepo) DeleteSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	delete(r.messages, sessionID)
	return nil
}

func newCachedRepo(t *testing.T) (domain.ChatRepository, *memChatRepo, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)
	rdb, err := cache.NewRedisCache(&config.RedisConfig{
		Address:  srv.Host(),
		Port:     port,
		Prefix:   "test:",
		CacheTTL: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	db := newMemChatRepo()
	return NewCachedChatRepository(db, rdb), db, srv
}

func repoMessage(sessionID string, n int, at time.Time) *domain.Message {
	return &domain.Message{
		ID:        fmt.Sprintf("m%d", n),
		SessionID: sessionID,
		UserID:    "u1",
		Role:      domain.RoleUser,
		Content:   fmt.Sprintf("message %d", n),
		CreatedAt: at,
	}
}

func TestCachedRepo_FullHistoryAfterCacheExpiry(t *testing.T) {
	repo, _, srv := newCachedRepo(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Microsecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveMessage(ctx, repoMessage("s1", i, base.Add(time.Duration(i)*time.Second))))
	}

	// First full read backfills the cache from the database.
	msgs, err := repo.GetSessionMessages(ctx, "s1", 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	// The cached history expires mid-session. The next save must not leave
	// a one-message cache behind; the follow-up read has to see all four.
	srv.FastForward(2 * time.Hour)

	require.NoError(t, repo.SaveMessage(ctx, repoMessage("s1", 3, base.Add(3*time.Second))))

	msgs, err = repo.GetSessionMessages(ctx, "s1", 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "message 0", msgs[0].Content)
	assert.Equal(t, "message 3", msgs[3].Content)
}

func TestCachedRepo_AppendExtendsWarmCache(t *testing.T) {
	repo, db, _ := newCachedRepo(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Microsecond)

	require.NoError(t, repo.SaveMessage(ctx, repoMessage("s1", 0, base)))

	// Warm the cache, then append through the repository.
	_, err := repo.GetSessionMessages(ctx, "s1", 0, 0)
	require.NoError(t, err)
	require.NoError(t, repo.SaveMessage(ctx, repoMessage("s1", 1, base.Add(time.Second))))

	// Drop the db copy so a hit can only come from the cache.
	db.mu.Lock()
	db.messages["s1"] = nil
	db.mu.Unlock()

	msgs, err := repo.GetSessionMessages(ctx, "s1", 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "message 1", msgs[1].Content)
}

func TestCachedRepo_PagedReadsBypassCache(t *testing.T) {
	repo, _, _ := newCachedRepo(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Microsecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveMessage(ctx, repoMessage("s1", i, base.Add(time.Duration(i)*time.Second))))
	}

	msgs, err := repo.GetSessionMessages(ctx, "s1", 2, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "message 1", msgs[0].Content)
	assert.Equal(t, "message 2", msgs[1].Content)
}
