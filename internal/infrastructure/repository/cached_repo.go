package repository

import (
	"context"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/cache"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"go.uber.org/zap"
)

// CachedChatRepository 负责协调 Redis 和 Postgres.
// Postgres is the source of truth; Redis failures degrade to db-only reads.
type CachedChatRepository struct {
	db  domain.ChatRepository
	rdb *cache.RedisCache
}

func NewCachedChatRepository(db domain.ChatRepository, rdb *cache.RedisCache) domain.ChatRepository {
	return &CachedChatRepository{db: db, rdb: rdb}
}

func (r *CachedChatRepository) SaveMessage(ctx context.Context, msg *domain.Message) error {
	if err := r.db.SaveMessage(ctx, msg); err != nil {
		return err
	}
	if err := r.rdb.AppendMessage(ctx, msg); err != nil {
		logging.L().Warn("redis append failed", zap.Error(err))
	}
	return nil
}

func (r *CachedChatRepository) SaveSession(ctx context.Context, session *domain.Session) error {
	if err := r.db.SaveSession(ctx, session); err != nil {
		return err
	}
	if err := r.rdb.SaveSession(ctx, session); err != nil {
		logging.L().Warn("redis save session failed", zap.Error(err))
	}
	return nil
}

func (r *CachedChatRepository) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if session, err := r.rdb.GetSession(ctx, sessionID); err == nil {
		return session, nil
	}
	session, err := r.db.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return session, err
	}
	if err := r.rdb.SaveSession(ctx, session); err != nil {
		logging.L().Warn("redis backfill session failed", zap.Error(err))
	}
	return session, nil
}

// GetSessionMessages serves full-history reads from cache when possible.
// Paged reads always go to the database.
func (r *CachedChatRepository) GetSessionMessages(ctx context.Context, sessionID string, limit, offset int) ([]*domain.Message, error) {
	if limit > 0 || offset > 0 {
		return r.db.GetSessionMessages(ctx, sessionID, limit, offset)
	}
	if msgs, err := r.rdb.GetHistory(ctx, sessionID); err == nil {
		return msgs, nil
	}
	msgs, err := r.db.GetSessionMessages(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		if err := r.rdb.SetHistory(ctx, sessionID, msgs); err != nil {
			logging.L().Warn("redis backfill history failed", zap.Error(err))
		}
	}
	return msgs, nil
}

func (r *CachedChatRepository) GetSessions(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, error) {
	return r.db.GetSessions(ctx, userID, limit, offset)
}

func (r *CachedChatRepository) UpdateSummary(ctx context.Context, sessionID, summary string) error {
	if err := r.db.UpdateSummary(ctx, sessionID, summary); err != nil {
		return err
	}
	// 双删策略: drop the cached session so the next read refills it.
	if err := r.rdb.InvalidateSession(ctx, sessionID); err != nil {
		logging.L().Warn("redis invalidate failed", zap.Error(err))
	}
	return nil
}

func (r *CachedChatRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.db.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	if err := r.rdb.InvalidateSession(ctx, sessionID); err != nil {
		logging.L().Warn("redis invalidate failed", zap.Error(err))
	}
	return nil
}
