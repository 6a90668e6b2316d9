package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/srijan008/MedGamma-Server/config"
	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/persistence/model"

	"github.com/go-redis/redis/v8"
)

var ErrCacheMiss = errors.New("cache miss")

const defaultTTL = 24 * time.Hour

type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Database,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, prefix: cfg.Prefix, ttl: ttl}, nil
}

// Client exposes the raw connection for callers that need redis primitives
// beyond the chat cache, such as the rate limiter.
func (r *RedisCache) Client() *redis.Client {
	return r.client
}

func (r *RedisCache) sessionKey(sessionID string) string {
	return r.prefix + "session:" + sessionID
}

func (r *RedisCache) historyKey(sessionID string) string {
	return r.prefix + "history:" + sessionID
}

// historyAppendScript appends only when the history key still exists. A
// missing key (expired or never backfilled) must stay missing: recreating it
// with a single member would make the next GetHistory serve a partial
// transcript instead of falling through to the database.
const historyAppendScript = `
if redis.call('EXISTS', KEYS[1]) == 0 then
    return 0
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[2])
redis.call('EXPIRE', KEYS[1], ARGV[3])
return 1
`

// AppendMessage adds one message to the session history zset, scored by
// creation time so ZRange returns oldest-first. A no-op when the history
// is not cached.
func (r *RedisCache) AppendMessage(ctx context.Context, msg *domain.Message) error {
	data, err := json.Marshal(model.ToMessageModel(msg))
	if err != nil {
		return err
	}
	return r.client.Eval(ctx, historyAppendScript,
		[]string{r.historyKey(msg.SessionID)},
		float64(msg.CreatedAt.UnixMicro()),
		string(data),
		int(r.ttl.Seconds()),
	).Err()
}

// SetHistory replaces the cached history wholesale (backfill after a db read).
func (r *RedisCache) SetHistory(ctx context.Context, sessionID string, msgs []*domain.Message) error {
	key := r.historyKey(sessionID)
	pipe := r.client.Pipeline()
	pipe.Del(ctx, key)
	for _, msg := range msgs {
		data, err := json.Marshal(model.ToMessageModel(msg))
		if err != nil {
			return err
		}
		pipe.ZAdd(ctx, key, &redis.Z{
			Score:  float64(msg.CreatedAt.UnixMicro()),
			Member: string(data),
		})
	}
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisCache) GetHistory(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	members, err := r.client.ZRange(ctx, r.historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrCacheMiss
	}
	messages := make([]*domain.Message, 0, len(members))
	for _, member := range members {
		var m model.MessageModel
		if err := json.Unmarshal([]byte(member), &m); err != nil {
			return nil, fmt.Errorf("unmarshal cached message: %w", err)
		}
		messages = append(messages, m.ToDomain())
	}
	return messages, nil
}

func (r *RedisCache) SaveSession(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(model.ToSessionModel(session))
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.sessionKey(session.ID), data, r.ttl).Err()
}

func (r *RedisCache) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get session from cache: %w", err)
	}
	var m model.SessionModel
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("unmarshal cached session: %w", err)
	}
	return m.ToDomain(), nil
}

// InvalidateSession drops both the session row and its history from cache.
func (r *RedisCache) InvalidateSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.sessionKey(sessionID), r.historyKey(sessionID)).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
