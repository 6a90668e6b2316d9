package domain

import "context"

// ChatRepository 定义数据访问接口
// 不关心具体实现是redis，mq，还是db
type ChatRepository interface {
	SaveMessage(ctx context.Context, msg *Message) error
	SaveSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	GetSessionMessages(ctx context.Context, sessionID string, limit, offset int) ([]*Message, error)
	GetSessions(ctx context.Context, userID string, limit, offset int) ([]*Session, error)
	UpdateSummary(ctx context.Context, sessionID, summary string) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// AlertRepository keeps an audit trail of dispatched emergency alerts.
type AlertRepository interface {
	SaveAlert(ctx context.Context, alert *Alert) error
}

// UserRepository backs the optional auth layer.
type UserRepository interface {
	SaveUser(ctx context.Context, user *User) error
	FindUserByName(ctx context.Context, username string) (*User, error)
}
