package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/persistence/model"

	"gorm.io/gorm"
)

// ChatRepository is the gorm-backed implementation of domain.ChatRepository.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) SaveMessage(ctx context.Context, m *domain.Message) error {
	message := model.ToMessageModel(m)
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *ChatRepository) SaveSession(ctx context.Context, s *domain.Session) error {
	session := model.ToSessionModel(s)
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *ChatRepository) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var m model.SessionModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return m.ToDomain(), nil
}

// GetSessionMessages returns messages ordered oldest-first. limit <= 0 means
// no limit.
func (r *ChatRepository) GetSessionMessages(ctx context.Context, sessionID string, limit, offset int) ([]*domain.Message, error) {
	var models []*model.MessageModel
	q := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc, id asc").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	messages := make([]*domain.Message, len(models))
	for i, entity := range models {
		messages[i] = entity.ToDomain()
	}
	return messages, nil
}

func (r *ChatRepository) GetSessions(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, error) {
	var models []*model.SessionModel
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	sessions := make([]*domain.Session, len(models))
	for i, entity := range models {
		sessions[i] = entity.ToDomain()
	}
	return sessions, nil
}

func (r *ChatRepository) UpdateSummary(ctx context.Context, sessionID, summary string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("session_id = ?", sessionID).
		Update("summary", summary).Error; err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}
	return nil
}

func (r *ChatRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.MessageModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
