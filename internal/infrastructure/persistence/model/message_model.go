package model

import (
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"

	"gorm.io/gorm"
)

type MessageModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	MessageID string         `gorm:"uniqueIndex:idx_message_id;size:36;not null;column:message_id" json:"message_id"`
	UserID    string         `gorm:"index:idx_message_user_id;size:36;column:user_id" json:"user_id"`
	SessionID string         `gorm:"index:idx_message_session_id;size:36;not null;column:session_id" json:"session_id"`
	Content   string         `gorm:"type:text;not null;column:content" json:"content"`
	Role      string         `gorm:"size:20;not null;column:role" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime;not null;column:created_at" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) ToDomain() *domain.Message {
	return &domain.Message{
		ID:        m.MessageID,
		SessionID: m.SessionID,
		UserID:    m.UserID,
		Role:      domain.Role(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func ToMessageModel(d *domain.Message) *MessageModel {
	return &MessageModel{
		MessageID: d.ID,
		UserID:    d.UserID,
		SessionID: d.SessionID,
		Content:   d.Content,
		Role:      d.Role.String(),
		CreatedAt: d.CreatedAt,
	}
}
