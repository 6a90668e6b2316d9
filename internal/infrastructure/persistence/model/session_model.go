package model

import (
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"
)

type SessionModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	SessionID string    `gorm:"uniqueIndex:idx_session_id;size:36;not null;column:session_id" json:"session_id"`
	UserID    string    `gorm:"index:idx_session_user_id;size:36;not null;column:user_id" json:"user_id"`
	Title     string    `gorm:"type:text;column:title" json:"title"`
	Summary   string    `gorm:"type:text;column:summary" json:"summary"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func (m *SessionModel) ToDomain() *domain.Session {
	return &domain.Session{
		ID:        m.SessionID,
		UserID:    m.UserID,
		Title:     m.Title,
		Summary:   m.Summary,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToSessionModel(d *domain.Session) *SessionModel {
	return &SessionModel{
		SessionID: d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Summary:   d.Summary,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
