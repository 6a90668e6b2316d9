package model

import (
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"
)

type UserModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    string    `gorm:"uniqueIndex;size:36;not null;column:user_id" json:"user_id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null;column:username" json:"username"`
	Email     string    `gorm:"size:100;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:           m.UserID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.Password,
		CreatedAt:    m.CreatedAt,
	}
}

func ToUserModel(d *domain.User) *UserModel {
	return &UserModel{
		UserID:   d.ID,
		Username: d.Username,
		Email:    d.Email,
		Password: d.PasswordHash,
	}
}
