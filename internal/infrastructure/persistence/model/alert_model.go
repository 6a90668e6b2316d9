package model

import (
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"
)

// AlertModel is the audit row written for every emergency dispatch.
type AlertModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Type      string    `gorm:"size:20;not null;column:type" json:"type"`
	Severity  string    `gorm:"size:20;not null;column:severity" json:"severity"`
	Location  string    `gorm:"type:text;column:location" json:"location"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null;column:created_at" json:"created_at"`
}

func (AlertModel) TableName() string {
	return "alerts"
}

func ToAlertModel(d *domain.Alert) *AlertModel {
	return &AlertModel{
		Type:     d.Type,
		Severity: string(d.Severity),
		Location: d.Location,
	}
}
