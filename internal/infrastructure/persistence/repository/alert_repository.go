package repository

import (
	"context"
	"fmt"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/persistence/model"

	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) SaveAlert(ctx context.Context, alert *domain.Alert) error {
	if err := r.db.WithContext(ctx).Create(model.ToAlertModel(alert)).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}
