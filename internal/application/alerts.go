package application

import (
	"context"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"go.uber.org/zap"
)

// AlertService records and delivers emergency alerts. The audit row is
// written even when delivery fails so triggered alerts are never silently
// lost.
type AlertService struct {
	repo     domain.AlertRepository
	notifier domain.Notifier
}

func NewAlertService(repo domain.AlertRepository, notifier domain.Notifier) *AlertService {
	return &AlertService{repo: repo, notifier: notifier}
}

func (s *AlertService) HandleAlert(ctx context.Context, alert *domain.Alert) error {
	if alert.Type == "" {
		alert.Type = "sos"
	}
	if err := s.repo.SaveAlert(ctx, alert); err != nil {
		logging.L().Error("failed to record alert", zap.Error(err))
	}
	return s.notifier.Dispatch(ctx, alert)
}
