package application

import (
	"context"
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"go.uber.org/zap"
)

const dispatchTimeout = 60 * time.Second

// AsyncDispatcher runs post-response work on detached goroutines. It is the
// in-process fallback for deployments without a broker; the request that
// scheduled the work has already streamed its response, so each task gets a
// fresh bounded context.
type AsyncDispatcher struct {
	alerts     *AlertService
	summarizer *Summarizer
}

func NewAsyncDispatcher(alerts *AlertService, summarizer *Summarizer) *AsyncDispatcher {
	return &AsyncDispatcher{alerts: alerts, summarizer: summarizer}
}

func (d *AsyncDispatcher) DispatchAlert(alert *domain.Alert) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := d.alerts.HandleAlert(ctx, alert); err != nil {
			logging.L().Error("alert dispatch failed",
				zap.String("severity", string(alert.Severity)), zap.Error(err))
		}
	}()
}

func (d *AsyncDispatcher) DispatchSummaryRefresh(sessionID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := d.summarizer.Refresh(ctx, sessionID); err != nil {
			logging.L().Error("summary refresh failed",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}()
}
