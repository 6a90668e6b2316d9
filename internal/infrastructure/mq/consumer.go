package mq

import (
	"context"
	"encoding/json"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	rocketmq "github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"go.uber.org/zap"
)

// AlertHandler delivers an alert to the outside world (and its audit row).
type AlertHandler interface {
	HandleAlert(ctx context.Context, alert *domain.Alert) error
}

// SummaryRefresher regenerates the rolling summary of a session.
type SummaryRefresher interface {
	Refresh(ctx context.Context, sessionID string) error
}

type Consumer struct {
	client     rocketmq.PushConsumer
	alerts     AlertHandler
	summarizer SummaryRefresher
}

func NewConsumer(client rocketmq.PushConsumer, alerts AlertHandler, summarizer SummaryRefresher) *Consumer {
	return &Consumer{
		client:     client,
		alerts:     alerts,
		summarizer: summarizer,
	}
}

func (c *Consumer) SubscribeEvents() error {
	return c.client.Subscribe(TopicEvents, consumer.MessageSelector{}, c.handleEvent)
}

func (c *Consumer) handleEvent(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	for _, msg := range msgs {
		var err error
		switch msg.GetTags() {
		case TagAlert:
			err = c.handleAlert(ctx, msg.Body)
		case TagRefreshSummary:
			err = c.handleSummaryRefresh(ctx, msg.Body)
		default:
			logging.L().Warn("unknown event tag", zap.String("tag", msg.GetTags()))
			continue
		}

		if err != nil {
			logging.L().Error("handle event failed, will retry", zap.Error(err))
			return consumer.ConsumeRetryLater, nil
		}
	}
	return consumer.ConsumeSuccess, nil
}

func (c *Consumer) handleAlert(ctx context.Context, body []byte) error {
	var ev alertEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		logging.L().Error("unmarshal alert event", zap.Error(err))
		return nil
	}
	return c.alerts.HandleAlert(ctx, &domain.Alert{
		Type:     ev.Type,
		Severity: domain.Severity(ev.Severity),
		Location: ev.Location,
	})
}

func (c *Consumer) handleSummaryRefresh(ctx context.Context, body []byte) error {
	var ev summaryEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		logging.L().Error("unmarshal summary event", zap.Error(err))
		return nil
	}
	return c.summarizer.Refresh(ctx, ev.SessionID)
}

func (c *Consumer) Start() error {
	return c.client.Start()
}

func (c *Consumer) Shutdown() error {
	return c.client.Shutdown()
}
