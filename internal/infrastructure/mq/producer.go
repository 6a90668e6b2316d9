package mq

import (
	"context"
	"encoding/json"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	rocketmq "github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"go.uber.org/zap"
)

type alertEvent struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Location string `json:"location"`
}

type summaryEvent struct {
	SessionID string `json:"session_id"`
}

// Producer publishes post-response events to the broker. It satisfies
// domain.EventDispatcher: dispatch methods log failures and drop, they never
// surface errors into the request path.
type Producer struct {
	client rocketmq.Producer
}

func NewProducer(client rocketmq.Producer) *Producer {
	return &Producer{client: client}
}

func (p *Producer) DispatchAlert(alert *domain.Alert) {
	data, err := json.Marshal(alertEvent{
		Type:     alert.Type,
		Severity: string(alert.Severity),
		Location: alert.Location,
	})
	if err != nil {
		logging.L().Error("marshal alert event", zap.Error(err))
		return
	}
	msg := primitive.NewMessage(TopicEvents, data)
	msg.WithTag(TagAlert)
	if _, err := p.client.SendSync(context.Background(), msg); err != nil {
		logging.L().Error("publish alert event", zap.Error(err))
	}
}

func (p *Producer) DispatchSummaryRefresh(sessionID string) {
	data, err := json.Marshal(summaryEvent{SessionID: sessionID})
	if err != nil {
		logging.L().Error("marshal summary event", zap.Error(err))
		return
	}
	msg := primitive.NewMessage(TopicEvents, data)
	msg.WithTag(TagRefreshSummary)
	if _, err := p.client.SendSync(context.Background(), msg); err != nil {
		logging.L().Error("publish summary event", zap.Error(err))
	}
}

func (p *Producer) Shutdown() error {
	return p.client.Shutdown()
}
