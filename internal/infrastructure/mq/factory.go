package mq

import (
	"context"
	"fmt"
	"net"

	"github.com/srijan008/MedGamma-Server/config"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	rocketmq "github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"go.uber.org/zap"
)

// InitProducer starts a RocketMQ producer, or returns (nil, nil) when no name
// servers are configured so the caller can fall back to in-process dispatch.
func InitProducer(cfg *config.RocketMQConfig) (*Producer, error) {
	resolved := resolveNameServers(cfg.NameServers)
	if len(resolved) == 0 {
		logging.L().Info("rocketmq not configured, events dispatch in-process")
		return nil, nil
	}

	p, err := rocketmq.NewProducer(
		producer.WithNsResolver(primitive.NewPassthroughResolver(resolved)),
		producer.WithRetry(cfg.MaxRetries),
		producer.WithGroupName(cfg.GroupName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create RocketMQ producer: %w", err)
	}
	if err := p.Start(); err != nil {
		return nil, fmt.Errorf("failed to start RocketMQ producer: %w", err)
	}

	// Send an init message so the topic exists (autoCreateTopicEnable=true).
	initMsg := primitive.NewMessage(TopicEvents, []byte("init"))
	if _, err := p.SendSync(context.Background(), initMsg); err != nil {
		logging.L().Warn("failed to init topic", zap.String("topic", TopicEvents), zap.Error(err))
	}

	return NewProducer(p), nil
}

func InitConsumer(cfg *config.RocketMQConfig, alerts AlertHandler, summarizer SummaryRefresher) (*Consumer, error) {
	resolved := resolveNameServers(cfg.NameServers)
	if len(resolved) == 0 {
		return nil, nil
	}

	c, err := rocketmq.NewPushConsumer(
		consumer.WithNsResolver(primitive.NewPassthroughResolver(resolved)),
		consumer.WithGroupName(cfg.ConsumerGroup),
		consumer.WithRetry(cfg.MaxRetries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create RocketMQ consumer: %w", err)
	}

	mqConsumer := NewConsumer(c, alerts, summarizer)
	if err := mqConsumer.SubscribeEvents(); err != nil {
		return nil, fmt.Errorf("failed to subscribe events topic: %w", err)
	}
	if err := mqConsumer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start RocketMQ consumer: %w", err)
	}

	logging.L().Info("rocketmq consumer started")
	return mqConsumer, nil
}

func resolveNameServers(servers []string) []string {
	var resolved []string
	for _, addr := range servers {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			resolved = append(resolved, addr)
			continue
		}
		ips, err := net.LookupHost(host)
		if err != nil || len(ips) == 0 {
			resolved = append(resolved, addr)
			continue
		}
		resolved = append(resolved, net.JoinHostPort(ips[0], port))
	}
	return resolved
}
