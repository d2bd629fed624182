// Package messaging 将订单事件发布到 Kafka
package messaging

import (
	"context"
	"strconv"

	"github.com/wyfcoding/zenstore/internal/order/domain"
	"github.com/wyfcoding/zenstore/pkg/mq"
)

type kafkaPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaPublisher 创建基于 Kafka 的订单事件发布者
func NewKafkaPublisher(producer *mq.KafkaProducer, topic string) domain.EventPublisher {
	return &kafkaPublisher{producer: producer, topic: topic}
}

func (p *kafkaPublisher) PublishOrderCompleted(ctx context.Context, event domain.OrderCompletedEvent) error {
	key := strconv.FormatUint(uint64(event.OrderID), 10)
	return p.producer.SendMessage(ctx, p.topic, key, event)
}
