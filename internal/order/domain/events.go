package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderCompletedEvent 订单完成事件
type OrderCompletedEvent struct {
	OrderID       uint            `json:"order_id"`
	UserID        uint            `json:"user_id"`
	TransactionID string          `json:"transaction_id"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	CompletedAt   time.Time       `json:"completed_at"`
}

// EventPublisher 订单事件发布接口，发布失败不影响业务事务
type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, event OrderCompletedEvent) error
}
