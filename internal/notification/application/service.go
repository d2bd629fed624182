package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/zenstore/internal/notification/domain"
	"github.com/wyfcoding/zenstore/pkg/logger"
)

// NotificationService 通知应用服务
type NotificationService struct {
	repo   domain.NotificationRepository
	sender domain.Sender
}

func NewNotificationService(repo domain.NotificationRepository, sender domain.Sender) *NotificationService {
	return &NotificationService{repo: repo, sender: sender}
}

// OrderConfirmation 发送订单确认邮件并落库投递结果。
// 投递失败返回错误由调用方决定是否忽略，记录本身总是保留。
func (s *NotificationService) OrderConfirmation(ctx context.Context, userID uint, email, firstName string, orderID uint, total decimal.Decimal, transactionID string) error {
	subject := fmt.Sprintf("Order Confirmed! #%d", orderID)
	content := fmt.Sprintf(
		"Hi %s,\n\nThank you for your order!\nTotal: %s\nTransaction ID: %s\n\nYour items will be shipped soon.",
		firstName, total.StringFixed(2), transactionID,
	)

	record := &domain.Notification{
		UserID:  &userID,
		Target:  email,
		Subject: subject,
		Content: content,
		Status:  domain.StatusSent,
	}

	sendErr := s.sender.Send(ctx, email, subject, content)
	if sendErr != nil {
		record.Status = domain.StatusFailed
		record.Error = sendErr.Error()
	}

	if err := s.repo.Save(ctx, record); err != nil {
		logger.Warn(ctx, "notification record save failed", "order_id", orderID, "error", err)
	}

	return sendErr
}

// History 返回用户最近的通知记录
func (s *NotificationService) History(ctx context.Context, userID uint, limit int) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
