package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/zenstore/internal/notification/domain"
)

type notificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}
