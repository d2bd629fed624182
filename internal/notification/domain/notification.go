// Package domain 包含通知模块的领域模型
package domain

import (
	"context"

	"gorm.io/gorm"
)

// Status 通知投递状态
type Status string

const (
	StatusSent   Status = "SENT"
	StatusFailed Status = "FAILED"
)

// Notification 通知记录，投递结果落库备查
type Notification struct {
	gorm.Model
	UserID  *uint  `gorm:"column:user_id;index"`
	Target  string `gorm:"column:target;type:varchar(255);not null"`
	Subject string `gorm:"column:subject;type:varchar(255);not null"`
	Content string `gorm:"column:content;type:text"`
	Status  Status `gorm:"column:status;type:varchar(16);not null"`
	Error   string `gorm:"column:error;type:varchar(255)"`
}

func (Notification) TableName() string { return "notifications" }

// Sender 通知投递接口
type Sender interface {
	Send(ctx context.Context, target, subject, content string) error
}

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]Notification, error)
}
