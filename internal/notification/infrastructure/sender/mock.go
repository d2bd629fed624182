package sender

import (
	"context"
	"sync"

	"github.com/wyfcoding/zenstore/internal/notification/domain"
	"github.com/wyfcoding/zenstore/pkg/logger"
)

// SentMessage 记录一次模拟投递
type SentMessage struct {
	Target  string
	Subject string
	Content string
}

// MockSender 仅记录日志的投递实现，未配置 SMTP 时使用
type MockSender struct {
	mu   sync.Mutex
	Sent []SentMessage
}

func NewMockSender() *MockSender {
	return &MockSender{}
}

var _ domain.Sender = (*MockSender)(nil)

func (m *MockSender) Send(ctx context.Context, target, subject, content string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentMessage{Target: target, Subject: subject, Content: content})
	m.mu.Unlock()

	logger.Info(ctx, "mock email delivered", "target", target, "subject", subject)
	return nil
}
