package sms

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MockClient 测试与本地开发用的短信客户端，记录发送内容不产生外呼
type MockClient struct {
	mu   sync.Mutex
	Sent []MockMessage
}

type MockMessage struct {
	To   string
	Body string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Send(_ context.Context, to, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent = append(c.Sent, MockMessage{To: to, Body: body})
	zap.L().Info("mock sms sent", zap.String("to", to), zap.Int("length", len(body)))
	return nil
}

// Messages 返回已发送消息的副本
func (c *MockClient) Messages() []MockMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]MockMessage, len(c.Sent))
	copy(out, c.Sent)
	return out
}
