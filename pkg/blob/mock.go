package blob

import (
	"context"
	"sync"
)

// MockClient 测试用对象存储客户端
type MockClient struct {
	mu      sync.Mutex
	Removed []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) PresignUpload(_ context.Context, objectName string) (string, error) {
	return "https://storage.test/upload/" + objectName, nil
}

func (c *MockClient) PublicURL(objectName string) string {
	return "https://storage.test/audio-recordings/" + objectName
}

func (c *MockClient) Remove(_ context.Context, objectName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Removed = append(c.Removed, objectName)
	return nil
}
