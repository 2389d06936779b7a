package sms

import (
	"context"

	"sentinel/config"
)

// Client 短信发送接口
type Client interface {
	Send(ctx context.Context, to, body string) error
}

var defaultClient Client

// Init 根据配置选择实现：凭证齐备用 Twilio，否则退化为 Mock，只打日志
func Init() {
	if config.Cfg.SMSConfigured() {
		defaultClient = NewTwilioClient(
			config.Cfg.TwilioAccountSID,
			config.Cfg.TwilioAuthToken,
			config.Cfg.TwilioPhoneNumber,
		)
		return
	}
	defaultClient = NewMockClient()
}

// GetClient 获取短信客户端
func GetClient() Client {
	return defaultClient
}
