package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"sentinel/config"
)

// TwilioClient 通过 Twilio 官方 SDK 发送短信
type TwilioClient struct {
	rest       *twilio.RestClient
	fromNumber string
}

func NewTwilioClient(accountSID, authToken, fromNumber string) *TwilioClient {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	rest.SetTimeout(time.Duration(config.Cfg.SMSTimeoutSeconds) * time.Second)
	return &TwilioClient{rest: rest, fromNumber: fromNumber}
}

func (c *TwilioClient) Send(ctx context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.fromNumber)
	params.SetBody(body)

	msg, err := c.rest.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	if msg.ErrorCode != nil {
		zap.L().Warn("twilio rejected sms",
			zap.Int("error_code", *msg.ErrorCode),
			zap.Stringp("error_message", msg.ErrorMessage),
		)
		return fmt.Errorf("twilio rejected sms with error code %d", *msg.ErrorCode)
	}
	return nil
}
