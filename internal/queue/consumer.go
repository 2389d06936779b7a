package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sentinel/config"
	"sentinel/internal/model"
	"sentinel/pkg/metrics"
	"sentinel/pkg/sms"
	"sentinel/storage/mq"
)

// StartSMSFanoutConsumer 消费短信扇出队列直到 ctx 取消。
// 单条消息内按接收人独立容错，个别号码失败不影响其余接收人。
func StartSMSFanoutConsumer(ctx context.Context) error {
	ch, deliveries, err := mq.Consume(NotifyExchange, SMSFanoutQueue, SMSFanoutRoutingKey, 8)
	if err != nil {
		return err
	}
	defer ch.Close()

	zap.L().Info("sms fanout consumer started", zap.String("queue", SMSFanoutQueue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("sms fanout delivery channel closed")
			}
			handleSMSFanout(ctx, delivery.Body)
			if err := delivery.Ack(false); err != nil {
				zap.L().Error("failed to ack sms fanout message", zap.Error(err))
			}
		}
	}
}

func handleSMSFanout(ctx context.Context, body []byte) {
	var msg model.SMSFanoutMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		zap.L().Error("failed to decode sms fanout message", zap.Error(err))
		return
	}

	client := sms.GetClient()
	if client == nil {
		zap.L().Warn("sms client not initialized, dropping fanout message",
			zap.String("message_id", msg.MessageID))
		return
	}

	text := BuildSMSBody(msg)
	var failed []model.SMSRecipient
	for _, recipient := range msg.Recipients {
		sendCtx, cancel := context.WithTimeout(ctx, time.Duration(config.Cfg.SMSTimeoutSeconds)*time.Second)
		err := client.Send(sendCtx, recipient.Phone, text)
		cancel()

		metrics.SMSDelivery(ctx, err == nil)
		if err != nil {
			zap.L().Warn("sms delivery failed",
				zap.String("message_id", msg.MessageID),
				zap.Int64("recipient_id", recipient.ProfileID),
				zap.Error(err),
			)
			failed = append(failed, recipient)
		}
	}

	if len(failed) == 0 {
		return
	}
	if msg.RetryCount >= config.Cfg.SMSMaxRetries {
		zap.L().Error("sms fanout exhausted retries",
			zap.String("message_id", msg.MessageID),
			zap.Int("failed_recipients", len(failed)),
		)
		return
	}

	retry := msg
	retry.Recipients = failed
	retry.RetryCount = msg.RetryCount + 1
	if err := PublishSMSFanout(ctx, retry); err != nil {
		zap.L().Error("failed to requeue sms fanout message",
			zap.String("message_id", msg.MessageID),
			zap.Error(err),
		)
	}
}

// BuildSMSBody 渲染短信正文。静默警报不在正文中声张，与普通紧急短信同文案。
func BuildSMSBody(msg model.SMSFanoutMessage) string {
	text := fmt.Sprintf("EMERGENCY [%s]: %s needs assistance.", msg.Level, msg.UserName)
	if msg.Location != nil {
		text += fmt.Sprintf(" Location: https://maps.google.com/?q=%f,%f", msg.Location.Lat, msg.Location.Lng)
	} else {
		text += " Location: Unknown"
	}
	return text
}
