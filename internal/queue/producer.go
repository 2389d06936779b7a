package queue

import (
	"context"
	"strconv"
	"sync"

	"sentinel/internal/model"
	"sentinel/pkg/snowflake"
	"sentinel/storage/mq"
)

const (
	NotifyExchange      = "sentinel.notify"
	SMSFanoutQueue      = "sentinel.sms.fanout"
	SMSFanoutRoutingKey = "notify.sms.fanout"
)

var (
	topologyMu       sync.Mutex
	topologyDeclared bool
)

// ensureTopology 发布前声明一次拓扑，发布方先于 worker 启动时交换机也已就位。
// 声明失败不缓存，下次发布重试。
func ensureTopology() error {
	topologyMu.Lock()
	defer topologyMu.Unlock()
	if topologyDeclared {
		return nil
	}

	ch, err := mq.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := mq.DeclareTopology(ch, NotifyExchange, SMSFanoutQueue, SMSFanoutRoutingKey); err != nil {
		return err
	}
	topologyDeclared = true
	return nil
}

// PublishSMSFanout 发布一条短信扇出任务。短信腿是尽力而为通道，
// 调用方对返回的错误只记日志不回滚。
func PublishSMSFanout(ctx context.Context, msg model.SMSFanoutMessage) error {
	if err := ensureTopology(); err != nil {
		return err
	}

	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return err
		}
		msg.MessageID = strconv.FormatInt(id, 10)
	}
	return mq.Publish(ctx, NotifyExchange, SMSFanoutRoutingKey, msg)
}
