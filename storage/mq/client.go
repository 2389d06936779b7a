package mq

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"sentinel/config"
)

var (
	conn   *amqp.Connection
	connMu sync.Mutex
)

// Init 初始化 RabbitMQ 连接
func Init() error {
	connMu.Lock()
	defer connMu.Unlock()

	var err error
	conn, err = amqp.Dial(config.Cfg.GetRabbitMQURL())
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	zap.L().Info("rabbitmq connected", zap.String("addr", config.Cfg.RabbitMQAddr))
	return nil
}

// Channel 打开一个新信道，调用方负责关闭
func Channel() (*amqp.Channel, error) {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil || conn.IsClosed() {
		var err error
		conn, err = amqp.Dial(config.Cfg.GetRabbitMQURL())
		if err != nil {
			return nil, fmt.Errorf("failed to reconnect to rabbitmq: %w", err)
		}
		zap.L().Warn("rabbitmq connection re-established")
	}
	return conn.Channel()
}

// Close 关闭 RabbitMQ 连接
func Close() error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil || conn.IsClosed() {
		return nil
	}
	return conn.Close()
}
