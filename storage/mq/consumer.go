package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consume 声明拓扑并返回投递通道。prefetch 限制单消费者在途消息数。
func Consume(exchange, queue, routingKey string, prefetch int) (*amqp.Channel, <-chan amqp.Delivery, error) {
	ch, err := Channel()
	if err != nil {
		return nil, nil, err
	}

	if err := DeclareTopology(ch, exchange, queue, routingKey); err != nil {
		ch.Close()
		return nil, nil, err
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("failed to start consuming %s: %w", queue, err)
	}
	return ch, deliveries, nil
}
