package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// QueueConfig описывает очередь уведомлений и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди пайплайна уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.premium_decisions", RoutingKey: "premium_decision"},
		// при необходимости дополнительные очереди для других воркеров
	}
}

// SetupChannel открывает канал, объявляет exchange notifications
// и привязывает к нему все очереди уведомлений.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		"notifications",
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, "notifications", false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, q.QueueName, err)
		}
	}
	return ch, nil
}
