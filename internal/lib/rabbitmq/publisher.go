// Package rabbitmq содержит публикацию сообщений в брокер уведомлений.
package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// DecisionNotifier публикует события решений по заявкам
// в exchange notifications с ключом premium_decision.
type DecisionNotifier struct {
	ch *amqp.Channel
}

// NewDecisionNotifier создает новый DecisionNotifier поверх открытого канала.
func NewDecisionNotifier(ch *amqp.Channel) *DecisionNotifier {
	return &DecisionNotifier{ch: ch}
}

// PublishDecision публикует событие решения по заявке.
func (n *DecisionNotifier) PublishDecision(info models.DecisionInfo) error {
	return PublishMessage(n.ch, "notifications", "premium_decision", info)
}

// PublishMessage сериализует message в JSON и публикует его в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
