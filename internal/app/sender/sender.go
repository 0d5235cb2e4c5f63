// Package sender собирает воркер почтовых уведомлений:
// подключение к брокеру, SMTP-транспорт и потребитель очереди решений.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/membership-hub/internal/config"
	"github.com/magabrotheeeer/membership-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/membership-hub/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/membership-hub/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.ConnectionString, cfg.RabbitMQ.ConnectRetries, cfg.RabbitMQ.ConnectDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.New(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "notifications.premium_decisions", a.senderService.SendDecisionNotification)
	if err != nil {
		a.logger.Error("failed to start premium_decisions consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
