package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

const notificationQueue = "notification_queue"

// publishNotification hands a notification event to the queue; the notifier
// worker owns delivery.
func (h *Handler) publishNotification(msg domain.NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.notifyChannel.PublishWithContext(
		ctx,
		"",
		notificationQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// notify is publishNotification for business events: a failed publish is
// logged and swallowed so notification trouble never fails the state
// transition that triggered it.
func (h *Handler) notify(msg domain.NotificationMessage) {
	if err := h.publishNotification(msg); err != nil {
		slog.Error("failed to publish notification", "type", msg.Type, "recipient", msg.RecipientID, "error", err)
	}
}
