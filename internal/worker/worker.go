package worker

import (
	"context"
	"log"

	"shop-service/internal/broker"
	"shop-service/internal/mailer"
	"shop-service/internal/models"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes order-status-changed events and emails the
// order's client through the mail provider. A failed send is not committed,
// so the consumer group redelivers it.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	mailer       *mailer.Client
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, mailClient *mailer.Client) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		mailer:   mailClient,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderStatusChanged(w.handleStatusChanged)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	if event.ClientEmail == "" {
		w.logger.Warn("Status event without client email, skipping",
			zap.String("order_id", event.OrderID))
		return nil
	}

	if err := w.mailer.SendStatusEmail(ctx, event); err != nil {
		util.EmailsFailedTotal.Inc()
		w.logger.Error("Failed to send status email",
			zap.String("order_id", event.OrderID),
			zap.String("client_email", event.ClientEmail),
			zap.Error(err))
		return err
	}

	util.EmailsSentTotal.Inc()
	w.logger.Info("Status email sent",
		zap.String("order_id", event.OrderID),
		zap.String("old_status", event.OldStatus),
		zap.String("new_status", event.NewStatus),
		zap.String("client_email", event.ClientEmail))
	return nil
}
