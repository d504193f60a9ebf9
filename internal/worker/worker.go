package worker

import (
	"context"

	"github.com/zhaxal/ringi-task/internal/broker"
	"github.com/zhaxal/ringi-task/internal/service"
	"github.com/zhaxal/ringi-task/internal/util"
)

// NotificationWorker consumes OrderPlaced events and runs the push fan-out in
// the background, decoupled from the order request path.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, notifications *service.NotificationService) *NotificationWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(notifications.HandleOrderPlaced)

	return &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start runs the consume loop until the context is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop closes the underlying consumer
func (w *NotificationWorker) Stop() error {
	util.GetLogger().Info("Stopping notification worker")
	return w.consumer.Close()
}
