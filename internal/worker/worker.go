package worker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/webstaxinc/agra-sweets/internal/broker"
	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

// Notification is a customer-facing message about an order
type Notification struct {
	CustomerID string
	OrderID    string
	Message    string
}

// Notifier delivers notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by the global logger
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: util.GetLogger()}
}

// Notify logs n
func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info("Customer notification",
		zap.String("customer_id", n.CustomerID),
		zap.String("order_id", n.OrderID),
		zap.String("message", n.Message))
	return nil
}

// NotificationWorker turns order events into customer notifications
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	notifier     Notifier
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, notifier Notifier) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		notifier: notifier,
		logger:   util.GetLogger(),
	}

	w.eventHandler = broker.NewEventHandler()
	w.eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	w.eventHandler.OnOrderStatusChanged(w.handleStatusChanged)

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderPlaced(ctx context.Context, e *models.OrderPlacedEvent) error {
	return w.notifier.Notify(ctx, Notification{
		CustomerID: e.CustomerID,
		OrderID:    e.OrderID,
		Message:    placedMessage(e),
	})
}

func (w *NotificationWorker) handleStatusChanged(ctx context.Context, e *models.OrderStatusChangedEvent) error {
	return w.notifier.Notify(ctx, Notification{
		CustomerID: e.CustomerID,
		OrderID:    e.OrderID,
		Message:    statusMessage(e),
	})
}

func placedMessage(e *models.OrderPlacedEvent) string {
	return fmt.Sprintf("Order #%s placed: ₹%.2f, %s delivery", e.OrderID, e.Total, e.TimeSlot)
}

func statusMessage(e *models.OrderStatusChangedEvent) string {
	switch e.To {
	case models.OrderStatusOutForDelivery:
		return fmt.Sprintf("Order #%s is out for delivery", e.OrderID)
	case models.OrderStatusDelivered:
		return fmt.Sprintf("Order #%s has been delivered", e.OrderID)
	}
	return fmt.Sprintf("Order #%s status updated to %s", e.OrderID, strings.ReplaceAll(string(e.To), "-", " "))
}
