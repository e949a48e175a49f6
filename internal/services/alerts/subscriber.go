// Package alerts consumes the kitchen alert fanout and renders
// human-readable notifications on the console.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/messaging"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// Subscriber displays new-order alerts.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// NewSubscriber creates an alert subscriber.
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
	}
}

// Start consumes alerts until the context is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info("service_started", "Alert subscriber started", "", nil)
	return s.consumer.StartConsuming(ctx, s.handleAlert)
}

func (s *Subscriber) handleAlert(ctx context.Context, body []byte) error {
	var alert models.NewOrderAlert
	if err := json.Unmarshal(body, &alert); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse alert message", "", err, nil)
		return fmt.Errorf("failed to parse alert: %w", err)
	}

	fmt.Println(formatAlert(&alert))

	s.logger.Info("alert_displayed", "New order alert displayed", "", map[string]interface{}{
		"order_id":      alert.OrderID,
		"customer_name": alert.CustomerName,
		"total_amount":  alert.TotalAmount,
	})

	return nil
}

func formatAlert(alert *models.NewOrderAlert) string {
	return fmt.Sprintf("🔔 [%s] New order %s from %s - %d item(s), ₹%.0f",
		alert.PlacedAt.Format("15:04:05"),
		alert.OrderID,
		alert.CustomerName,
		alert.ItemCount,
		alert.TotalAmount,
	)
}

// Close stops the underlying consumer.
func (s *Subscriber) Close() error {
	return s.consumer.Close()
}
