package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/aakash-redy/cravin-lije/internal/logger"
)

// Publisher publishes kitchen alerts to the fanout exchange.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a publisher over an open connection.
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishAlert publishes one alert message to the alert fanout.
func (p *Publisher) PublishAlert(ctx context.Context, alert interface{}) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 2, // persistent
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		AlertsExchange, // exchange
		"",             // routing key (fanout)
		false,          // mandatory
		false,          // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("alert_publish_failed",
			fmt.Sprintf("Failed to publish alert to exchange %s", AlertsExchange),
			"", err, nil)
		return fmt.Errorf("failed to publish alert: %w", err)
	}

	p.logger.Debug("alert_published",
		fmt.Sprintf("Published alert to exchange %s", AlertsExchange),
		"", map[string]interface{}{
			"message_size": len(body),
		})

	return nil
}
