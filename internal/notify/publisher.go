package notify

import (
	"context"

	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// AlertPublisher is the broker side of alert delivery.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert interface{}) error
}

// PublishTo adapts a broker publisher into an AlertFunc. Publish failures
// are logged and swallowed: the order itself is already durable, only the
// chime is lost.
func PublishTo(pub AlertPublisher, log *logger.Logger) AlertFunc {
	return func(ctx context.Context, order models.Order) {
		alert := models.NewOrderAlertFromOrder(order)
		if err := pub.PublishAlert(ctx, alert); err != nil {
			log.Error("alert_publish_failed", "Failed to publish new order alert", "", err, map[string]interface{}{
				"order_id": order.ID,
			})
		}
	}
}
