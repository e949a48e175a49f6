// Package notify derives exactly-once "new order" alerts from the stream
// of possibly-duplicated view observations the sync engine produces.
package notify

import (
	"context"
	"sync"

	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// AlertFunc handles one alert for a newly appeared order.
type AlertFunc func(ctx context.Context, order models.Order)

// Dispatcher fires one alert per newly appeared order id, no matter how
// many times the same creation is observed (once via push, then again on
// every poll cycle until the order leaves the view). Alerting on raw
// insert events or on every poll would duplicate; the id-set diff cannot.
type Dispatcher struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	seeded bool

	alert  AlertFunc
	logger *logger.Logger
}

// NewDispatcher creates a dispatcher delivering through alert.
func NewDispatcher(alert AlertFunc, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		seen:   make(map[string]struct{}),
		alert:  alert,
		logger: log,
	}
}

// Observe diffs the current order id set against the previous observation
// and fires one alert per id that appeared. The very first observation
// seeds the set silently, so a console restart does not re-alert the
// whole backlog.
func (d *Dispatcher) Observe(ctx context.Context, orders map[string]models.Order) {
	d.mu.Lock()

	current := make(map[string]struct{}, len(orders))
	var fresh []models.Order
	for id, order := range orders {
		current[id] = struct{}{}
		if _, ok := d.seen[id]; !ok {
			fresh = append(fresh, order)
		}
	}

	seeded := d.seeded
	d.seen = current
	d.seeded = true
	d.mu.Unlock()

	if !seeded {
		return
	}

	for _, order := range fresh {
		d.logger.Info("new_order_alert", "New order appeared in view", "", map[string]interface{}{
			"order_id":      order.ID,
			"customer_name": order.CustomerName,
			"total_amount":  order.TotalAmount,
		})
		if d.alert != nil {
			d.alert(ctx, order)
		}
	}
}
