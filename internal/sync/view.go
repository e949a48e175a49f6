// Package sync keeps a client's local view of orders and menu items
// eventually consistent with the authoritative store, combining a push
// change feed with a polling safety net and optimistic local mutation.
package sync

import (
	"fmt"

	"github.com/aakash-redy/cravin-lije/internal/models"
)

// View is the local replica read by the rendering layer. Both sync
// channels and optimistic mutations write into it as replace-by-id; there
// is no merge of partial fields, so concurrent writers stay commutative.
type View struct {
	Orders map[string]models.Order
	Menu   map[int64]models.MenuItem
}

// NewView creates an empty local view.
func NewView() *View {
	return &View{
		Orders: make(map[string]models.Order),
		Menu:   make(map[int64]models.MenuItem),
	}
}

func (v *View) copy() View {
	out := View{
		Orders: make(map[string]models.Order, len(v.Orders)),
		Menu:   make(map[int64]models.MenuItem, len(v.Menu)),
	}
	for id, order := range v.Orders {
		out.Orders[id] = order
	}
	for id, item := range v.Menu {
		out.Menu[id] = item
	}
	return out
}

// Mutation is an optimistic local guess at the outcome of a durable write.
// It is always superseded by the next authoritative record for the same id
// from either channel; the engine never rolls a guess back explicitly.
type Mutation struct {
	OrderID string
	Status  models.OrderStatus
}

// ApplyOptimistic flips the local copy of an order before the durable
// write resolves. An unknown order id is ignored.
func ApplyOptimistic(v *View, m Mutation) {
	order, ok := v.Orders[m.OrderID]
	if !ok {
		return
	}
	order.Status = m.Status
	if !order.InView() {
		delete(v.Orders, m.OrderID)
		return
	}
	v.Orders[m.OrderID] = order
}

// ApplyChange merges one push-channel event into the view. Incoming
// records overwrite the local copy unconditionally (last writer wins by
// server commit order within the channel).
func ApplyChange(v *View, event models.ChangeEvent) error {
	switch event.Table {
	case models.TableOrders:
		order, err := event.DecodeOrder()
		if err != nil {
			return fmt.Errorf("failed to decode order change: %w", err)
		}
		if event.EventType == models.EventDelete || !order.InView() {
			delete(v.Orders, order.ID)
			return nil
		}
		v.Orders[order.ID] = order
	case models.TableMenuItems:
		item, err := event.DecodeMenuItem()
		if err != nil {
			return fmt.Errorf("failed to decode menu change: %w", err)
		}
		if event.EventType == models.EventDelete {
			delete(v.Menu, item.ID)
			return nil
		}
		v.Menu[item.ID] = item
	default:
		return fmt.Errorf("change event for unknown table %q", event.Table)
	}
	return nil
}

// ReconcileOrders merges a full active-view snapshot. Every record in the
// snapshot replaces its local copy; ids absent from the snapshot have left
// the view (archived) and are dropped by the id-set comparison.
func ReconcileOrders(v *View, orders []models.Order) {
	current := make(map[string]struct{}, len(orders))
	for _, order := range orders {
		current[order.ID] = struct{}{}
		v.Orders[order.ID] = order
	}
	for id := range v.Orders {
		if _, ok := current[id]; !ok {
			delete(v.Orders, id)
		}
	}
}

// ReconcileMenu merges a full catalog snapshot, same id-set rule.
func ReconcileMenu(v *View, items []models.MenuItem) {
	current := make(map[int64]struct{}, len(items))
	for _, item := range items {
		current[item.ID] = struct{}{}
		v.Menu[item.ID] = item
	}
	for id := range v.Menu {
		if _, ok := current[id]; !ok {
			delete(v.Menu, id)
		}
	}
}
