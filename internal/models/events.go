package models

import (
	"encoding/json"
	"time"
)

// Table names carried by change-feed events.
const (
	TableOrders    = "orders"
	TableMenuItems = "menu_items"
)

// ChangeEventType mirrors the trigger operation names emitted by Postgres.
type ChangeEventType string

const (
	EventInsert ChangeEventType = "INSERT"
	EventUpdate ChangeEventType = "UPDATE"
	EventDelete ChangeEventType = "DELETE"
)

// ChangeEvent is one row-level change delivered over the push channel.
type ChangeEvent struct {
	EventType ChangeEventType `json:"event_type"`
	Table     string          `json:"table"`
	NewRow    json.RawMessage `json:"new_row"`
}

// DecodeOrder decodes the event row as an order. The status enum is
// enforced during decoding, so a row with an unknown status fails here
// instead of leaking into the local view.
func (e *ChangeEvent) DecodeOrder() (Order, error) {
	var o Order
	err := json.Unmarshal(e.NewRow, &o)
	return o, err
}

// DecodeMenuItem decodes the event row as a menu item.
func (e *ChangeEvent) DecodeMenuItem() (MenuItem, error) {
	var m MenuItem
	err := json.Unmarshal(e.NewRow, &m)
	return m, err
}

// NewOrderAlert is the message published to the kitchen alert fanout when
// an order first appears in the view.
type NewOrderAlert struct {
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  float64   `json:"total_amount"`
	ItemCount    int       `json:"item_count"`
	PlacedAt     time.Time `json:"placed_at"`
}

// NewOrderAlertFromOrder builds the alert payload for a freshly seen order.
func NewOrderAlertFromOrder(o Order) NewOrderAlert {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return NewOrderAlert{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		TotalAmount:  o.TotalAmount,
		ItemCount:    count,
		PlacedAt:     o.CreatedAt,
	}
}
