package models

import "time"

// OrderItem is a denormalized snapshot of a menu item taken at submission
// time. It is a copy, not a live reference, so later menu price edits never
// change a historical order.
type OrderItem struct {
	ItemName     string  `json:"item_name"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	SugarFree    bool    `json:"is_sugar_free"`
	Instructions string  `json:"instructions,omitempty"`
}

// Order is created once at submission and is immutable afterwards except
// for its status, which evolves only through the transition table.
// JSON tags match the column names of the orders table so change-feed rows
// decode directly into this struct.
type Order struct {
	ID           string      `json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	CustomerName string      `json:"customer_name"`
	Status       OrderStatus `json:"status"`
	Items        []OrderItem `json:"items"`
	TotalAmount  float64     `json:"total_amount"`
}

// InView reports whether the order belongs to the active view served to
// clients. Cancelled orders stay visible so the customer's own tracking
// view keeps working; only archival removes an order.
func (o *Order) InView() bool {
	return o.Status != StatusArchived
}
