package models

import "fmt"

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

const (
	StatusSent      OrderStatus = "sent"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusArchived  OrderStatus = "archived"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions holds the allowed forward moves for each status. The forward
// path advances one step at a time; cancellation is reachable from every
// non-delivered working state, archival from delivered and (via the bulk
// end-of-day action) from any non-terminal state.
var transitions = map[OrderStatus][]OrderStatus{
	StatusSent:      {StatusPreparing, StatusCancelled, StatusArchived},
	StatusPreparing: {StatusReady, StatusCancelled, StatusArchived},
	StatusReady:     {StatusDelivered, StatusCancelled, StatusArchived},
	StatusDelivered: {StatusArchived},
	StatusArchived:  {},
	StatusCancelled: {},
}

// InvalidTransitionError reports a status move that is not in the table.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// ParseOrderStatus validates a raw status string at the store boundary.
// Unknown values are rejected rather than propagated.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusSent, StatusPreparing, StatusReady, StatusDelivered, StatusArchived, StatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Terminal reports whether no further transitions are accepted.
func (s OrderStatus) Terminal() bool {
	return s == StatusArchived || s == StatusCancelled
}

// ValidateTransition checks a status move against the transition table.
// Re-applying the current status is a no-op success: multiple operator
// devices may issue the same command concurrently after a stale read.
func ValidateTransition(from, to OrderStatus) error {
	if from == to {
		return nil
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// UnmarshalJSON enforces the closed status enum when decoding rows
// arriving from the change feed or poll snapshots.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("order status must be a JSON string")
	}
	parsed, err := ParseOrderStatus(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
