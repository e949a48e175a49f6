package storefront

import (
	"fmt"
	"regexp"
)

// SubmittedLine is one cart line as the client submits it.
type SubmittedLine struct {
	ItemID       int64  `json:"item_id"`
	Quantity     int    `json:"quantity"`
	SugarFree    bool   `json:"sugar_free"`
	Instructions string `json:"instructions,omitempty"`
}

// PlaceOrderRequest is the submit payload: the customer's name plus the
// cart lines to freeze into an order.
type PlaceOrderRequest struct {
	CustomerName string          `json:"customer_name"`
	Lines        []SubmittedLine `json:"lines"`
}

// PlaceOrderResponse confirms a created order.
type PlaceOrderResponse struct {
	OrderID     string  `json:"order_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

// UpdateStatusRequest carries an operator's status command.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ArchiveResponse reports the bulk end-of-day result.
type ArchiveResponse struct {
	ArchivedCount int64 `json:"archived_count"`
}

// MenuItemRequest carries an operator's catalog create or edit.
type MenuItemRequest struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	Available        bool    `json:"available"`
	SugarFreeCapable bool    `json:"sugar_free_capable"`
}

// SetAvailabilityRequest flips the sold-out flag on one item.
type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}

var validNamePattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)

// Validate checks the submit payload before any store access.
func (req *PlaceOrderRequest) Validate() error {
	if len(req.CustomerName) == 0 {
		return fmt.Errorf("customer_name is required")
	}
	if len(req.CustomerName) > 100 {
		return fmt.Errorf("customer_name must not exceed 100 characters")
	}
	if !validNamePattern.MatchString(req.CustomerName) {
		return fmt.Errorf("customer_name contains invalid characters")
	}

	if len(req.Lines) == 0 {
		return fmt.Errorf("lines array cannot be empty")
	}
	if len(req.Lines) > 20 {
		return fmt.Errorf("lines array cannot contain more than 20 lines")
	}

	for i, line := range req.Lines {
		prefix := fmt.Sprintf("lines[%d]", i)
		if line.ItemID <= 0 {
			return fmt.Errorf("%s.item_id must be positive", prefix)
		}
		if line.Quantity < 1 || line.Quantity > 10 {
			return fmt.Errorf("%s.quantity must be between 1 and 10", prefix)
		}
		if len(line.Instructions) > 200 {
			return fmt.Errorf("%s.instructions must not exceed 200 characters", prefix)
		}
	}

	return nil
}

// Validate checks a catalog edit payload.
func (req *MenuItemRequest) Validate() error {
	if len(req.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(req.Name) > 100 {
		return fmt.Errorf("name must not exceed 100 characters")
	}
	if len(req.Category) == 0 {
		return fmt.Errorf("category is required")
	}
	if len(req.Category) > 100 {
		return fmt.Errorf("category must not exceed 100 characters")
	}
	if req.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}
