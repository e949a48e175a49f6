package models

import "time"

// MenuItem is a catalog entry. Operators edit it live; the order core only
// reads it, and never after an order has been created.
type MenuItem struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Price            float64   `json:"price"`
	Available        bool      `json:"available"`
	SugarFreeCapable bool      `json:"sugar_free_capable"`
	UpdatedAt        time.Time `json:"updated_at"`
}
