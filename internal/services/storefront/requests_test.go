package storefront

import (
	"strings"
	"testing"
)

func validRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		CustomerName: "Ravi Kumar",
		Lines: []SubmittedLine{
			{ItemID: 1, Quantity: 2},
			{ItemID: 2, Quantity: 1, SugarFree: true, Instructions: "less milk"},
		},
	}
}

func TestPlaceOrderRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*PlaceOrderRequest)
		wantErr bool
	}{
		{
			name:    "valid request",
			modify:  func(r *PlaceOrderRequest) {},
			wantErr: false,
		},
		{
			name:    "name with apostrophe and hyphen",
			modify:  func(r *PlaceOrderRequest) { r.CustomerName = "D'Souza-Rao" },
			wantErr: false,
		},
		{
			name:    "empty name",
			modify:  func(r *PlaceOrderRequest) { r.CustomerName = "" },
			wantErr: true,
		},
		{
			name:    "name too long",
			modify:  func(r *PlaceOrderRequest) { r.CustomerName = strings.Repeat("a", 101) },
			wantErr: true,
		},
		{
			name:    "name with digits",
			modify:  func(r *PlaceOrderRequest) { r.CustomerName = "Ravi123" },
			wantErr: true,
		},
		{
			name:    "empty lines",
			modify:  func(r *PlaceOrderRequest) { r.Lines = nil },
			wantErr: true,
		},
		{
			name: "too many lines",
			modify: func(r *PlaceOrderRequest) {
				r.Lines = make([]SubmittedLine, 21)
				for i := range r.Lines {
					r.Lines[i] = SubmittedLine{ItemID: int64(i + 1), Quantity: 1}
				}
			},
			wantErr: true,
		},
		{
			name:    "zero item id",
			modify:  func(r *PlaceOrderRequest) { r.Lines[0].ItemID = 0 },
			wantErr: true,
		},
		{
			name:    "zero quantity",
			modify:  func(r *PlaceOrderRequest) { r.Lines[0].Quantity = 0 },
			wantErr: true,
		},
		{
			name:    "quantity over limit",
			modify:  func(r *PlaceOrderRequest) { r.Lines[0].Quantity = 11 },
			wantErr: true,
		},
		{
			name:    "instructions too long",
			modify:  func(r *PlaceOrderRequest) { r.Lines[1].Instructions = strings.Repeat("x", 201) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(&req)

			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMenuItemRequestValidate(t *testing.T) {
	valid := MenuItemRequest{
		Name:      "Traditional Kadha",
		Category:  "Immunity Boosters",
		Price:     25,
		Available: true,
	}

	tests := []struct {
		name    string
		modify  func(*MenuItemRequest)
		wantErr bool
	}{
		{
			name:    "valid request",
			modify:  func(r *MenuItemRequest) {},
			wantErr: false,
		},
		{
			name:    "free item",
			modify:  func(r *MenuItemRequest) { r.Price = 0 },
			wantErr: false,
		},
		{
			name:    "empty name",
			modify:  func(r *MenuItemRequest) { r.Name = "" },
			wantErr: true,
		},
		{
			name:    "name too long",
			modify:  func(r *MenuItemRequest) { r.Name = strings.Repeat("a", 101) },
			wantErr: true,
		},
		{
			name:    "empty category",
			modify:  func(r *MenuItemRequest) { r.Category = "" },
			wantErr: true,
		},
		{
			name:    "category too long",
			modify:  func(r *MenuItemRequest) { r.Category = strings.Repeat("a", 101) },
			wantErr: true,
		},
		{
			name:    "negative price",
			modify:  func(r *MenuItemRequest) { r.Price = -5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)

			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
