package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

func TestFormatAlert(t *testing.T) {
	alert := &models.NewOrderAlert{
		OrderID:      "3f1c2a",
		CustomerName: "Ravi",
		TotalAmount:  50,
		ItemCount:    3,
		PlacedAt:     time.Date(2026, 8, 31, 9, 15, 42, 0, time.UTC),
	}

	got := formatAlert(alert)

	assert.Equal(t, "🔔 [09:15:42] New order 3f1c2a from Ravi - 3 item(s), ₹50", got)
}

func TestHandleAlertRejectsMalformedBody(t *testing.T) {
	s := NewSubscriber(nil, logger.New("alerts-test"))

	err := s.handleAlert(context.Background(), []byte("not json"))
	require.Error(t, err)

	err = s.handleAlert(context.Background(), []byte(`{"order_id":"o1","customer_name":"Ravi","total_amount":50,"item_count":2,"placed_at":"2026-08-31T09:15:42Z"}`))
	assert.NoError(t, err)
}
