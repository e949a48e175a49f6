package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakash-redy/cravin-lije/internal/models"
)

func TestSnapshotFreezesNameAndPrice(t *testing.T) {
	menu := []models.MenuItem{
		{ID: 1, Name: "Kadak Chai", Price: 15, Available: true, SugarFreeCapable: true},
		{ID: 2, Name: "Ginger Chai", Price: 20, Available: true, SugarFreeCapable: true},
	}
	lines := []Line{
		{Key: LineKey{ItemID: 1}, Quantity: 2},
		{Key: LineKey{ItemID: 2, SugarFree: true}, Quantity: 1, Instructions: "less milk"},
	}

	items, total, err := Snapshot(CatalogFromItems(menu), lines)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, models.OrderItem{ItemName: "Kadak Chai", UnitPrice: 15, Quantity: 2}, items[0])
	assert.Equal(t, models.OrderItem{ItemName: "Ginger Chai", UnitPrice: 20, Quantity: 1, SugarFree: true, Instructions: "less milk"}, items[1])
	assert.InDelta(t, 50.0, total, 1e-9)

	// Catalog changes after the freeze never touch the snapshot.
	menu[0].Price = 99
	menu[0].Name = "Masala Chai"
	assert.Equal(t, "Kadak Chai", items[0].ItemName)
	assert.InDelta(t, 15.0, items[0].UnitPrice, 1e-9)
}

func TestSnapshotEmptyCartRejected(t *testing.T) {
	_, _, err := Snapshot(CatalogFromItems(nil), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSnapshotUnavailableAtSubmitRejected(t *testing.T) {
	menu := []models.MenuItem{
		{ID: 1, Name: "Samosa", Price: 12, Available: false},
		{ID: 2, Name: "Filter Coffee", Price: 30, Available: true, SugarFreeCapable: false},
	}

	// Item flipped unavailable between cart build and submit.
	_, _, err := Snapshot(CatalogFromItems(menu), []Line{{Key: LineKey{ItemID: 1}, Quantity: 1}})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	// Item deleted between cart build and submit.
	_, _, err = Snapshot(CatalogFromItems(menu), []Line{{Key: LineKey{ItemID: 9}, Quantity: 1}})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	// Sugar-free variant of a non-capable item.
	_, _, err = Snapshot(CatalogFromItems(menu), []Line{{Key: LineKey{ItemID: 2, SugarFree: true}, Quantity: 1}})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}
