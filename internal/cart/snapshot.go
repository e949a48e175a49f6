package cart

import (
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// Snapshot freezes the current name and price of each referenced menu item
// into immutable order items, exactly once, atomically with order creation.
// Operators adjust menu pricing live, so past receipts must not follow the
// catalog. The total is computed here and never recomputed.
func Snapshot(catalog Catalog, lines []Line) ([]models.OrderItem, float64, error) {
	if len(lines) == 0 {
		return nil, 0, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(lines))
	var total float64

	for _, line := range lines {
		item, ok := catalog.Item(line.Key.ItemID)
		if !ok || !item.Available {
			return nil, 0, ErrItemUnavailable
		}
		if line.Key.SugarFree && !item.SugarFreeCapable {
			return nil, 0, ErrItemUnavailable
		}

		items = append(items, models.OrderItem{
			ItemName:     item.Name,
			UnitPrice:    item.Price,
			Quantity:     line.Quantity,
			SugarFree:    line.Key.SugarFree,
			Instructions: line.Instructions,
		})
		total += item.Price * float64(line.Quantity)
	}

	return items, total, nil
}

// CatalogFromItems builds a point-in-time catalog from a menu listing. The
// storefront fetches the menu once per submission so availability checks
// and the price snapshot see the same catalog state.
func CatalogFromItems(items []models.MenuItem) Catalog {
	c := make(mapCatalog, len(items))
	for _, item := range items {
		c[item.ID] = item
	}
	return c
}

type mapCatalog map[int64]models.MenuItem

func (c mapCatalog) Item(id int64) (models.MenuItem, bool) {
	item, ok := c[id]
	return item, ok
}
