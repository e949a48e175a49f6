// Package cart builds an ephemeral, client-local order draft from selection
// events and freezes it into immutable order items at submission time.
package cart

import (
	"errors"
	"sort"

	"github.com/aakash-redy/cravin-lije/internal/models"
)

var (
	// ErrItemUnavailable rejects adding an item that is unknown, marked
	// unavailable, or requested in a variant it does not support.
	ErrItemUnavailable = errors.New("menu item unavailable")

	// ErrLineNotFound reports an operation against a line that is not in
	// the cart.
	ErrLineNotFound = errors.New("cart line not found")

	// ErrEmptyCart rejects submitting a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
)

// Catalog provides read access to live menu items. The aggregator uses it
// for availability checks and pre-submission totals; after submission the
// catalog is never consulted again for that order.
type Catalog interface {
	Item(id int64) (models.MenuItem, bool)
}

// LineKey is the composite identity of a cart line. The same menu item
// requested plain and sugar-free occupies two distinct lines.
type LineKey struct {
	ItemID    int64
	SugarFree bool
}

// Line is one draft quantity for an (item, variant) pair.
type Line struct {
	Key          LineKey
	Quantity     int
	Instructions string
}

// Aggregator accumulates selection events into cart lines. It holds no
// server-side state and is fully re-creatable, so it needs no locking.
type Aggregator struct {
	catalog Catalog
	lines   map[LineKey]*Line
}

// NewAggregator creates an empty cart over the given catalog.
func NewAggregator(catalog Catalog) *Aggregator {
	return &Aggregator{
		catalog: catalog,
		lines:   make(map[LineKey]*Line),
	}
}

// AddLine increments the quantity of the line matching (itemID, sugarFree),
// creating it at quantity 1 if absent.
func (a *Aggregator) AddLine(itemID int64, sugarFree bool) (Line, error) {
	item, ok := a.catalog.Item(itemID)
	if !ok || !item.Available {
		return Line{}, ErrItemUnavailable
	}
	if sugarFree && !item.SugarFreeCapable {
		return Line{}, ErrItemUnavailable
	}

	key := LineKey{ItemID: itemID, SugarFree: sugarFree}
	line, exists := a.lines[key]
	if !exists {
		line = &Line{Key: key}
		a.lines[key] = line
	}
	line.Quantity++
	return *line, nil
}

// RemoveLine decrements the quantity of the matching line and deletes it
// when the quantity would reach zero. Removing an absent line is a no-op.
func (a *Aggregator) RemoveLine(itemID int64, sugarFree bool) {
	key := LineKey{ItemID: itemID, SugarFree: sugarFree}
	line, exists := a.lines[key]
	if !exists {
		return
	}
	line.Quantity--
	if line.Quantity <= 0 {
		delete(a.lines, key)
	}
}

// SetInstructions attaches free-form text to one line. Other lines sharing
// the same underlying item are unaffected.
func (a *Aggregator) SetInstructions(key LineKey, text string) error {
	line, exists := a.lines[key]
	if !exists {
		return ErrLineNotFound
	}
	line.Instructions = text
	return nil
}

// ToggleVariant re-keys a line to the opposite variant. If a line already
// exists at the destination key the two merge; instructions of the moved
// line win on collision. Returns the destination key.
func (a *Aggregator) ToggleVariant(key LineKey) (LineKey, error) {
	line, exists := a.lines[key]
	if !exists {
		return LineKey{}, ErrLineNotFound
	}

	dest := LineKey{ItemID: key.ItemID, SugarFree: !key.SugarFree}
	if dest.SugarFree {
		item, ok := a.catalog.Item(key.ItemID)
		if !ok || !item.SugarFreeCapable {
			return LineKey{}, ErrItemUnavailable
		}
	}

	existing, collision := a.lines[dest]
	if collision {
		existing.Quantity += line.Quantity
		if line.Instructions != "" {
			existing.Instructions = line.Instructions
		}
	} else {
		a.lines[dest] = &Line{Key: dest, Quantity: line.Quantity, Instructions: line.Instructions}
	}
	delete(a.lines, key)
	return dest, nil
}

// Lines returns the current draft in a stable order: by item id, plain
// variant before sugar-free.
func (a *Aggregator) Lines() []Line {
	out := make([]Line, 0, len(a.lines))
	for _, line := range a.lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.ItemID != out[j].Key.ItemID {
			return out[i].Key.ItemID < out[j].Key.ItemID
		}
		return !out[i].Key.SugarFree && out[j].Key.SugarFree
	})
	return out
}

// Total sums price x quantity over current lines using live menu prices.
// This is the only place live prices are used; submission freezes them.
func (a *Aggregator) Total() float64 {
	var total float64
	for key, line := range a.lines {
		if item, ok := a.catalog.Item(key.ItemID); ok {
			total += item.Price * float64(line.Quantity)
		}
	}
	return total
}

// Count returns the total quantity across all lines.
func (a *Aggregator) Count() int {
	count := 0
	for _, line := range a.lines {
		count += line.Quantity
	}
	return count
}

// Clear empties the cart after a successful submission.
func (a *Aggregator) Clear() {
	a.lines = make(map[LineKey]*Line)
}

// Empty reports whether the cart has no lines.
func (a *Aggregator) Empty() bool {
	return len(a.lines) == 0
}
