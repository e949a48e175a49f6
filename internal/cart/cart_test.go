package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakash-redy/cravin-lije/internal/models"
)

func testCatalog() Catalog {
	return CatalogFromItems([]models.MenuItem{
		{ID: 1, Name: "Kadak Chai", Category: "Chai Varieties", Price: 15, Available: true, SugarFreeCapable: true},
		{ID: 2, Name: "Ginger Chai", Category: "Chai Varieties", Price: 20, Available: true, SugarFreeCapable: true},
		{ID: 3, Name: "Filter Coffee", Category: "Coffee Varieties", Price: 30, Available: true, SugarFreeCapable: false},
		{ID: 4, Name: "Samosa", Category: "Snacks", Price: 12, Available: false, SugarFreeCapable: false},
	})
}

func TestAddLineVariantsAreDistinct(t *testing.T) {
	agg := NewAggregator(testCatalog())

	_, err := agg.AddLine(1, false)
	require.NoError(t, err)
	_, err = agg.AddLine(1, true)
	require.NoError(t, err)

	lines := agg.Lines()
	require.Len(t, lines, 2, "plain and sugar-free must be separate lines")
	assert.Equal(t, LineKey{ItemID: 1, SugarFree: false}, lines[0].Key)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, LineKey{ItemID: 1, SugarFree: true}, lines[1].Key)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestAddRemoveArithmetic(t *testing.T) {
	agg := NewAggregator(testCatalog())

	adds, removes := 5, 3
	for i := 0; i < adds; i++ {
		_, err := agg.AddLine(2, false)
		require.NoError(t, err)
	}
	for i := 0; i < removes; i++ {
		agg.RemoveLine(2, false)
	}

	lines := agg.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, adds-removes, lines[0].Quantity)
}

func TestRemoveToZeroDeletesLine(t *testing.T) {
	agg := NewAggregator(testCatalog())

	_, err := agg.AddLine(1, false)
	require.NoError(t, err)
	agg.RemoveLine(1, false)

	assert.True(t, agg.Empty(), "quantity 0 means the line is absent")

	// Extra removes on an absent line stay a no-op.
	agg.RemoveLine(1, false)
	assert.True(t, agg.Empty())
}

func TestAddUnavailableItemRejected(t *testing.T) {
	agg := NewAggregator(testCatalog())

	_, err := agg.AddLine(4, false)
	assert.ErrorIs(t, err, ErrItemUnavailable)

	_, err = agg.AddLine(99, false)
	assert.ErrorIs(t, err, ErrItemUnavailable, "unknown item behaves as unavailable")

	_, err = agg.AddLine(3, true)
	assert.ErrorIs(t, err, ErrItemUnavailable, "sugar-free variant of a non-capable item")
}

func TestSetInstructionsScopedToOneLine(t *testing.T) {
	agg := NewAggregator(testCatalog())

	_, err := agg.AddLine(1, false)
	require.NoError(t, err)
	_, err = agg.AddLine(1, true)
	require.NoError(t, err)

	require.NoError(t, agg.SetInstructions(LineKey{ItemID: 1, SugarFree: true}, "extra hot"))

	lines := agg.Lines()
	assert.Empty(t, lines[0].Instructions)
	assert.Equal(t, "extra hot", lines[1].Instructions)

	err = agg.SetInstructions(LineKey{ItemID: 2, SugarFree: false}, "x")
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestToggleVariantRoundTrip(t *testing.T) {
	agg := NewAggregator(testCatalog())

	for i := 0; i < 3; i++ {
		_, err := agg.AddLine(1, false)
		require.NoError(t, err)
	}
	key := LineKey{ItemID: 1, SugarFree: false}

	dest, err := agg.ToggleVariant(key)
	require.NoError(t, err)
	assert.Equal(t, LineKey{ItemID: 1, SugarFree: true}, dest)

	back, err := agg.ToggleVariant(dest)
	require.NoError(t, err)
	assert.Equal(t, key, back)

	lines := agg.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, key, lines[0].Key)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestToggleVariantMergesOnCollision(t *testing.T) {
	agg := NewAggregator(testCatalog())

	for i := 0; i < 2; i++ {
		_, err := agg.AddLine(1, false)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := agg.AddLine(1, true)
		require.NoError(t, err)
	}

	dest, err := agg.ToggleVariant(LineKey{ItemID: 1, SugarFree: false})
	require.NoError(t, err)
	assert.Equal(t, LineKey{ItemID: 1, SugarFree: true}, dest)

	lines := agg.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity, "colliding lines merge quantities")
}

func TestToggleVariantRejectsNonCapableItem(t *testing.T) {
	agg := NewAggregator(testCatalog())

	_, err := agg.AddLine(3, false)
	require.NoError(t, err)

	_, err = agg.ToggleVariant(LineKey{ItemID: 3, SugarFree: false})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestTotalUsesLivePrices(t *testing.T) {
	items := []models.MenuItem{
		{ID: 1, Name: "Kadak Chai", Price: 15, Available: true, SugarFreeCapable: true},
	}
	catalog := CatalogFromItems(items)
	agg := NewAggregator(catalog)

	_, err := agg.AddLine(1, false)
	require.NoError(t, err)
	_, err = agg.AddLine(1, false)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, agg.Total(), 1e-9)

	// Pre-submission the total follows the catalog.
	items[0].Price = 18
	agg2 := NewAggregator(CatalogFromItems(items))
	_, err = agg2.AddLine(1, false)
	require.NoError(t, err)
	_, err = agg2.AddLine(1, false)
	require.NoError(t, err)
	assert.InDelta(t, 36.0, agg2.Total(), 1e-9)
}
