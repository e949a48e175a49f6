package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

type alertRecorder struct {
	fired []string
}

func (r *alertRecorder) record(ctx context.Context, order models.Order) {
	r.fired = append(r.fired, order.ID)
}

func ordersByID(ids ...string) map[string]models.Order {
	out := make(map[string]models.Order, len(ids))
	for _, id := range ids {
		out[id] = models.Order{ID: id, CustomerName: "Ravi", Status: models.StatusSent}
	}
	return out
}

func TestFirstObservationSeedsSilently(t *testing.T) {
	rec := &alertRecorder{}
	d := NewDispatcher(rec.record, logger.New("notify-test"))

	d.Observe(context.Background(), ordersByID("o1", "o2", "o3"))

	assert.Empty(t, rec.fired, "a restart must not re-alert the backlog")
}

func TestAlertFiresOncePerNewOrder(t *testing.T) {
	rec := &alertRecorder{}
	d := NewDispatcher(rec.record, logger.New("notify-test"))

	d.Observe(context.Background(), ordersByID("o1"))
	require.Empty(t, rec.fired)

	// The same creation is observed many times: once from the push
	// channel, then again on every poll cycle.
	for i := 0; i < 5; i++ {
		d.Observe(context.Background(), ordersByID("o1", "o2"))
	}

	assert.Equal(t, []string{"o2"}, rec.fired)
}

func TestMultipleNewOrdersEachAlert(t *testing.T) {
	rec := &alertRecorder{}
	d := NewDispatcher(rec.record, logger.New("notify-test"))

	d.Observe(context.Background(), ordersByID("o1"))
	d.Observe(context.Background(), ordersByID("o1", "o2", "o3"))

	assert.ElementsMatch(t, []string{"o2", "o3"}, rec.fired)
}

func TestDepartedOrderDoesNotAlertOnReturn(t *testing.T) {
	rec := &alertRecorder{}
	d := NewDispatcher(rec.record, logger.New("notify-test"))

	d.Observe(context.Background(), ordersByID("o1", "o2"))
	// o2 archived, leaves the view.
	d.Observe(context.Background(), ordersByID("o1"))
	require.Empty(t, rec.fired)

	// A record reappearing after leaving the set counts as new again;
	// in practice archived orders never return, so this only covers the
	// diff semantics.
	d.Observe(context.Background(), ordersByID("o1", "o2"))
	assert.Equal(t, []string{"o2"}, rec.fired)
}

func TestNilAlertFuncIsSafe(t *testing.T) {
	d := NewDispatcher(nil, logger.New("notify-test"))

	d.Observe(context.Background(), ordersByID("o1"))
	d.Observe(context.Background(), ordersByID("o1", "o2"))
}
