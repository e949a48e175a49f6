package sync

import (
	"context"
	"encoding/json"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

type fakeSource struct {
	mu        stdsync.Mutex
	orders    []models.Order
	menu      []models.MenuItem
	written   []Mutation
	updateErr error
}

func (s *fakeSource) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...), nil
}

func (s *fakeSource) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MenuItem(nil), s.menu...), nil
}

func (s *fakeSource) UpdateOrderStatus(ctx context.Context, id string, to models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = append(s.written, Mutation{OrderID: id, Status: to})
	return s.updateErr
}

func (s *fakeSource) setOrders(orders []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
}

func (s *fakeSource) writtenMutations() []Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Mutation(nil), s.written...)
}

type fakeFeed struct {
	events chan models.ChangeEvent
	errs   chan error
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		events: make(chan models.ChangeEvent),
		errs:   make(chan error),
	}
}

func (f *fakeFeed) Listen(ctx context.Context, out chan<- models.ChangeEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-f.errs:
			return err
		case ev := <-f.events:
			select {
			case out <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func startEngine(t *testing.T, source Source, feed Feed, opts Options) *Engine {
	t.Helper()
	engine := New(source, feed, logger.New("sync-test"), opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = engine.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return engine
}

func TestEnginePollSnapshotVisible(t *testing.T) {
	source := &fakeSource{
		orders: []models.Order{{ID: "o1", CustomerName: "Ravi", Status: models.StatusSent}},
		menu:   []models.MenuItem{{ID: 1, Name: "Kadak Chai", Price: 15, Available: true}},
	}
	engine := startEngine(t, source, newFakeFeed(), Options{PollInterval: 20 * time.Millisecond})

	require.Eventually(t, func() bool {
		view := engine.Snapshot()
		return len(view.Orders) == 1 && len(view.Menu) == 1
	}, 2*time.Second, 10*time.Millisecond)

	view := engine.Snapshot()
	assert.Equal(t, "Ravi", view.Orders["o1"].CustomerName)
}

func TestEnginePollDropsArchivedOrders(t *testing.T) {
	source := &fakeSource{
		orders: []models.Order{
			{ID: "o1", Status: models.StatusSent},
			{ID: "o2", Status: models.StatusPreparing},
		},
	}
	engine := startEngine(t, source, newFakeFeed(), Options{PollInterval: 20 * time.Millisecond})

	require.Eventually(t, func() bool {
		return len(engine.Snapshot().Orders) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// o2 gets archived remotely and leaves the active view.
	source.setOrders([]models.Order{{ID: "o1", Status: models.StatusSent}})

	require.Eventually(t, func() bool {
		view := engine.Snapshot()
		_, gone := view.Orders["o2"]
		return !gone && len(view.Orders) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEnginePushEventVisible(t *testing.T) {
	feed := newFakeFeed()
	engine := startEngine(t, &fakeSource{}, feed, Options{PollInterval: time.Hour})

	order := models.Order{ID: "o9", CustomerName: "Meera", Status: models.StatusSent}
	raw, err := json.Marshal(order)
	require.NoError(t, err)

	feed.events <- models.ChangeEvent{EventType: models.EventInsert, Table: models.TableOrders, NewRow: raw}

	require.Eventually(t, func() bool {
		_, ok := engine.Snapshot().Orders["o9"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, engine.Degraded())
}

func TestEngineMutateOptimisticThenAuthoritative(t *testing.T) {
	source := &fakeSource{
		orders: []models.Order{{ID: "o1", Status: models.StatusSent}},
	}
	engine := startEngine(t, source, newFakeFeed(), Options{PollInterval: time.Hour})

	// The immediate startup poll seeds the view.
	require.Eventually(t, func() bool {
		_, ok := engine.Snapshot().Orders["o1"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	engine.Mutate(context.Background(), Mutation{OrderID: "o1", Status: models.StatusPreparing})

	require.Eventually(t, func() bool {
		return engine.Snapshot().Orders["o1"].Status == models.StatusPreparing
	}, 2*time.Second, 10*time.Millisecond, "optimistic status must be visible before the write resolves")

	require.Eventually(t, func() bool {
		written := source.writtenMutations()
		return len(written) == 1 && written[0] == Mutation{OrderID: "o1", Status: models.StatusPreparing}
	}, 2*time.Second, 10*time.Millisecond, "durable write must be issued")
}

func TestEngineMutateWriteFailureReported(t *testing.T) {
	source := &fakeSource{
		orders:    []models.Order{{ID: "o1", Status: models.StatusSent}},
		updateErr: errors.New("connection reset"),
	}

	var mu stdsync.Mutex
	var failed []Mutation
	opts := Options{
		PollInterval: 20 * time.Millisecond,
		OnWriteFailed: func(m Mutation, err error) {
			mu.Lock()
			failed = append(failed, m)
			mu.Unlock()
		},
	}
	engine := startEngine(t, source, newFakeFeed(), opts)

	require.Eventually(t, func() bool {
		_, ok := engine.Snapshot().Orders["o1"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	engine.Mutate(context.Background(), Mutation{OrderID: "o1", Status: models.StatusPreparing})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The poll channel reasserts the server's state afterwards.
	require.Eventually(t, func() bool {
		return engine.Snapshot().Orders["o1"].Status == models.StatusSent
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngineDegradedOnFeedFailure(t *testing.T) {
	feed := newFakeFeed()
	source := &fakeSource{
		orders: []models.Order{{ID: "o1", Status: models.StatusSent}},
	}
	engine := startEngine(t, source, feed, Options{PollInterval: 20 * time.Millisecond})

	feed.errs <- errors.New("subscription dropped")

	require.Eventually(t, engine.Degraded, 2*time.Second, 10*time.Millisecond)

	// The view keeps converging on the poll channel alone.
	require.Eventually(t, func() bool {
		_, ok := engine.Snapshot().Orders["o1"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	// Backoff reconnects the feed; a delivered event clears the flag.
	order := models.Order{ID: "o2", Status: models.StatusSent}
	raw, err := json.Marshal(order)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case feed.events <- models.ChangeEvent{EventType: models.EventInsert, Table: models.TableOrders, NewRow: raw}:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	require.Eventually(t, func() bool {
		return !engine.Degraded()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngineOnApplyHookReceivesSnapshots(t *testing.T) {
	source := &fakeSource{
		orders: []models.Order{{ID: "o1", Status: models.StatusSent}},
	}

	var mu stdsync.Mutex
	var observed []int
	engine := New(source, newFakeFeed(), logger.New("sync-test"), Options{PollInterval: 20 * time.Millisecond})
	engine.OnApply(func(v View) {
		mu.Lock()
		observed = append(observed, len(v.Orders))
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = engine.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(observed) > 0 && observed[len(observed)-1] == 1
	}, 2*time.Second, 10*time.Millisecond)
}
