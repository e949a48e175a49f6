package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// ErrSyncChannelUnavailable marks a push subscription failure. It degrades
// latency, not correctness: the poll channel keeps the view converging.
var ErrSyncChannelUnavailable = errors.New("sync push channel unavailable")

// WriteFailedError reports a durable write that did not succeed. The
// optimistic local state is left as-is pending the next reconciliation.
type WriteFailedError struct {
	Mutation Mutation
	Err      error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("durable write for order %s failed: %v", e.Mutation.OrderID, e.Err)
}

func (e *WriteFailedError) Unwrap() error {
	return e.Err
}

// Source is the authoritative store as the engine consumes it.
type Source interface {
	ListActiveOrders(ctx context.Context) ([]models.Order, error)
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	UpdateOrderStatus(ctx context.Context, id string, to models.OrderStatus) error
}

// Feed is the push channel. Listen blocks while healthy and returns an
// error when the subscription drops.
type Feed interface {
	Listen(ctx context.Context, out chan<- models.ChangeEvent) error
}

// Options tunes the engine.
type Options struct {
	// PollInterval is the period of the unconditional full refetch. It
	// runs regardless of push-channel health.
	PollInterval time.Duration

	// OnWriteFailed is invoked when a mutation's durable write fails,
	// in addition to the error log. Optional.
	OnWriteFailed func(Mutation, error)
}

// update is one unit of work for the apply loop. Exactly one of the three
// shapes is populated.
type update struct {
	event    *models.ChangeEvent
	mutation *Mutation

	snapshot       bool
	snapshotOrders []models.Order
	snapshotMenu   []models.MenuItem
}

// Engine owns the local view. Both channels and optimistic mutations are
// funneled through one buffered channel consumed by a single apply
// goroutine, so shared-state writes are serialized instead of racing from
// different callback contexts.
type Engine struct {
	source Source
	feed   Feed
	logger *logger.Logger
	opts   Options

	mu   sync.RWMutex
	view *View

	updates  chan update
	hooks    []func(View)
	degraded atomic.Bool
}

// New creates a sync engine. Register OnApply hooks before calling Run.
func New(source Source, feed Feed, log *logger.Logger, opts Options) *Engine {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	return &Engine{
		source:  source,
		feed:    feed,
		logger:  log,
		opts:    opts,
		view:    NewView(),
		updates: make(chan update, 64),
	}
}

// OnApply registers a hook invoked with a view snapshot after every
// applied update. The notification dispatcher observes the view this way.
func (e *Engine) OnApply(fn func(View)) {
	e.hooks = append(e.hooks, fn)
}

// Snapshot returns a copy of the current local view.
func (e *Engine) Snapshot() View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view.copy()
}

// Degraded reports whether the engine is currently running on the poll
// channel alone.
func (e *Engine) Degraded() bool {
	return e.degraded.Load()
}

// Mutate applies an optimistic local guess immediately, then issues the
// durable write without a cancellation token. A failed write is reported
// and otherwise left to reconciliation; the next authoritative record for
// the order supersedes the guess either way.
func (e *Engine) Mutate(ctx context.Context, m Mutation) {
	select {
	case e.updates <- update{mutation: &m}:
	case <-ctx.Done():
		return
	}

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.source.UpdateOrderStatus(writeCtx, m.OrderID, m.Status); err != nil {
			failure := &WriteFailedError{Mutation: m, Err: err}
			e.logger.Error("write_failed", "Durable write failed, local state pending reconciliation", "", failure, map[string]interface{}{
				"order_id": m.OrderID,
				"status":   string(m.Status),
			})
			if e.opts.OnWriteFailed != nil {
				e.opts.OnWriteFailed(m, err)
			}
		}
	}()
}

// Run drives the apply loop, the poll ticker and the push listener until
// the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return e.applyLoop(ctx) })
	g.Go(func() error { return e.pollLoop(ctx) })
	g.Go(func() error { return e.pushLoop(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// applyLoop is the single writer of the shared view.
func (e *Engine) applyLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-e.updates:
			e.apply(u)
		}
	}
}

func (e *Engine) apply(u update) {
	e.mu.Lock()
	switch {
	case u.mutation != nil:
		ApplyOptimistic(e.view, *u.mutation)
	case u.event != nil:
		if err := ApplyChange(e.view, *u.event); err != nil {
			e.logger.Error("change_apply_failed", "Dropped change event", "", err, map[string]interface{}{
				"table": u.event.Table,
			})
		}
	case u.snapshot:
		ReconcileOrders(e.view, u.snapshotOrders)
		ReconcileMenu(e.view, u.snapshotMenu)
	}
	snapshot := e.view.copy()
	e.mu.Unlock()

	for _, hook := range e.hooks {
		hook(snapshot)
	}
}

// pollLoop refetches the full active view on a fixed interval. It covers
// dropped connections, missed events and subscription failures; a failed
// cycle is logged and the next tick tries again.
func (e *Engine) pollLoop(ctx context.Context) error {
	e.pollOnce(ctx)

	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.pollOnce(ctx)
		}
	}
}

func (e *Engine) pollOnce(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, e.opts.PollInterval)
	defer cancel()

	orders, err := e.source.ListActiveOrders(pollCtx)
	if err != nil {
		e.logger.Error("poll_failed", "Active order refetch failed", "", err, nil)
		return
	}
	menu, err := e.source.ListMenu(pollCtx)
	if err != nil {
		e.logger.Error("poll_failed", "Menu refetch failed", "", err, nil)
		return
	}

	select {
	case e.updates <- update{snapshot: true, snapshotOrders: orders, snapshotMenu: menu}:
	case <-ctx.Done():
	}
}

// pushLoop keeps the push subscription alive with exponential backoff.
// While it is down the engine is flagged degraded and the poll channel
// carries the view alone.
func (e *Engine) pushLoop(ctx context.Context) error {
	backoff := time.Second

	for {
		listenCtx, cancel := context.WithCancel(ctx)
		events := make(chan models.ChangeEvent)
		errc := make(chan error, 1)

		go func() {
			errc <- e.feed.Listen(listenCtx, events)
		}()

	consume:
		for {
			select {
			case <-ctx.Done():
				cancel()
				<-errc
				return ctx.Err()
			case ev := <-events:
				e.degraded.Store(false)
				backoff = time.Second
				select {
				case e.updates <- update{event: &ev}:
				case <-ctx.Done():
					cancel()
					<-errc
					return ctx.Err()
				}
			case err := <-errc:
				cancel()
				if ctx.Err() != nil {
					return ctx.Err()
				}
				e.degraded.Store(true)
				e.logger.Error("sync_channel_degraded", "Push channel down, continuing on poll", "",
					fmt.Errorf("%w: %v", ErrSyncChannelUnavailable, err), map[string]interface{}{
						"retry_in": backoff.String(),
					})
				break consume
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}
