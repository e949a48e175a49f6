// Package kitchen runs the kitchen console: a live, eventually consistent
// board of active orders with exactly-once new-order alerts.
package kitchen

import (
	"context"
	"fmt"

	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/notify"
	"github.com/aakash-redy/cravin-lije/internal/sync"
)

// Console wires the sync engine to the notification dispatcher.
type Console struct {
	engine     *sync.Engine
	dispatcher *notify.Dispatcher
	logger     *logger.Logger
}

// New creates a console. The dispatcher observes the view after every
// applied update, so a creation seen first via push and again via every
// poll cycle still alerts exactly once.
func New(engine *sync.Engine, alert notify.AlertFunc, log *logger.Logger) *Console {
	c := &Console{
		engine:     engine,
		dispatcher: notify.NewDispatcher(alert, log),
		logger:     log,
	}

	engine.OnApply(func(view sync.View) {
		c.dispatcher.Observe(context.Background(), view.Orders)
	})

	return c
}

// Run drives the sync engine until the context is cancelled.
func (c *Console) Run(ctx context.Context) error {
	c.logger.Info("console_started", "Kitchen console running", "", nil)

	if err := c.engine.Run(ctx); err != nil {
		return fmt.Errorf("sync engine stopped: %w", err)
	}
	return nil
}

// Snapshot exposes the current board for rendering.
func (c *Console) Snapshot() sync.View {
	return c.engine.Snapshot()
}

// Degraded reports whether the console is running on polling alone.
func (c *Console) Degraded() bool {
	return c.engine.Degraded()
}
