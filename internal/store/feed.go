package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aakash-redy/cravin-lije/internal/config"
	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// changeChannel is the pg_notify channel declared by the migration triggers.
const changeChannel = "cravin_changes"

// ChangeFeed delivers row-level change events over a dedicated LISTEN
// connection. Within the connection events arrive in server-commit order;
// the feed makes no ordering promise relative to poll snapshots.
type ChangeFeed struct {
	url    string
	logger *logger.Logger
}

// NewChangeFeed creates a change feed for the configured database.
func NewChangeFeed(cfg *config.Config, log *logger.Logger) *ChangeFeed {
	return &ChangeFeed{
		url:    cfg.DatabaseURL(),
		logger: log,
	}
}

// Listen blocks delivering decoded change events to out until the context
// is cancelled or the connection drops. A malformed payload or an unknown
// status string is logged and dropped at this boundary; the next poll
// cycle repairs whatever the dropped event carried.
func (f *ChangeFeed) Listen(ctx context.Context, out chan<- models.ChangeEvent) error {
	conn, err := pgx.Connect(ctx, f.url)
	if err != nil {
		return fmt.Errorf("failed to open change feed connection: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", changeChannel, err)
	}

	f.logger.Info("change_feed_connected", "Subscribed to row change notifications", "", map[string]interface{}{
		"channel": changeChannel,
	})

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("change feed connection lost: %w", err)
		}

		var event models.ChangeEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			f.logger.Error("change_event_malformed", "Dropping undecodable change event", "", err, map[string]interface{}{
				"payload_size": len(notification.Payload),
			})
			continue
		}

		if err := validateEvent(&event); err != nil {
			f.logger.Error("change_event_rejected", "Dropping change event that failed validation", "", err, map[string]interface{}{
				"table":      event.Table,
				"event_type": string(event.EventType),
			})
			continue
		}

		select {
		case out <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// validateEvent rejects events for unknown tables and order rows carrying
// status strings outside the closed enum.
func validateEvent(event *models.ChangeEvent) error {
	switch event.Table {
	case models.TableOrders:
		if _, err := event.DecodeOrder(); err != nil {
			return err
		}
	case models.TableMenuItems:
		if _, err := event.DecodeMenuItem(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown table %q", event.Table)
	}
	return nil
}
