// Package store is the client of the authoritative data store: order and
// menu repositories over pgx plus the LISTEN/NOTIFY change feed that backs
// the push channel.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aakash-redy/cravin-lije/internal/database"
	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

var (
	// ErrOrderNotFound reports a lookup for an id the store does not hold.
	ErrOrderNotFound = errors.New("order not found")

	// ErrPartialOrderWrite reports a persisted order with no items. Such
	// an order is broken beyond automatic repair; retrying the insert
	// could duplicate the header, so it is surfaced for manual correction.
	ErrPartialOrderWrite = errors.New("order persisted without items")
)

// OrderRepository persists and reads orders.
type OrderRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *database.DB, log *logger.Logger) *OrderRepository {
	return &OrderRepository{db: db, logger: log}
}

// Insert persists a new order. Items are embedded as a JSONB document in
// the same row as the header, so header and items commit together.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	if len(order.Items) == 0 {
		return ErrPartialOrderWrite
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	err = r.db.QueryRow(ctx, database.InsertOrderSQL,
		order.ID, order.CustomerName, order.Status, itemsJSON, order.TotalAmount,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// GetByID fetches one order. A row whose items document is empty fails
// with ErrPartialOrderWrite.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, database.GetOrderByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

// UpdateStatus advances an order through the state machine. The current
// status is read under a row lock so concurrent operator commands validate
// against the committed state, not a stale read.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, to models.OrderStatus) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var rawStatus string
	if err := tx.QueryRow(ctx, database.GetOrderStatusForUpdateSQL, id).Scan(&rawStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to read order status: %w", err)
	}

	from, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return err
	}

	if err := models.ValidateTransition(from, to); err != nil {
		return err
	}
	if from == to {
		// Idempotent replay from a second operator device.
		return nil
	}

	if _, err := tx.Exec(ctx, database.UpdateOrderStatusSQL, to, id); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return tx.Commit(ctx)
}

// Cancel soft-deletes an order. The row is preserved so the customer's
// tracking view keeps resolving the order id.
func (r *OrderRepository) Cancel(ctx context.Context, id string) error {
	return r.UpdateStatus(ctx, id, models.StatusCancelled)
}

// ArchiveAll is the bulk end-of-day action: every order that has not
// already reached a terminal state becomes archived in one statement, so
// a racing single-order update resolves by whichever write the store
// serializes last.
func (r *OrderRepository) ArchiveAll(ctx context.Context) (int64, error) {
	affected, err := r.db.Exec(ctx, database.ArchiveAllOrdersSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to archive orders: %w", err)
	}
	return affected, nil
}

// ListActive returns the active view: every order with status other than
// archived, newest first. Orders detected with empty items are logged and
// excluded rather than rendered broken.
func (r *OrderRepository) ListActive(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, database.ListActiveOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			if errors.Is(err, ErrPartialOrderWrite) {
				r.logger.Error("partial_order_detected", "Order persisted without items, excluded from active view", "", err, map[string]interface{}{
					"order_id": order.ID,
				})
				continue
			}
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var (
		order     models.Order
		rawStatus string
		itemsJSON []byte
	)

	err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.CustomerName,
		&rawStatus,
		&itemsJSON,
		&order.TotalAmount,
	)
	if err != nil {
		return order, err
	}

	status, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return order, err
	}
	order.Status = status

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return order, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	if len(order.Items) == 0 {
		return order, ErrPartialOrderWrite
	}

	return order, nil
}
