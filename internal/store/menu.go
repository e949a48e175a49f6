package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aakash-redy/cravin-lije/internal/database"
	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// ErrMenuItemNotFound reports an edit against a missing menu item.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuRepository reads and edits the catalog. The order core only reads;
// the edit operations serve the admin console.
type MenuRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewMenuRepository creates a menu repository.
func NewMenuRepository(db *database.DB, log *logger.Logger) *MenuRepository {
	return &MenuRepository{db: db, logger: log}
}

// List returns the full catalog ordered by category then id.
func (r *MenuRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Category,
			&item.Price,
			&item.Available,
			&item.SugarFreeCapable,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}

	return items, nil
}

// Create inserts a new catalog entry and returns its assigned id.
func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	err := r.db.QueryRow(ctx, database.InsertMenuItemSQL,
		item.Name, item.Category, item.Price, item.Available, item.SugarFreeCapable,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// Upsert writes a full catalog entry under an explicit id.
func (r *MenuRepository) Upsert(ctx context.Context, item *models.MenuItem) error {
	err := r.db.QueryRow(ctx, database.UpsertMenuItemSQL,
		item.ID, item.Name, item.Category, item.Price, item.Available, item.SugarFreeCapable,
	).Scan(&item.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to upsert menu item: %w", err)
	}
	return nil
}

// SetAvailability flips the sold-out flag on one item.
func (r *MenuRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	affected, err := r.db.Exec(ctx, database.SetMenuItemAvailabilitySQL, available, id)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if affected == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// Delete removes an item from the catalog. Historical orders are
// unaffected: they carry snapshots, not references.
func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.db.Exec(ctx, database.DeleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if affected == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
