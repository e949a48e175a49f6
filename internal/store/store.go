package store

import (
	"context"

	"github.com/aakash-redy/cravin-lije/internal/database"
	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// Store bundles the repositories behind the method set the sync engine and
// the service layer consume.
type Store struct {
	Orders *OrderRepository
	Menu   *MenuRepository

	db *database.DB
}

// New creates a store over an open connection pool.
func New(db *database.DB, log *logger.Logger) *Store {
	return &Store{
		Orders: NewOrderRepository(db, log),
		Menu:   NewMenuRepository(db, log),
		db:     db,
	}
}

func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	return s.Orders.Insert(ctx, order)
}

func (s *Store) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return s.Orders.GetByID(ctx, id)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, to models.OrderStatus) error {
	return s.Orders.UpdateStatus(ctx, id, to)
}

func (s *Store) ArchiveAll(ctx context.Context) (int64, error) {
	return s.Orders.ArchiveAll(ctx)
}

func (s *Store) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	return s.Orders.ListActive(ctx)
}

func (s *Store) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.Menu.List(ctx)
}

func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.Menu.Create(ctx, item)
}

func (s *Store) UpsertMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.Menu.Upsert(ctx, item)
}

func (s *Store) SetMenuItemAvailability(ctx context.Context, id int64, available bool) error {
	return s.Menu.SetAvailability(ctx, id, available)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id int64) error {
	return s.Menu.Delete(ctx, id)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
