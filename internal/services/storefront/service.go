// Package storefront exposes the order lifecycle over HTTP: cart
// submission with snapshot pricing, status transitions, bulk archival and
// the menu listing.
package storefront

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aakash-redy/cravin-lije/internal/cart"
	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
)

// Backend is the slice of the store the storefront consumes.
type Backend interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, to models.OrderStatus) error
	ArchiveAll(ctx context.Context) (int64, error)
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpsertMenuItem(ctx context.Context, item *models.MenuItem) error
	SetMenuItemAvailability(ctx context.Context, id int64, available bool) error
	DeleteMenuItem(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Service implements the storefront operations.
type Service struct {
	backend Backend
	logger  *logger.Logger
}

// NewService creates a storefront service.
func NewService(backend Backend, log *logger.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  log,
	}
}

// PlaceOrder freezes the submitted cart into an immutable order. The menu
// is fetched once so availability checks and the price snapshot see the
// same catalog state, then the order is created with status sent.
func (s *Service) PlaceOrder(ctx context.Context, req *PlaceOrderRequest, requestID string) (*PlaceOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	menu, err := s.backend.ListMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	catalog := cart.CatalogFromItems(menu)

	lines := mergeLines(req.Lines)
	items, total, err := cart.Snapshot(catalog, lines)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:           uuid.NewString(),
		CustomerName: req.CustomerName,
		Status:       models.StatusSent,
		Items:        items,
		TotalAmount:  total,
	}

	if err := s.backend.InsertOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order_created", fmt.Sprintf("Order %s created", order.ID), requestID, map[string]interface{}{
		"order_id":      order.ID,
		"customer_name": order.CustomerName,
		"total_amount":  order.TotalAmount,
		"line_count":    len(order.Items),
	})

	return &PlaceOrderResponse{
		OrderID:     order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
	}, nil
}

// mergeLines folds duplicate (item, variant) keys in the payload into one
// line each, so a sloppy client cannot create split lines server-side.
func mergeLines(submitted []SubmittedLine) []cart.Line {
	merged := make(map[cart.LineKey]*cart.Line)
	order := make([]cart.LineKey, 0, len(submitted))

	for _, sl := range submitted {
		key := cart.LineKey{ItemID: sl.ItemID, SugarFree: sl.SugarFree}
		line, ok := merged[key]
		if !ok {
			line = &cart.Line{Key: key}
			merged[key] = line
			order = append(order, key)
		}
		line.Quantity += sl.Quantity
		if sl.Instructions != "" {
			line.Instructions = sl.Instructions
		}
	}

	lines := make([]cart.Line, 0, len(merged))
	for _, key := range order {
		lines = append(lines, *merged[key])
	}
	return lines
}

// GetOrder returns one order for the customer tracking view.
func (s *Service) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return s.backend.GetOrder(ctx, id)
}

// UpdateStatus applies an operator's status command. Unknown status
// strings are rejected before touching the store; illegal moves surface
// as InvalidTransitionError.
func (s *Service) UpdateStatus(ctx context.Context, id, rawStatus, requestID string) error {
	status, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return err
	}

	if err := s.backend.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("status_updated", fmt.Sprintf("Order %s moved to %s", id, status), requestID, map[string]interface{}{
		"order_id": id,
		"status":   string(status),
	})
	return nil
}

// CancelOrder soft-deletes one order. The row survives so the customer's
// tracking view keeps resolving it.
func (s *Service) CancelOrder(ctx context.Context, id, requestID string) error {
	return s.UpdateStatus(ctx, id, string(models.StatusCancelled), requestID)
}

// ArchiveAll runs the bulk end-of-day reset.
func (s *Service) ArchiveAll(ctx context.Context, requestID string) (*ArchiveResponse, error) {
	count, err := s.backend.ArchiveAll(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("orders_archived", "End-of-day archive completed", requestID, map[string]interface{}{
		"archived_count": count,
	})
	return &ArchiveResponse{ArchivedCount: count}, nil
}

// ListMenu returns the current catalog.
func (s *Service) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.backend.ListMenu(ctx)
}

// CreateMenuItem adds a catalog entry for the admin console and returns it
// with its assigned id.
func (s *Service) CreateMenuItem(ctx context.Context, req *MenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Name:             req.Name,
		Category:         req.Category,
		Price:            req.Price,
		Available:        req.Available,
		SugarFreeCapable: req.SugarFreeCapable,
	}
	if err := s.backend.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_created", fmt.Sprintf("Menu item %q created", item.Name), requestID, map[string]interface{}{
		"item_id":  item.ID,
		"category": item.Category,
		"price":    item.Price,
	})
	return item, nil
}

// UpdateMenuItem replaces a catalog entry under an explicit id. Orders
// already placed keep their snapshots; only future carts see the edit.
func (s *Service) UpdateMenuItem(ctx context.Context, id int64, req *MenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		ID:               id,
		Name:             req.Name,
		Category:         req.Category,
		Price:            req.Price,
		Available:        req.Available,
		SugarFreeCapable: req.SugarFreeCapable,
	}
	if err := s.backend.UpsertMenuItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_updated", fmt.Sprintf("Menu item %d updated", id), requestID, map[string]interface{}{
		"item_id": id,
		"price":   item.Price,
	})
	return item, nil
}

// SetMenuItemAvailability flips the sold-out flag on one item.
func (s *Service) SetMenuItemAvailability(ctx context.Context, id int64, available bool, requestID string) error {
	if err := s.backend.SetMenuItemAvailability(ctx, id, available); err != nil {
		return err
	}

	s.logger.Info("menu_availability_updated", fmt.Sprintf("Menu item %d availability set to %t", id, available), requestID, map[string]interface{}{
		"item_id":   id,
		"available": available,
	})
	return nil
}

// DeleteMenuItem removes a catalog entry. Historical orders are unaffected,
// they carry snapshots rather than references.
func (s *Service) DeleteMenuItem(ctx context.Context, id int64, requestID string) error {
	if err := s.backend.DeleteMenuItem(ctx, id); err != nil {
		return err
	}

	s.logger.Info("menu_item_deleted", fmt.Sprintf("Menu item %d deleted", id), requestID, map[string]interface{}{
		"item_id": id,
	})
	return nil
}

// HealthCheck verifies the store is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	if err := s.backend.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Store ping failed", "", err, nil)
		return false
	}
	return true
}
