package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (id, customer_name, status, items, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	GetOrderByIDSQL = `
		SELECT id, created_at, updated_at, customer_name, status, items, total_amount
		FROM orders WHERE id = $1`

	GetOrderStatusForUpdateSQL = `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2`

	ListActiveOrdersSQL = `
		SELECT id, created_at, updated_at, customer_name, status, items, total_amount
		FROM orders
		WHERE status <> 'archived'
		ORDER BY created_at DESC`

	ArchiveAllOrdersSQL = `
		UPDATE orders SET status = 'archived', updated_at = NOW()
		WHERE status NOT IN ('archived', 'cancelled')`
)

// Menu queries
const (
	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, category, price, available, sugar_free_capable)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	ListMenuItemsSQL = `
		SELECT id, name, category, price, available, sugar_free_capable, updated_at
		FROM menu_items
		ORDER BY category ASC, id ASC`

	UpsertMenuItemSQL = `
		INSERT INTO menu_items (id, name, category, price, available, sugar_free_capable)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			available = EXCLUDED.available,
			sugar_free_capable = EXCLUDED.sugar_free_capable,
			updated_at = NOW()
		RETURNING id`

	SetMenuItemAvailabilitySQL = `
		UPDATE menu_items SET available = $1, updated_at = NOW()
		WHERE id = $2`

	DeleteMenuItemSQL = `
		DELETE FROM menu_items WHERE id = $1`
)
