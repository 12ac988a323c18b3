package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/felipenb/go_sales/internal/domain"
)

// CartRepo is the Postgres-backed CartRepository.
type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

// Create stores the cart and its lines in one transaction. The total
// amount column is a snapshot computed at this write boundary; the
// aggregate itself never stores it.
func (r *CartRepo) Create(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO carts (id, user_id, branch, sale_number, date, cancelled, total_amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, insertErr := tx.ExecContext(ctx, query,
		cart.ID,
		cart.UserID,
		cart.Branch,
		cart.SaleNumber,
		cart.Date,
		cart.Cancelled,
		cart.TotalAmount())
	if insertErr != nil {
		return fmt.Errorf("insert cart: %w", insertErr)
	}

	if e2 := insertItems(ctx, tx, cart); e2 != nil {
		return e2
	}

	return tx.Commit()
}

func (r *CartRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	query := `SELECT id, user_id, branch, sale_number, date, cancelled, created_at, updated_at
	          FROM carts WHERE id = $1`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.Branch,
		&cart.SaleNumber,
		&cart.Date,
		&cart.Cancelled,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

// Update rewrites the cart row and replaces all of its lines, mirroring
// the replace-items semantics of the aggregate.
func (r *CartRepo) Update(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE carts SET user_id = $2, branch = $3, total_amount = $4, updated_at = NOW()
	          WHERE id = $1`

	res, updateErr := tx.ExecContext(ctx, query, cart.ID, cart.UserID, cart.Branch, cart.TotalAmount())
	if updateErr != nil {
		return fmt.Errorf("update cart: %w", updateErr)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if affected == 0 {
		return ErrCartNotFound
	}

	if _, e2 := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); e2 != nil {
		return fmt.Errorf("clear cart items: %w", e2)
	}
	if e3 := insertItems(ctx, tx, cart); e3 != nil {
		return e3
	}

	return tx.Commit()
}

func (r *CartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if affected == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (r *CartRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE carts SET cancelled = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cancel cart: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel cart: %w", err)
	}
	if affected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// List loads every cart with its items, in sale number order. Ordering
// and pagination requested by the caller happen in the paging engine.
func (r *CartRepo) List(ctx context.Context) ([]domain.Cart, error) {
	query := `SELECT id, user_id, branch, sale_number, date, cancelled, created_at, updated_at
	          FROM carts ORDER BY sale_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query carts: %w", err)
	}
	defer rows.Close()

	var carts []domain.Cart
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var cart domain.Cart
		scanErr := rows.Scan(
			&cart.ID,
			&cart.UserID,
			&cart.Branch,
			&cart.SaleNumber,
			&cart.Date,
			&cart.Cancelled,
			&cart.CreatedAt,
			&cart.UpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("scan cart: %w", scanErr)
		}
		index[cart.ID] = len(carts)
		carts = append(carts, cart)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, fmt.Errorf("row iteration error: %w", e2)
	}

	itemRows, err := r.db.QueryContext(ctx,
		`SELECT id, cart_id, product_id, quantity, unit_price FROM cart_items ORDER BY cart_id, id`)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item domain.LineItem
		scanErr := itemRows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.UnitPrice)
		if scanErr != nil {
			return nil, fmt.Errorf("scan cart item: %w", scanErr)
		}
		if i, ok := index[item.CartID]; ok {
			carts[i].Items = append(carts[i].Items, item)
		}
	}
	if e3 := itemRows.Err(); e3 != nil {
		return nil, fmt.Errorf("row iteration error: %w", e3)
	}

	return carts, nil
}

func (r *CartRepo) NextSaleNumber(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.QueryRowContext(ctx, `SELECT nextval('sale_number_seq')`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sale number: %w", err)
	}
	return next, nil
}

func (r *CartRepo) loadItems(ctx context.Context, cartID uuid.UUID) ([]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, cart_id, product_id, quantity, unit_price FROM cart_items WHERE cart_id = $1 ORDER BY id`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		scanErr := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.UnitPrice)
		if scanErr != nil {
			return nil, fmt.Errorf("scan cart item: %w", scanErr)
		}
		items = append(items, item)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, fmt.Errorf("row iteration error: %w", e2)
	}
	return items, nil
}

func insertItems(ctx context.Context, tx *sql.Tx, cart *domain.Cart) error {
	query := `INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price)
	          VALUES ($1, $2, $3, $4, $5)`

	for _, item := range cart.Items {
		_, err := tx.ExecContext(ctx, query, item.ID, cart.ID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}
	return nil
}
