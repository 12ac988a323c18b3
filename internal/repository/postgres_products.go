package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/felipenb/go_sales/internal/domain"
)

// ProductRepo is the Postgres-backed ProductRepository. It doubles as
// the catalog price lookup used by cart price re-resolution.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id, title, price, description, category, image, rating_rate, rating_count, created_at, updated_at`

func (r *ProductRepo) Create(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Title,
		product.Price,
		product.Description,
		product.Category,
		product.Image,
		product.RatingRate,
		product.RatingCount)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Title,
		&product.Price,
		&product.Description,
		&product.Category,
		&product.Image,
		&product.RatingRate,
		&product.RatingCount,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return product, nil
}

func (r *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products
	          SET title = $2, price = $3, description = $4, category = $5, image = $6,
	              rating_rate = $7, rating_count = $8, updated_at = NOW()
	          WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Title,
		product.Price,
		product.Description,
		product.Category,
		product.Image,
		product.RatingRate,
		product.RatingCount)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
}

func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY created_at, id`, category)
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if scanErr := rows.Scan(&category); scanErr != nil {
			return nil, fmt.Errorf("scan category: %w", scanErr)
		}
		categories = append(categories, category)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, fmt.Errorf("row iteration error: %w", e2)
	}
	return categories, nil
}

func (r *ProductRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return exists, nil
}

func (r *ProductRepo) PriceByID(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT price FROM products WHERE id = $1`, id).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrProductNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("query product price: %w", err)
	}
	return price, nil
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		scanErr := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Price,
			&product.Description,
			&product.Category,
			&product.Image,
			&product.RatingRate,
			&product.RatingCount,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("scan product: %w", scanErr)
		}
		products = append(products, product)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, fmt.Errorf("row iteration error: %w", e2)
	}
	return products, nil
}
