package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"m-cosmetics/internal/domain"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Product, error)
	Recent(ctx context.Context, limit int) ([]*domain.Product, error)
	Count(ctx context.Context) (int, error)
	CountByStock(ctx context.Context, inStock bool) (int, error)
}

// Prices are stored as NUMERIC(10, 2) and moved across the wire as integer cents
const productColumns = `id, name, description, (price * 100)::BIGINT, image_url, in_stock, created_at, updated_at`

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var cents int64
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&cents,
		&product.ImageURL,
		&product.InStock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	product.Price = domain.Price(cents)
	return product, nil
}

// Create inserts a new product and fills in its generated id and timestamps
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, image_url, in_stock)
		VALUES ($1, $2, $3::BIGINT / 100.0, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price.Cents(),
		product.ImageURL,
		product.InStock,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces the editable fields of an existing product. The last
// writer wins; no version check is made.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4::BIGINT / 100.0, image_url = $5, in_stock = $6
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price.Cents(),
		product.ImageURL,
		product.InStock,
	).Scan(&product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete removes a product from the database
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// DeleteAll empties the catalog and reports how many rows were removed
func (r *productRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete products: %w", err)
	}
	return result.RowsAffected()
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List returns products in insertion order
func (r *productRepository) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	return r.query(ctx, query, limit, offset)
}

// Recent returns the newest products first
func (r *productRepository) Recent(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	return r.query(ctx, query, limit)
}

func (r *productRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Count returns the total number of products
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// CountByStock counts products with the given stock flag
func (r *productRepository) CountByStock(ctx context.Context, inStock bool) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE in_stock = $1`, inStock).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count products by stock: %w", err)
	}
	return total, nil
}
