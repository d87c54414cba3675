package domain

import (
	"time"
)

// Product represents a product in the catalog
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       Price     `json:"price" db:"price"`
	ImageURL    string    `json:"image_url,omitempty" db:"image_url"`
	InStock     bool      `json:"in_stock" db:"in_stock"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DashboardStats aggregates catalog and account counts for the admin overview
type DashboardStats struct {
	TotalProducts      int        `json:"total_products"`
	TotalUsers         int        `json:"total_users"`
	InStockProducts    int        `json:"in_stock_products"`
	OutOfStockProducts int        `json:"out_of_stock_products"`
	RecentProducts     []*Product `json:"recent_products"`
}
