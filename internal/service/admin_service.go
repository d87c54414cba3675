package service

import (
	"context"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/repository"
)

// RecentProductsLimit is how many products the dashboard lists
const RecentProductsLimit = 5

// AdminService defines the interface for the read-only admin views
type AdminService interface {
	Dashboard(ctx context.Context, actor *domain.Actor) (*domain.DashboardStats, error)
	ListProducts(ctx context.Context, actor *domain.Actor, page int) (*domain.Page[*domain.Product], error)
	ListUsers(ctx context.Context, actor *domain.Actor, page int) (*domain.Page[*domain.User], error)
}

type adminService struct {
	products repository.ProductRepository
	users    repository.UserRepository
	catalog  CatalogService
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	products repository.ProductRepository,
	users repository.UserRepository,
	catalog CatalogService,
) AdminService {
	return &adminService{
		products: products,
		users:    users,
		catalog:  catalog,
	}
}

// Dashboard collects catalog and account totals
func (s *adminService) Dashboard(ctx context.Context, actor *domain.Actor) (*domain.DashboardStats, error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{}
	var err error

	if stats.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.InStockProducts, err = s.products.CountByStock(ctx, true); err != nil {
		return nil, err
	}
	if stats.OutOfStockProducts, err = s.products.CountByStock(ctx, false); err != nil {
		return nil, err
	}
	if stats.RecentProducts, err = s.products.Recent(ctx, RecentProductsLimit); err != nil {
		return nil, err
	}

	return stats, nil
}

// ListProducts is the admin catalog listing, AdminPageSize rows per page
func (s *adminService) ListProducts(ctx context.Context, actor *domain.Actor, page int) (*domain.Page[*domain.Product], error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}
	return s.catalog.ListProducts(ctx, page, AdminPageSize)
}

// ListUsers returns accounts ordered by id, AdminPageSize rows per page
func (s *adminService) ListUsers(ctx context.Context, actor *domain.Actor, page int) (*domain.Page[*domain.User], error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	number, offset := domain.ClampPage(page, AdminPageSize, total)
	users, err := s.users.List(ctx, offset, AdminPageSize)
	if err != nil {
		return nil, err
	}

	return domain.NewPage(users, number, AdminPageSize, total), nil
}
