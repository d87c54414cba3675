package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/repository"
	"m-cosmetics/internal/validation"
)

const (
	// CatalogPageSize is the number of products per storefront page
	CatalogPageSize = 12

	// AdminPageSize is the number of rows per admin listing page
	AdminPageSize = 10
)

// ProductInput is the product form. Price is kept as submitted so that
// malformed amounts can be reported back on the field.
type ProductInput struct {
	Name        string `form:"name" json:"name" validate:"required,max=200"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price" validate:"required"`
	ImageURL    string `form:"image" json:"image" validate:"max=500"`
	ClearImage  bool   `form:"image-clear" json:"image_clear"`
	InStock     bool   `form:"in_stock" json:"in_stock"`
}

// CatalogService defines the interface for product business logic
type CatalogService interface {
	ListProducts(ctx context.Context, page, size int) (*domain.Page[*domain.Product], error)
	GetProduct(ctx context.Context, actor *domain.Actor, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, actor *domain.Actor, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor *domain.Actor, id int64, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor *domain.Actor, id int64) (*domain.Product, error)
}

type catalogService struct {
	products repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(products repository.ProductRepository) CatalogService {
	return &catalogService{products: products}
}

// ListProducts returns one page of the catalog in insertion order. Page
// numbers outside the valid range are clamped to the first or last page.
func (s *catalogService) ListProducts(ctx context.Context, page, size int) (*domain.Page[*domain.Product], error) {
	if size <= 0 {
		size = CatalogPageSize
	}

	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	number, offset := domain.ClampPage(page, size, total)
	items, err := s.products.List(ctx, offset, size)
	if err != nil {
		return nil, err
	}

	return domain.NewPage(items, number, size, total), nil
}

// GetProduct loads a product for the admin forms
func (s *catalogService) GetProduct(ctx context.Context, actor *domain.Actor, id int64) (*domain.Product, error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, id)
}

// CreateProduct validates the form and stores a new product
func (s *catalogService) CreateProduct(ctx context.Context, actor *domain.Actor, input ProductInput) (*domain.Product, error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}

	price, err := validateProductInput(&input)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		InStock:     input.InStock,
	}
	if !input.ClearImage {
		product.ImageURL = input.ImageURL
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct replaces the editable fields of an existing product. An empty
// image keeps the current one unless ClearImage is set. Concurrent updates
// are last-write-wins.
func (s *catalogService) UpdateProduct(ctx context.Context, actor *domain.Actor, id int64, input ProductInput) (*domain.Product, error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := validateProductInput(&input)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = price
	product.InStock = input.InStock
	switch {
	case input.ClearImage:
		product.ImageURL = ""
	case input.ImageURL != "":
		product.ImageURL = input.ImageURL
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes the product and returns what was deleted
func (s *catalogService) DeleteProduct(ctx context.Context, actor *domain.Actor, id int64) (*domain.Product, error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return nil, err
	}

	return product, nil
}

func validateProductInput(input *ProductInput) (domain.Price, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Price = strings.TrimSpace(input.Price)
	input.ImageURL = strings.TrimSpace(input.ImageURL)

	var errs domain.ValidationErrors
	if err := validation.Struct(*input); err != nil {
		ve, ok := domain.AsValidationErrors(err)
		if !ok {
			return 0, err
		}
		errs = ve
	}

	var price domain.Price
	if !errs.Has("price") {
		parsed, err := domain.ParsePrice(input.Price)
		if err != nil {
			errs.Add("price", priceMessage(err))
		}
		price = parsed
	}

	if input.ClearImage && input.ImageURL != "" && !errs.Has("image") {
		errs.Add("image", "Please either submit a file or check the clear checkbox, not both.")
	}

	return price, errs.Err()
}

func priceMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrPriceNegative),
		errors.Is(err, domain.ErrPricePrecise),
		errors.Is(err, domain.ErrPriceTooLarge),
		errors.Is(err, domain.ErrPriceInvalid):
		msg := err.Error()
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	default:
		return fmt.Sprintf("Invalid price: %v", err)
	}
}
