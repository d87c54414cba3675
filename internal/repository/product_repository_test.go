package repository

import (
	"context"
	"errors"
	"testing"

	"m-cosmetics/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, cents int64, imageURL string, inStock bool) bool {
			product := &domain.Product{
				Name:        name,
				Description: description,
				Price:       domain.Price(cents),
				ImageURL:    imageURL,
				InStock:     inStock,
			}

			if err := repo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer func() { _ = repo.Delete(ctx, product.ID) }()

			retrieved, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != product.Name || retrieved.Description != product.Description {
				t.Logf("FAIL: text mismatch: %+v vs %+v", retrieved, product)
				return false
			}
			if retrieved.Price != product.Price {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", product.Price, retrieved.Price)
				return false
			}
			if retrieved.ImageURL != product.ImageURL || retrieved.InStock != product.InStock {
				t.Logf("FAIL: image/stock mismatch: %+v vs %+v", retrieved, product)
				return false
			}
			if retrieved.CreatedAt.IsZero() || retrieved.UpdatedAt.IsZero() {
				t.Logf("FAIL: timestamps not set")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,20}( [A-Z][a-z]{2,10})?`),
		gen.AlphaString(),
		gen.Int64Range(0, int64(domain.MaxPrice)),
		gen.OneConstOf("", "products/rose.jpg", "https://cdn.example.com/p/1.png"),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_ListKeepsInsertionOrder(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 25; i++ {
		p := &domain.Product{Name: "Product", Price: domain.Price(100 + i), InStock: i%5 != 0}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, p.ID)
	}

	total, err := repo.Count(ctx)
	if err != nil || total != 25 {
		t.Fatalf("expected 25 products, got %d (%v)", total, err)
	}

	first, err := repo.List(ctx, 0, 12)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 12 || first[0].ID != ids[0] || first[11].ID != ids[11] {
		t.Fatalf("unexpected first page: %d items", len(first))
	}

	last, err := repo.List(ctx, 24, 12)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(last) != 1 || last[0].ID != ids[24] {
		t.Fatalf("expected the 25th product alone on the last page, got %d items", len(last))
	}

	outOfStock, err := repo.CountByStock(ctx, false)
	if err != nil || outOfStock != 5 {
		t.Fatalf("expected 5 out of stock, got %d (%v)", outOfStock, err)
	}

	recent, err := repo.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 5 || recent[0].ID != ids[24] {
		t.Fatalf("expected newest product first")
	}
}

func TestProductRepository_UpdateAndDelete(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := &domain.Product{Name: "Diamond Mascara", Price: 3999, InStock: true}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}
	createdAt := product.CreatedAt

	product.Name = "Diamond Mascara XL"
	product.Price = 4599
	product.InStock = false
	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("update: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if retrieved.Name != "Diamond Mascara XL" || retrieved.Price != 4599 || retrieved.InStock {
		t.Fatalf("update not applied: %+v", retrieved)
	}
	if !retrieved.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at must not change on update")
	}

	missing := &domain.Product{ID: product.ID + 1000, Name: "Ghost", Price: 1}
	if err := repo.Update(ctx, missing); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, product.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, product.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestProductRepository_RejectsNegativePrice(t *testing.T) {
	repo := NewProductRepository(testDB)
	err := repo.Create(context.Background(), &domain.Product{Name: "Broken", Price: -1})
	if err == nil {
		t.Fatalf("expected the price check constraint to reject a negative price")
	}
}
