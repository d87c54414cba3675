package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/repository"

	"go.uber.org/zap"
)

//go:embed sample_products.json
var sampleProductsJSON string

// loadCatalog reads a JSON array of products. Prices may be numbers or
// numeric strings.
func loadCatalog(r io.Reader) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	for i, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
	}
	return products, nil
}

func sampleCatalog() ([]domain.Product, error) {
	return loadCatalog(strings.NewReader(sampleProductsJSON))
}

// seedProducts replaces the whole catalog with items
func seedProducts(ctx context.Context, products repository.ProductRepository, items []domain.Product, logger *zap.Logger) (int, error) {
	removed, err := products.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear catalog: %w", err)
	}
	logger.Info("Cleared catalog", zap.Int64("removed", removed))

	for i := range items {
		product := items[i]
		product.ID = 0
		if err := products.Create(ctx, &product); err != nil {
			return i, fmt.Errorf("failed to create %q: %w", product.Name, err)
		}
		logger.Info("Created product", zap.String("name", product.Name), zap.Int64("product_id", product.ID))
	}

	return len(items), nil
}
