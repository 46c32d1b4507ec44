package domain

import "context"

// CatalogRepository defines read access to configurable products
type CatalogRepository interface {
	GetProduct(ctx context.Context, sku string) (*ConfigurableProduct, error)
}
