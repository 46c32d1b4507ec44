package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/storefront/backend/internal/domain"
)

// MemoryCatalog is a thread-safe in-memory product catalog.
// Products are stored encoded so readers always receive their own copy.
type MemoryCatalog struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryCatalog creates an empty in-memory catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		data: make(map[string][]byte),
	}
}

// LoadFile reads a catalog document from path into a new MemoryCatalog
func LoadFile(path string) (*MemoryCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", path, err)
	}

	c := NewMemoryCatalog()
	for i := range doc.Products {
		if doc.Products[i].SKU == "" {
			return nil, fmt.Errorf("catalog file %s: product %d has no sku", path, i)
		}
		if err := c.Save(context.Background(), ToDomainProduct(&doc.Products[i])); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// GetProduct returns a copy of the product stored under sku
func (c *MemoryCatalog) GetProduct(ctx context.Context, sku string) (*domain.ConfigurableProduct, error) {
	c.mutex.RLock()
	raw, exists := c.data[sku]
	c.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrProductNotFound
	}

	var product domain.ConfigurableProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("failed to decode stored product %s: %w", sku, err)
	}
	return &product, nil
}

// Save stores a product, replacing any product with the same SKU
func (c *MemoryCatalog) Save(ctx context.Context, product *domain.ConfigurableProduct) error {
	if product == nil || product.SKU == "" {
		return domain.ErrInvalidRequest
	}

	raw, err := json.Marshal(product)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[product.SKU] = raw
	return nil
}

// Delete removes a product from the catalog
func (c *MemoryCatalog) Delete(ctx context.Context, sku string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, sku)
	return nil
}

// Exists checks if a product is stored under sku
func (c *MemoryCatalog) Exists(ctx context.Context, sku string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	_, exists := c.data[sku]
	return exists, nil
}

// SKUs returns all stored SKUs in sorted order
func (c *MemoryCatalog) SKUs() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	skus := make([]string, 0, len(c.data))
	for sku := range c.data {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

// Size returns the current number of products
func (c *MemoryCatalog) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all products
func (c *MemoryCatalog) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string][]byte)
}
