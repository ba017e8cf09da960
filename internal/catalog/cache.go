// Package catalog keeps the read-only product and category snapshot used by
// the menu, the console and the stock alerts.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source lists the catalog from the backend
type Source interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Cache holds the latest successfully loaded products and categories
type Cache struct {
	source Source
	logger *zap.Logger

	mu                 sync.RWMutex
	products           []model.Product
	categories         []model.Category
	productsLoadedAt   time.Time
	categoriesLoadedAt time.Time
}

// New creates an empty cache
func New(source Source, logger *zap.Logger) *Cache {
	return &Cache{source: source, logger: logger}
}

// Load fetches products and categories concurrently. Each side is replaced
// only when its own fetch succeeds, so one failing keeps the other's fresh
// data. The returned error joins whichever sides failed.
func (c *Cache) Load(ctx context.Context) error {
	var (
		products      []model.Product
		categories    []model.Category
		productsErr   error
		categoriesErr error
	)

	// zero Group: one side failing does not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		products, productsErr = c.source.ListProducts(ctx)
		return productsErr
	})
	g.Go(func() error {
		categories, categoriesErr = c.source.ListCategories(ctx)
		return categoriesErr
	})
	_ = g.Wait()

	now := time.Now()
	c.mu.Lock()
	if productsErr == nil {
		c.products = products
		c.productsLoadedAt = now
	}
	if categoriesErr == nil {
		c.categories = categories
		c.categoriesLoadedAt = now
	}
	critical := len(CriticalStock(c.products))
	c.mu.Unlock()

	prometheus.RecordCriticalProducts(critical)

	if productsErr != nil {
		prometheus.RecordCatalogError("products")
		c.logger.Warn("Failed to load products, keeping previous snapshot", zap.Error(productsErr))
		productsErr = fmt.Errorf("load products: %w", productsErr)
	}
	if categoriesErr != nil {
		prometheus.RecordCatalogError("categories")
		c.logger.Warn("Failed to load categories, keeping previous snapshot", zap.Error(categoriesErr))
		categoriesErr = fmt.Errorf("load categories: %w", categoriesErr)
	}
	return errors.Join(productsErr, categoriesErr)
}

// Products returns a copy of the product snapshot
func (c *Cache) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Product(nil), c.products...)
}

// Categories returns a copy of the category snapshot
func (c *Cache) Categories() []model.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Category(nil), c.categories...)
}

// Product looks a product up by id
func (c *Cache) Product(id uint) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// Menu returns the active products, restricted to a category when categoryID is not 0
func (c *Cache) Menu(categoryID uint) []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	menu := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		if !p.Active {
			continue
		}
		if categoryID != 0 && p.CategoryID() != categoryID {
			continue
		}
		menu = append(menu, p)
	}
	return menu
}

// Loaded reports whether both sides have been loaded at least once
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.productsLoadedAt.IsZero() && !c.categoriesLoadedAt.IsZero()
}

// CriticalStock returns the products whose stock is at or below their minimum.
// It is recomputed on every call.
func CriticalStock(products []model.Product) []model.Product {
	critical := make([]model.Product, 0)
	for _, p := range products {
		if p.IsCritical() {
			critical = append(critical, p)
		}
	}
	return critical
}
