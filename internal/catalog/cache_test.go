package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	products      []model.Product
	categories    []model.Category
	productsErr   error
	categoriesErr error
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]model.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func (f *fakeSource) ListCategories(ctx context.Context) ([]model.Category, error) {
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return f.categories, nil
}

func TestCriticalStockScenario(t *testing.T) {
	products := []model.Product{
		{ID: 1, Stock: 2, MinimumStock: 5},
		{ID: 2, Stock: 10, MinimumStock: 5},
	}

	critical := CriticalStock(products)
	require.Len(t, critical, 1)
	assert.Equal(t, uint(1), critical[0].ID)
	assert.Empty(t, CriticalStock(nil))
}

func TestLoadBothSides(t *testing.T) {
	src := &fakeSource{
		products:   []model.Product{{ID: 1, Active: true}},
		categories: []model.Category{{ID: 1, Name: "Pães"}},
	}
	c := New(src, zap.NewNop())

	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Products(), 1)
	assert.Len(t, c.Categories(), 1)
	assert.True(t, c.Loaded())
}

func TestLoadSidesFailIndependently(t *testing.T) {
	src := &fakeSource{
		products:   []model.Product{{ID: 1, Active: true}},
		categories: []model.Category{{ID: 1, Name: "Pães"}},
	}
	c := New(src, zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	// categories go down, products change
	src.categoriesErr = errors.New("categorias offline")
	src.products = []model.Product{{ID: 1, Active: true}, {ID: 2, Active: true}}

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, src.categoriesErr)
	assert.Len(t, c.Products(), 2, "products refresh despite categories failing")
	assert.Len(t, c.Categories(), 1, "previous categories are kept")

	// products go down on a cold cache
	cold := New(&fakeSource{productsErr: errors.New("boom"), categories: []model.Category{{ID: 9}}}, zap.NewNop())
	err = cold.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, cold.Products())
	assert.Len(t, cold.Categories(), 1)
	assert.False(t, cold.Loaded())
}

func TestMenu(t *testing.T) {
	breads := &model.Category{ID: 1}
	market := &model.Category{ID: 2}
	src := &fakeSource{products: []model.Product{
		{ID: 1, Active: true, Category: breads},
		{ID: 2, Active: true, Category: market},
		{ID: 3, Active: false, Category: breads},
		{ID: 4, Active: true},
	}}
	c := New(src, zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	assert.Len(t, c.Menu(0), 3)
	menu := c.Menu(1)
	require.Len(t, menu, 1)
	assert.Equal(t, uint(1), menu[0].ID)

	p, ok := c.Product(2)
	assert.True(t, ok)
	assert.Equal(t, uint(2), p.ID)
	_, ok = c.Product(99)
	assert.False(t, ok)
}
