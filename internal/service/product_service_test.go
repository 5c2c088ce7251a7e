package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/store"
)

func TestGetAllProductsSeedFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	products, err := env.sf.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	_, err = env.kv.Get(ctx, store.KeyProducts)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestAddAndDeleteProductRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := ProductInput{
		Name:        "Soan Papdi",
		Description: "Flaky gram flour sweet",
		Price:       110,
		Image:       "/img/soan.jpg",
		Category:    "Barfi",
		InStock:     true,
	}

	created, err := env.sf.AddProduct(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)

	products, err := env.sf.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, models.Product{
		ID:          created.ID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		InStock:     in.InStock,
	}, products[3])

	removed, err := env.sf.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	products, err = env.sf.GetAllProducts(ctx)
	require.NoError(t, err)
	for _, p := range products {
		assert.NotEqual(t, created.ID, p.ID)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	removed, err := env.sf.DeleteProduct(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = env.kv.Get(ctx, store.KeyProducts)
	assert.ErrorIs(t, err, store.ErrKeyNotFound, "nothing written on a miss")
}

func TestUpdateProductMergesFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inStock := true
	category := "Namkeen Specials"
	updated, err := env.sf.UpdateProduct(ctx, "p3", ProductUpdate{InStock: &inStock, Category: &category})
	require.NoError(t, err)

	assert.Equal(t, "p3", updated.ID)
	assert.Equal(t, "Dalmoth", updated.Name)
	assert.Equal(t, 80.0, updated.Price)
	assert.True(t, updated.InStock)
	assert.Equal(t, "Namkeen Specials", updated.Category)

	stored, err := env.sf.GetProduct(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	name := "x"
	updated, err := env.sf.UpdateProduct(context.Background(), "missing", ProductUpdate{Name: &name})
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sf.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddProductBackendError(t *testing.T) {
	sf := NewStorefront(failingKV{}, testDataset())

	_, err := sf.AddProduct(context.Background(), ProductInput{Name: "x", Price: 1})
	assert.ErrorIs(t, err, errBackend)
}

func TestCommunities(t *testing.T) {
	env := newTestEnv(t)

	assert.Len(t, env.sf.Communities(), 2)

	c, err := env.sf.Community("c2")
	require.NoError(t, err)
	assert.Equal(t, 35.0, c.DeliveryFee)

	_, err = env.sf.Community("zz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductPriceMustNotBeNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sf.AddProduct(ctx, ProductInput{Name: "Ghewar", Price: -10, Category: "Festive"})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = env.kv.Get(ctx, store.KeyProducts)
	assert.ErrorIs(t, err, store.ErrKeyNotFound, "rejected add must not write")

	negative := -1.0
	_, err = env.sf.UpdateProduct(ctx, "p1", ProductUpdate{Price: &negative})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	p, err := env.sf.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Price)

	free := 0.0
	updated, err := env.sf.UpdateProduct(ctx, "p1", ProductUpdate{Price: &free})
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Price)
}
