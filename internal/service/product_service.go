package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/store"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

// ProductInput is a product without an id
type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"gt=0"`
	Image       string  `json:"image" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	InStock     bool    `json:"inStock"`
}

// ProductUpdate holds the fields to merge into a product. Nil fields are kept.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=1"`
	Description *string  `json:"description,omitempty" binding:"omitempty,min=1"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	Image       *string  `json:"image,omitempty" binding:"omitempty,min=1"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,min=1"`
	InStock     *bool    `json:"inStock,omitempty"`
}

func (u ProductUpdate) apply(p *models.Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.InStock != nil {
		p.InStock = *u.InStock
	}
}

// GetAllProducts returns the catalog, falling back to the seed list when none is stored
func (s *Storefront) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadProducts(ctx)
}

// GetProduct retrieves a product by id
func (s *Storefront) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
}

// AddProduct appends a new product with a fresh id
func (s *Storefront) AddProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.AddProduct")
	defer span.End()

	if in.Price < 0 {
		return models.Product{}, fmt.Errorf("%w: got %v", ErrInvalidPrice, in.Price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		InStock:     in.InStock,
	}

	if err := s.save(ctx, store.KeyProducts, append(products, product)); err != nil {
		return models.Product{}, err
	}

	util.ProductMutationsTotal.WithLabelValues("add").Inc()
	s.logger.Info("Product added", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// UpdateProduct merges the given fields into an existing product
func (s *Storefront) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.UpdateProduct")
	defer span.End()

	if update.Price != nil && *update.Price < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPrice, *update.Price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID != id {
			continue
		}
		update.apply(&products[i])
		if err := s.save(ctx, store.KeyProducts, products); err != nil {
			return nil, err
		}
		util.ProductMutationsTotal.WithLabelValues("update").Inc()
		updated := products[i]
		return &updated, nil
	}

	return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
}

// DeleteProduct removes a product. It reports false when no product had that id.
func (s *Storefront) DeleteProduct(ctx context.Context, id string) (bool, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.DeleteProduct")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return false, nil
	}

	if err := s.save(ctx, store.KeyProducts, kept); err != nil {
		return false, err
	}

	util.ProductMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return true, nil
}

func (s *Storefront) loadProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	found, err := s.load(ctx, store.KeyProducts, &products)
	if err != nil {
		return nil, err
	}
	if !found {
		out := make([]models.Product, len(s.data.Products))
		copy(out, s.data.Products)
		return out, nil
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
