package service

import (
	"context"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/store"
	"github.com/merchantry/storefront/pkg/idx"
)

// ProductService is a thin pass-through over the catalog repository. It
// exists so the HTTP layer has admin-gated and public routes to serve; the
// interesting checks happen in the middleware in front of it.
type ProductService struct {
	Store store.Store
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Store.Products().GetProductByID(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Store.Products().ListProducts(ctx)
}

func (s *ProductService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = idx.New().String()
	if err := s.Store.Products().CreateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return s.Store.Products().GetProductByID(ctx, p.ID)
}

func (s *ProductService) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := s.Store.Products().UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return s.Store.Products().GetProductByID(ctx, p.ID)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.Store.Products().DeleteProduct(ctx, id)
}
