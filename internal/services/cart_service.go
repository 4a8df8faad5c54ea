package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// CartService covers the add/list/remove plumbing around the cart. The
// conversion of cart rows into order lines never goes through here; that is
// the placement transaction's job.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) AddLine(ctx context.Context, line *domain.CartLine) error {
	if line.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	p, err := s.products.FindByID(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrProductNotFound
	}
	return s.carts.AddLine(ctx, line)
}

func (s *CartService) ListForUser(ctx context.Context, userID uint64) ([]domain.CartLine, error) {
	return s.carts.FindByUser(ctx, userID)
}

func (s *CartService) RemoveLine(ctx context.Context, id, userID uint64) error {
	return s.carts.DeleteLine(ctx, id, userID)
}
