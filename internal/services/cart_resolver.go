package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// CartResolver turns requested lines into validated resolved lines. It only
// reads: stock reservation and cart-row deletion belong to the placement
// transaction so resolution and reservation cannot race each other.
type CartResolver struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartResolver(carts repository.CartRepository, products repository.ProductRepository) *CartResolver {
	return &CartResolver{carts: carts, products: products}
}

func (r *CartResolver) Resolve(ctx context.Context, userID uint64, flow domain.OrderFlow, reqs []domain.RequestedLine) ([]domain.ResolvedLine, error) {
	if len(reqs) == 0 {
		return nil, &domain.ValidationError{Field: "lines", Reason: "at least one line required"}
	}

	out := make([]domain.ResolvedLine, 0, len(reqs))
	for _, req := range reqs {
		switch flow {
		case domain.FlowCart:
			ln, err := r.resolveCartLine(ctx, userID, req)
			if err != nil {
				return nil, err
			}
			out = append(out, *ln)
		case domain.FlowBuyNow:
			ln, err := r.resolveBuyNowLine(ctx, req)
			if err != nil {
				return nil, err
			}
			out = append(out, *ln)
		default:
			return nil, &domain.ValidationError{Field: "flow", Reason: "must be cart or buy_now"}
		}
	}
	return out, nil
}

func (r *CartResolver) resolveCartLine(ctx context.Context, userID uint64, req domain.RequestedLine) (*domain.ResolvedLine, error) {
	if req.CartLineID == 0 {
		return nil, &domain.ValidationError{Field: "cartRowId", Reason: "required for cart flow"}
	}
	row, err := r.carts.FindLine(ctx, req.CartLineID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrCartLineNotFound
	}
	if row.UserID != userID {
		return nil, domain.ErrNotCartOwner
	}
	if row.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	p, err := r.products.FindByID(ctx, row.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return &domain.ResolvedLine{
		ProductID:     row.ProductID,
		Quantity:      row.Quantity,
		UnitPrice:     p.Price,
		SelectedSize:  row.SelectedSize,
		SelectedColor: row.SelectedColor,
		CartLineID:    row.ID,
	}, nil
}

func (r *CartResolver) resolveBuyNowLine(ctx context.Context, req domain.RequestedLine) (*domain.ResolvedLine, error) {
	if req.ProductID == 0 {
		return nil, &domain.ValidationError{Field: "productId", Reason: "required for buy_now flow"}
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	p, err := r.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return &domain.ResolvedLine{
		ProductID:     req.ProductID,
		Quantity:      qty,
		UnitPrice:     p.Price,
		SelectedSize:  req.SelectedSize,
		SelectedColor: req.SelectedColor,
	}, nil
}
