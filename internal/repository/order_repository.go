package repository

import (
	"context"

	"storefront/internal/domain"
)

// OrderRepository owns the placement transaction. Place runs the whole
// reserve-and-persist unit of work: in-transaction stock checks, order and
// line inserts with frozen prices, the conditional stock decrement, and
// deletion of consumed cart lines. Any failure rolls the whole unit back.
type OrderRepository interface {
	Place(ctx context.Context, order *domain.Order, lines []domain.ResolvedLine) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
}

type CartRepository interface {
	FindLine(ctx context.Context, id uint64) (*domain.CartLine, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.CartLine, error)
	AddLine(ctx context.Context, line *domain.CartLine) error
	DeleteLine(ctx context.Context, id, userID uint64) error
}

// CouponRepository owns the redemption transaction. Redeem performs the
// conditional usage increment and the ledger insert as one unit; a guard
// failure on the increment surfaces as ErrUsageLimitReached.
type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Redeem(ctx context.Context, couponID, orderID, userID uint64, discount float64) error
	Create(ctx context.Context, c *domain.Coupon) error
	UsagesForCoupon(ctx context.Context, couponID uint64) ([]domain.CouponUsage, error)
}
