package services

import (
	"context"
	"log"
	"time"

	"storefront/internal/domain"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"
)

// RedeemResult reports the computed discount and a snapshot of the coupon
// after the redemption committed.
type RedeemResult struct {
	DiscountAmount float64       `json:"discountAmount"`
	Coupon         domain.Coupon `json:"coupon"`
}

type CouponService struct {
	coupons   repository.CouponRepository
	publisher rabbit.PublisherInterface
	now       func() time.Time
}

func NewCouponService(coupons repository.CouponRepository, pub rabbit.PublisherInterface) *CouponService {
	return &CouponService{
		coupons:   coupons,
		publisher: pub,
		now:       time.Now,
	}
}

// Redeem mirrors order placement: business-rule checks up front, then one
// transaction whose guarded increment is the only thing trusted under
// concurrency. The precheck on Used is a fast path; the guard inside the
// repository transaction is what actually holds the limit.
func (s *CouponService) Redeem(ctx context.Context, code string, orderID, userID uint64, cartTotal float64) (*RedeemResult, error) {
	c, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.Active || !c.ValidAt(s.now()) {
		return nil, domain.ErrInvalidCoupon
	}
	if c.UsageLimit > 0 && c.Used >= c.UsageLimit {
		return nil, domain.ErrUsageLimitReached
	}
	if cartTotal < c.MinPurchase {
		return nil, domain.ErrMinPurchaseNotMet
	}

	discount := c.DiscountFor(cartTotal)

	if err := s.coupons.Redeem(ctx, c.ID, orderID, userID, discount); err != nil {
		return nil, err
	}
	c.Used++

	if s.publisher != nil {
		go s.publishRedeemed(context.Background(), c, orderID, userID, discount)
	}

	return &RedeemResult{DiscountAmount: discount, Coupon: *c}, nil
}

func (s *CouponService) publishRedeemed(ctx context.Context, c *domain.Coupon, orderID, userID uint64, discount float64) {
	evt := domain.CouponRedeemedEvent{
		CouponID:       c.ID,
		Code:           c.Code,
		OrderID:        orderID,
		UserID:         userID,
		DiscountAmount: discount,
	}
	if err := s.publisher.Publish(ctx, "coupon.redeemed", evt); err != nil {
		log.Printf("coupon %s: failed to publish coupon.redeemed: %v", c.Code, err)
	}
}
