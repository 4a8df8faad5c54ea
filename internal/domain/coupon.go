package domain

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID          uint64       `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string       `json:"code" gorm:"uniqueIndex;not null"`
	Type        DiscountType `json:"type" gorm:"type:varchar(16);not null"`
	Amount      float64      `json:"amount" gorm:"not null"`
	MinPurchase float64      `json:"minPurchase"`
	// UsageLimit of zero means unlimited. Used never exceeds a nonzero
	// limit; the conditional increment in the redemption transaction is
	// what enforces that under concurrency.
	UsageLimit int64     `json:"usageLimit"`
	Used       int64     `json:"used"`
	Active     bool      `json:"active" gorm:"default:true"`
	ValidFrom  time.Time `json:"validFrom"`
	ValidUntil time.Time `json:"validUntil"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// ValidAt reports whether t falls inside the coupon's validity window.
// A zero bound is open-ended.
func (c *Coupon) ValidAt(t time.Time) bool {
	if !c.ValidFrom.IsZero() && t.Before(c.ValidFrom) {
		return false
	}
	if !c.ValidUntil.IsZero() && t.After(c.ValidUntil) {
		return false
	}
	return true
}

// DiscountFor computes the discount for a cart total. Fixed discounts are
// clamped to the total so the payable amount can reach zero but never go
// negative.
func (c *Coupon) DiscountFor(cartTotal float64) float64 {
	switch c.Type {
	case DiscountPercentage:
		return cartTotal * c.Amount / 100
	case DiscountFixed:
		if c.Amount > cartTotal {
			return cartTotal
		}
		return c.Amount
	}
	return 0
}

// CouponUsage is the append-only redemption ledger. One row per successful
// redemption lets the used counter be reconciled if it ever drifts.
type CouponUsage struct {
	ID             uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	CouponID       uint64    `json:"couponId" gorm:"not null;index"`
	OrderID        uint64    `json:"orderId" gorm:"index"`
	UserID         uint64    `json:"userId" gorm:"index"`
	DiscountAmount float64   `json:"discountAmount" gorm:"not null"`
	UsedAt         time.Time `json:"usedAt" gorm:"autoCreateTime"`
}
