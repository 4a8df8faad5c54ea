package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrNotCartOwner     = errors.New("cart line does not belong to user")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")

	ErrInvalidCoupon     = errors.New("coupon not found or not active")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	ErrMinPurchaseNotMet = errors.New("cart total below coupon minimum purchase")

	ErrInvalidStatus = errors.New("invalid order status")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientStockError is raised by the in-transaction stock read when a
// product cannot cover the requested quantity. No partial order is created.
type InsufficientStockError struct {
	ProductID uint64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// StockRaceError is raised when the conditional decrement affects zero rows:
// a concurrent transaction consumed the stock between the in-transaction read
// and the write. The client should refresh inventory and retry.
type StockRaceError struct {
	ProductID uint64
}

func (e *StockRaceError) Error() string {
	return fmt.Sprintf("stock for product %d was taken by a concurrent order", e.ProductID)
}
