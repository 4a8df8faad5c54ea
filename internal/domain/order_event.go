package domain

import "time"

type OrderPlacedEvent struct {
	OrderID     uint64           `json:"orderId"`
	UserID      uint64           `json:"userId"`
	TotalAmount float64          `json:"totalAmount"`
	Status      OrderStatus      `json:"status"`
	Lines       []OrderLineEvent `json:"lines"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type OrderLineEvent struct {
	ProductID uint64  `json:"productId"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type CouponRedeemedEvent struct {
	CouponID       uint64  `json:"couponId"`
	Code           string  `json:"code"`
	OrderID        uint64  `json:"orderId"`
	UserID         uint64  `json:"userId"`
	DiscountAmount float64 `json:"discountAmount"`
}
