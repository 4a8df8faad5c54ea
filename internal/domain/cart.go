package domain

import "time"

// CartLine is a pending-purchase row. It belongs to exactly one user and is
// deleted in the same transaction that converts it into an order line, so it
// is either intact or gone, never partially consumed.
type CartLine struct {
	ID            uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        uint64    `json:"userId" gorm:"not null;index"`
	ProductID     uint64    `json:"productId" gorm:"not null;index"`
	Quantity      int64     `json:"quantity" gorm:"not null"`
	SelectedSize  string    `json:"selectedSize"`
	SelectedColor string    `json:"selectedColor"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// OrderFlow distinguishes checkout from a persisted cart vs an ad-hoc
// buy-now request.
type OrderFlow string

const (
	FlowCart   OrderFlow = "cart"
	FlowBuyNow OrderFlow = "buy_now"
)

// RequestedLine is one line of a placement request before resolution.
// Exactly one of CartLineID / ProductID identifies the product, depending
// on the flow.
type RequestedLine struct {
	CartLineID    uint64 `json:"cartRowId"`
	ProductID     uint64 `json:"productId"`
	Quantity      int64  `json:"quantity"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

// ResolvedLine is a validated line ready for the placement transaction.
// UnitPrice here is advisory; the authoritative price is re-read inside
// the transaction when the order line is written.
type ResolvedLine struct {
	ProductID     uint64
	Quantity      int64
	UnitPrice     float64
	SelectedSize  string
	SelectedColor string
	CartLineID    uint64 // 0 for buy-now lines
}
