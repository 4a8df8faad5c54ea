package http

import "encoding/json"

type PlaceOrderRequest struct {
	UserID          uint64             `json:"userId" binding:"required"`
	Flow            string             `json:"flow" binding:"required"`
	Lines           []OrderLineRequest `json:"lines" binding:"required"`
	ShippingAddress AddressRequest     `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	PaymentDetails  json.RawMessage    `json:"paymentDetails"`
	DeclaredTotal   float64            `json:"declaredTotal"`
}

type OrderLineRequest struct {
	CartRowID     uint64 `json:"cartRowId"`
	ProductID     uint64 `json:"productId"`
	Quantity      int64  `json:"quantity"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

type AddressRequest struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

type PlaceOrderResponse struct {
	OrderID uint64 `json:"orderId"`
}

type RedeemRequest struct {
	Code      string  `json:"code" binding:"required"`
	OrderID   uint64  `json:"orderId"`
	UserID    uint64  `json:"userId"`
	CartTotal float64 `json:"cartTotal"`
}

type AddCartLineRequest struct {
	ProductID     uint64 `json:"productId" binding:"required"`
	Quantity      int64  `json:"quantity" binding:"required"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ErrorResponse struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}
