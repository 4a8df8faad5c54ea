package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

// ValidStatus reports whether s is one of the known fulfillment states.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// ShippingAddress is the normalized address stored on every order. The
// boundary rejects missing required fields instead of falling back across
// alternate field names.
type ShippingAddress struct {
	Line1   string `json:"line1" gorm:"not null"`
	Line2   string `json:"line2"`
	City    string `json:"city" gorm:"not null"`
	State   string `json:"state" gorm:"not null"`
	Pincode string `json:"pincode" gorm:"not null"`
	Country string `json:"country" gorm:"not null"`
	Phone   string `json:"phone" gorm:"not null"`
}

// Validate returns a ValidationError naming the first missing required field.
func (a ShippingAddress) Validate() error {
	required := []struct {
		field, value string
	}{
		{"line1", a.Line1},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
		{"country", a.Country},
		{"phone", a.Phone},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: "shipping_address." + r.field, Reason: "required"}
		}
	}
	return nil
}

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint64          `json:"userId" gorm:"not null;index"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:ship_"`
	PaymentMethod   string          `json:"paymentMethod" gorm:"not null"`
	PaymentDetails  string          `json:"paymentDetails"` // raw gateway blob, stored verbatim
	// TotalAmount is recomputed from the frozen line prices inside the
	// placement transaction. DeclaredTotal is the client-sent figure, kept
	// for audit only and never used for charging.
	TotalAmount   float64     `json:"totalAmount" gorm:"not null"`
	DeclaredTotal float64     `json:"declaredTotal"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(16);default:'pending';index"`
	Lines         []OrderLine `json:"lines" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"autoCreateTime"`
}

// OrderLine captures the unit price at placement time. Later catalog price
// changes must not alter historical orders.
type OrderLine struct {
	ID            uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID       uint64  `json:"orderId" gorm:"not null;index"`
	ProductID     uint64  `json:"productId" gorm:"not null;index"`
	Quantity      int64   `json:"quantity" gorm:"not null"`
	UnitPrice     float64 `json:"unitPrice" gorm:"not null"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
}
