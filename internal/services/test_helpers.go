package services

import (
	"time"

	"storefront/internal/domain"
)

func CreateMockProduct(id uint64, name string, price float64, stock int64) *domain.Product {
	return &domain.Product{
		ID:        id,
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now(),
	}
}

func CreateMockCartLine(id, userID, productID uint64, qty int64) *domain.CartLine {
	return &domain.CartLine{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: time.Now(),
	}
}

func ValidAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Line1:   "221B Baker Street",
		City:    "London",
		State:   "Greater London",
		Pincode: "NW16XE",
		Country: "UK",
		Phone:   "+442071234567",
	}
}

const (
	TestUserID       = uint64(7)
	TestProductID    = uint64(1)
	TestProductName  = "Test Product"
	TestProductPrice = float64(100)
	TestProductStock = int64(5)
)
