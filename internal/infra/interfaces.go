package infra

import (
	"context"

	"storefront/internal/domain"
)

type ShippingClientInterface interface {
	CreateLabel(ctx context.Context, order *domain.Order) (*ShippingLabel, error)
}

var _ ShippingClientInterface = (*ShippingClient)(nil)
