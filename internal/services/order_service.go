package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"

	"github.com/go-redis/redis/v8"
)

// PlaceOrderInput carries an already-authenticated placement request. The
// HTTP layer shapes it; everything here is validated again before the
// transaction opens.
type PlaceOrderInput struct {
	UserID          uint64
	Flow            domain.OrderFlow
	Lines           []domain.RequestedLine
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	PaymentDetails  string
	DeclaredTotal   float64
}

type OrderService struct {
	orders      repository.OrderRepository
	resolver    *CartResolver
	products    repository.ProductRepository
	publisher   rabbit.PublisherInterface
	shipping    infra.ShippingClientInterface
	redisClient *redis.Client
}

func NewOrderService(orders repository.OrderRepository, resolver *CartResolver, products repository.ProductRepository, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		orders:    orders,
		resolver:  resolver,
		products:  products,
		publisher: pub,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *OrderService) SetShippingClient(client infra.ShippingClientInterface) {
	s.shipping = client
}

// PlaceOrder validates and resolves the request, then hands the resolved
// lines to the repository's single placement transaction. Post-commit work
// (event publish, shipping label, cache invalidation) is fire-and-forget.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	if in.Flow != domain.FlowCart && in.Flow != domain.FlowBuyNow {
		return nil, &domain.ValidationError{Field: "flow", Reason: "must be cart or buy_now"}
	}
	if err := in.ShippingAddress.Validate(); err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		return nil, &domain.ValidationError{Field: "payment_method", Reason: "required"}
	}

	resolved, err := s.resolver.Resolve(ctx, in.UserID, in.Flow, in.Lines)
	if err != nil {
		return nil, err
	}

	// Buy-now presumes the payment intent is already authorized; cart
	// orders wait for capture.
	status := domain.StatusPending
	if in.Flow == domain.FlowBuyNow {
		status = domain.StatusConfirmed
	}

	order := &domain.Order{
		UserID:          in.UserID,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentDetails:  in.PaymentDetails,
		DeclaredTotal:   in.DeclaredTotal,
		Status:          status,
	}

	if err := s.orders.Place(ctx, order, resolved); err != nil {
		return nil, err
	}

	go s.afterPlacement(context.Background(), order)

	return order, nil
}

func (s *OrderService) afterPlacement(ctx context.Context, order *domain.Order) {
	evt := domain.OrderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
	}
	for _, ln := range order.Lines {
		evt.Lines = append(evt.Lines, domain.OrderLineEvent{
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			UnitPrice: ln.UnitPrice,
		})
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, "order.placed", evt); err != nil {
			log.Printf("order %d: failed to publish order.placed: %v", order.ID, err)
		}
	}

	if s.shipping != nil {
		if label, err := s.shipping.CreateLabel(ctx, order); err != nil {
			log.Printf("order %d: shipping label creation failed, order stays committed: %v", order.ID, err)
		} else {
			log.Printf("order %d: shipping label %s via %s", order.ID, label.TrackingID, label.Carrier)
		}
	}

	if s.redisClient != nil {
		for _, ln := range order.Lines {
			s.redisClient.Del(ctx, productCacheKey(ln.ProductID))
		}
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// GetOrderForUser enforces ownership on reads the same way the placement
// transaction does on cart rows.
func (s *OrderService) GetOrderForUser(ctx context.Context, id, userID uint64) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotCartOwner
	}
	return o, nil
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	return s.orders.UpdateStatus(ctx, id, status)
}

func productCacheKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct serves product reads through the cache. The cache is never
// consulted inside the placement transaction; it only fronts the catalog
// read path.
func (s *OrderService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, productCacheKey(id)).Result()
		if err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("product %d: cache read failed: %v", id, err)
		}
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(p); err == nil {
			s.redisClient.Set(ctx, productCacheKey(id), data, time.Minute)
		}
	}

	return p, nil
}

func (s *OrderService) WarmupProductCache(ctx context.Context, productIDs []uint64) error {
	if s.redisClient == nil {
		return nil
	}

	for _, id := range productIDs {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			log.Printf("Failed to warm up cache for product %d: %v", id, err)
			continue
		}
		if p != nil {
			if data, err := json.Marshal(p); err == nil {
				s.redisClient.Set(ctx, productCacheKey(id), data, 5*time.Minute)
			}
		}
	}

	return nil
}
