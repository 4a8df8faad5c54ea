package mysql

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, price float64, stock int64) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: "widget", Price: price, Stock: stock}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCartLine(t *testing.T, db *gorm.DB, userID, productID uint64, qty int64) *domain.CartLine {
	t.Helper()
	ln := &domain.CartLine{UserID: userID, ProductID: productID, Quantity: qty}
	require.NoError(t, db.Create(ln).Error)
	return ln
}

func buyNowOrder(userID uint64) *domain.Order {
	return &domain.Order{
		UserID: userID,
		ShippingAddress: domain.ShippingAddress{
			Line1: "1 Main St", City: "Pune", State: "MH",
			Pincode: "411001", Country: "IN", Phone: "9999999999",
		},
		PaymentMethod: "card",
		Status:        domain.StatusConfirmed,
	}
}

func TestPlace_BuyNowSuccess(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	p := seedProduct(t, db, 100.00, 5)

	order := buyNowOrder(7)
	err := repo.Place(context.Background(), order, []domain.ResolvedLine{
		{ProductID: p.ID, Quantity: 2, UnitPrice: p.Price},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 200.00, order.TotalAmount)

	var got domain.Order
	require.NoError(t, db.Preload("Lines").First(&got, order.ID).Error)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 100.00, got.Lines[0].UnitPrice)
	assert.Equal(t, int64(2), got.Lines[0].Quantity)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	var prod domain.Product
	require.NoError(t, db.First(&prod, p.ID).Error)
	assert.Equal(t, int64(3), prod.Stock)
	assert.Equal(t, int64(2), prod.Sold)
}

func TestPlace_InsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	inStock := seedProduct(t, db, 50.00, 10)
	outOfStock := seedProduct(t, db, 30.00, 0)

	userID := uint64(7)
	lineA := seedCartLine(t, db, userID, inStock.ID, 1)
	lineB := seedCartLine(t, db, userID, outOfStock.ID, 1)

	order := buyNowOrder(userID)
	order.Status = domain.StatusPending
	err := repo.Place(context.Background(), order, []domain.ResolvedLine{
		{ProductID: inStock.ID, Quantity: 1, CartLineID: lineA.ID},
		{ProductID: outOfStock.ID, Quantity: 1, CartLineID: lineB.ID},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, outOfStock.ID, stockErr.ProductID)

	// Nothing from the failed placement is observable.
	var orderCount, lineCount, cartCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	db.Model(&domain.OrderLine{}).Count(&lineCount)
	db.Model(&domain.CartLine{}).Count(&cartCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, lineCount)
	assert.Equal(t, int64(2), cartCount)

	var prod domain.Product
	require.NoError(t, db.First(&prod, inStock.ID).Error)
	assert.Equal(t, int64(10), prod.Stock)
	assert.Zero(t, prod.Sold)
}

// Two lines draining the same product make the second conditional decrement
// fail at write time even though the earlier read passed, which is exactly
// the zero-rows-affected signal the coordinator must treat as a conflict.
func TestPlace_WriteGuardDetectsConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	p := seedProduct(t, db, 10.00, 1)

	order := buyNowOrder(7)
	err := repo.Place(context.Background(), order, []domain.ResolvedLine{
		{ProductID: p.ID, Quantity: 1},
		{ProductID: p.ID, Quantity: 1},
	})

	var raceErr *domain.StockRaceError
	require.ErrorAs(t, err, &raceErr)
	assert.Equal(t, p.ID, raceErr.ProductID)

	var orderCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)

	var prod domain.Product
	require.NoError(t, db.First(&prod, p.ID).Error)
	assert.Equal(t, int64(1), prod.Stock)
	assert.Zero(t, prod.Sold)
}

func TestPlace_ConcurrentPlacementsNeverOversell(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	p := seedProduct(t, db, 10.00, 1)

	results := make([]error, 2)
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			order := buyNowOrder(uint64(100 + i))
			results[i] = repo.Place(context.Background(), order, []domain.ResolvedLine{
				{ProductID: p.ID, Quantity: 1},
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var succeeded, failed int
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			failed++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one placement wins")
	assert.Equal(t, 1, failed, "the other loses the stock")

	var prod domain.Product
	require.NoError(t, db.First(&prod, p.ID).Error)
	assert.Equal(t, int64(0), prod.Stock)
	assert.Equal(t, int64(1), prod.Sold)

	var orderCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	assert.Equal(t, int64(1), orderCount)
}

func TestPlace_CartLineConsumedExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	p := seedProduct(t, db, 25.00, 10)
	userID := uint64(7)
	line := seedCartLine(t, db, userID, p.ID, 2)

	resolved := []domain.ResolvedLine{
		{ProductID: p.ID, Quantity: 2, CartLineID: line.ID},
	}

	first := buyNowOrder(userID)
	first.Status = domain.StatusPending
	require.NoError(t, repo.Place(context.Background(), first, resolved))

	var cartCount int64
	db.Model(&domain.CartLine{}).Count(&cartCount)
	assert.Zero(t, cartCount)

	// A replay of the same consumed request must not decrement stock again.
	second := buyNowOrder(userID)
	second.Status = domain.StatusPending
	err := repo.Place(context.Background(), second, resolved)
	assert.ErrorIs(t, err, domain.ErrCartLineNotFound)

	var prod domain.Product
	require.NoError(t, db.First(&prod, p.ID).Error)
	assert.Equal(t, int64(8), prod.Stock)
	assert.Equal(t, int64(2), prod.Sold)

	var orderCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	assert.Equal(t, int64(1), orderCount)
}

func TestPlace_OwnershipScopedCartDeletion(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	p := seedProduct(t, db, 25.00, 10)
	otherUsersLine := seedCartLine(t, db, 99, p.ID, 1)

	order := buyNowOrder(7)
	err := repo.Place(context.Background(), order, []domain.ResolvedLine{
		{ProductID: p.ID, Quantity: 1, CartLineID: otherUsersLine.ID},
	})
	assert.ErrorIs(t, err, domain.ErrCartLineNotFound)

	// The foreign cart line survives and stock is untouched.
	var cartCount int64
	db.Model(&domain.CartLine{}).Count(&cartCount)
	assert.Equal(t, int64(1), cartCount)

	var prod domain.Product
	require.NoError(t, db.First(&prod, p.ID).Error)
	assert.Equal(t, int64(10), prod.Stock)
}

func TestPlace_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	p := seedProduct(t, db, 100.00, 5)

	order := buyNowOrder(7)
	require.NoError(t, repo.Place(context.Background(), order, []domain.ResolvedLine{
		{ProductID: p.ID, Quantity: 1},
	}))

	require.NoError(t, db.Model(&domain.Product{}).
		Where("id = ?", p.ID).
		Update("price", 175.00).Error)

	var line domain.OrderLine
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&line).Error)
	assert.Equal(t, 100.00, line.UnitPrice)
}

func TestPlace_DeclaredTotalStoredButNotTrusted(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	p := seedProduct(t, db, 100.00, 5)

	order := buyNowOrder(7)
	order.DeclaredTotal = 1.00 // forged by the client
	require.NoError(t, repo.Place(context.Background(), order, []domain.ResolvedLine{
		{ProductID: p.ID, Quantity: 3},
	}))

	var got domain.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, 300.00, got.TotalAmount, "charged amount comes from frozen line prices")
	assert.Equal(t, 1.00, got.DeclaredTotal, "client figure kept for audit only")
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	p := seedProduct(t, db, 10.00, 5)

	order := buyNowOrder(7)
	require.NoError(t, repo.Place(context.Background(), order, []domain.ResolvedLine{
		{ProductID: p.ID, Quantity: 1},
	}))

	require.NoError(t, repo.UpdateStatus(context.Background(), order.ID, domain.StatusShipped))

	got, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusShipped, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 9999, domain.StatusShipped), domain.ErrOrderNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), order.ID, "teleported"), domain.ErrInvalidStatus)
}

func TestFindByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	got, err := repo.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}
