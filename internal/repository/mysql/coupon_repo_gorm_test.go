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

func seedCoupon(t *testing.T, db *gorm.DB, code string, limit int64) *domain.Coupon {
	t.Helper()
	c := &domain.Coupon{
		Code:       code,
		Type:       domain.DiscountPercentage,
		Amount:     10,
		UsageLimit: limit,
		Active:     true,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestRedeem_AppendsLedgerRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewCouponRepository(db)
	c := seedCoupon(t, db, "WELCOME10", 5)

	require.NoError(t, repo.Redeem(context.Background(), c.ID, 11, 7, 25.00))

	got, err := repo.FindByCode(context.Background(), "WELCOME10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Used)

	usages, err := repo.UsagesForCoupon(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, uint64(11), usages[0].OrderID)
	assert.Equal(t, uint64(7), usages[0].UserID)
	assert.Equal(t, 25.00, usages[0].DiscountAmount)
}

func TestRedeem_GuardHoldsUsageLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewCouponRepository(db)
	c := seedCoupon(t, db, "ONESHOT", 1)

	require.NoError(t, repo.Redeem(context.Background(), c.ID, 1, 7, 10.00))
	err := repo.Redeem(context.Background(), c.ID, 2, 8, 10.00)
	assert.ErrorIs(t, err, domain.ErrUsageLimitReached)

	got, err := repo.FindByCode(context.Background(), "ONESHOT")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Used)

	// The failed attempt left no ledger row behind.
	usages, err := repo.UsagesForCoupon(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Len(t, usages, 1)
}

func TestRedeem_ConcurrentRedemptionsNeverOverrun(t *testing.T) {
	db := newTestDB(t)
	repo := NewCouponRepository(db)
	c := seedCoupon(t, db, "WELCOME10", 1)

	results := make([]error, 2)
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			results[i] = repo.Redeem(context.Background(), c.ID, uint64(i+1), uint64(i+1), 50.00)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrUsageLimitReached)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one redemption wins")

	got, err := repo.FindByCode(context.Background(), "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Used)

	usages, err := repo.UsagesForCoupon(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Len(t, usages, 1)
}

func TestRedeem_ZeroLimitIsUnlimited(t *testing.T) {
	db := newTestDB(t)
	repo := NewCouponRepository(db)
	c := seedCoupon(t, db, "EVERGREEN", 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Redeem(context.Background(), c.ID, uint64(i+1), 7, 10.00))
	}

	got, err := repo.FindByCode(context.Background(), "EVERGREEN")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Used)
}

func TestRedeem_InactiveCoupon(t *testing.T) {
	db := newTestDB(t)
	repo := NewCouponRepository(db)
	c := seedCoupon(t, db, "DISABLED", 5)
	require.NoError(t, db.Model(&domain.Coupon{}).
		Where("id = ?", c.ID).
		Update("active", false).Error)

	err := repo.Redeem(context.Background(), c.ID, 1, 7, 10.00)
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)

	got, findErr := repo.FindByCode(context.Background(), "DISABLED")
	require.NoError(t, findErr)
	assert.Zero(t, got.Used)
}

func TestFindByCode_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewCouponRepository(db)

	got, err := repo.FindByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}
