package mysql

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type couponRepo struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) repository.CouponRepository {
	return &couponRepo{db: db}
}

func (r *couponRepo) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Redeem increments the usage counter and appends the ledger row as one
// transaction. The increment carries its own guard; two concurrent
// redemptions can both pass the service-level precheck, but only one can
// win the guarded update.
func (r *couponRepo) Redeem(ctx context.Context, couponID, orderID, userID uint64, discount float64) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin redemption: %w", tx.Error)
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	var c domain.Coupon
	if err := tx.First(&c, couponID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInvalidCoupon
		}
		return fmt.Errorf("read coupon %d: %w", couponID, err)
	}
	if !c.Active {
		tx.Rollback()
		return domain.ErrInvalidCoupon
	}

	res := tx.Model(&domain.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR used < usage_limit)", couponID).
		Update("used", gorm.Expr("used + 1"))
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("increment coupon usage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return domain.ErrUsageLimitReached
	}

	usage := domain.CouponUsage{
		CouponID:       couponID,
		OrderID:        orderID,
		UserID:         userID,
		DiscountAmount: discount,
	}
	if err := tx.Create(&usage).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("insert coupon usage: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit redemption: %w", err)
	}
	return nil
}

func (r *couponRepo) Create(ctx context.Context, c *domain.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *couponRepo) UsagesForCoupon(ctx context.Context, couponID uint64) ([]domain.CouponUsage, error) {
	var out []domain.CouponUsage
	err := r.db.WithContext(ctx).
		Where("coupon_id = ?", couponID).
		Order("used_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
