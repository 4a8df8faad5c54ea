package mysql

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Place runs the whole placement as one transaction. The conditional
// decrement's affected-row count is the only trusted success signal: the
// earlier in-transaction read screens out obviously short stock, but a
// concurrent commit can still win between read and write, and that shows
// up as zero rows affected.
func (r *orderRepo) Place(ctx context.Context, order *domain.Order, lines []domain.ResolvedLine) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin placement: %w", tx.Error)
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	built := make([]domain.OrderLine, 0, len(lines))
	var total float64
	for _, ln := range lines {
		var p domain.Product
		if err := tx.First(&p, ln.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("read product %d: %w", ln.ProductID, err)
		}
		if p.Stock < ln.Quantity {
			tx.Rollback()
			return &domain.InsufficientStockError{
				ProductID: p.ID,
				Requested: ln.Quantity,
				Available: p.Stock,
			}
		}
		// Price frozen here, from the in-transaction read.
		built = append(built, domain.OrderLine{
			ProductID:     p.ID,
			Quantity:      ln.Quantity,
			UnitPrice:     p.Price,
			SelectedSize:  ln.SelectedSize,
			SelectedColor: ln.SelectedColor,
		})
		total += p.Price * float64(ln.Quantity)
	}

	order.TotalAmount = total
	if order.DeclaredTotal != 0 && order.DeclaredTotal != total {
		log.Printf("order for user %d: declared total %.2f differs from computed %.2f, storing both",
			order.UserID, order.DeclaredTotal, total)
	}

	order.Lines = nil
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range built {
		built[i].OrderID = order.ID
		if err := tx.Create(&built[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("insert order line: %w", err)
		}
		res := tx.Model(&domain.Product{}).
			Where("id = ? AND stock >= ?", built[i].ProductID, built[i].Quantity).
			Updates(map[string]interface{}{
				"stock": gorm.Expr("stock - ?", built[i].Quantity),
				"sold":  gorm.Expr("sold + ?", built[i].Quantity),
			})
		if res.Error != nil {
			tx.Rollback()
			return fmt.Errorf("decrement stock for product %d: %w", built[i].ProductID, res.Error)
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return &domain.StockRaceError{ProductID: built[i].ProductID}
		}
	}

	// Consume cart rows, scoped by owner even inside the transaction. A
	// vanished row means the cart was already consumed by an earlier
	// placement; abort instead of charging stock twice.
	for _, ln := range lines {
		if ln.CartLineID == 0 {
			continue
		}
		res := tx.Where("id = ? AND user_id = ?", ln.CartLineID, order.UserID).
			Delete(&domain.CartLine{})
		if res.Error != nil {
			tx.Rollback()
			return fmt.Errorf("delete cart line %d: %w", ln.CartLineID, res.Error)
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return domain.ErrCartLineNotFound
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit placement: %w", err)
	}
	order.Lines = built
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Lines").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	if !domain.ValidStatus(status) {
		return domain.ErrInvalidStatus
	}
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
