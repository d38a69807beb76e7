package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/transport"
)

// CreateOrderFromCart persists the order snapshot and empties the source
// cart in one transaction, so a failed clear never leaves a stored order
// behind.
func (r *GormRepo) CreateOrderFromCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", cartID).
			Updates(map[string]interface{}{
				"total_items": 0,
				"total_price": 0,
			}).Error
	})
}

func (r *GormRepo) OrdersByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) CountOrdersByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

func (r *GormRepo) OrderByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) OrderStatsByUser(ctx context.Context, userID uuid.UUID) (*transport.OrderStats, error) {
	var stats transport.OrderStats
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Select(
			"COUNT(*) AS total_orders, " +
				"COALESCE(SUM(total_amount), 0) AS total_spent, " +
				"COALESCE(SUM(total_items), 0) AS total_items, " +
				"COALESCE(AVG(total_amount), 0) AS average_order_value",
		).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
