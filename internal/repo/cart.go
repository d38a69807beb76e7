package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellergrid/marketplace/internal/models"
)

func (r *GormRepo) CartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.DB.WithContext(ctx).Create(cart).Error
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, cartID, productID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteCartItems(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) UpdateCartTotals(ctx context.Context, cartID uuid.UUID, totalItems uint, totalPrice decimal.Decimal) error {
	return r.DB.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_items": totalItems,
			"total_price": totalPrice,
		}).Error
}

// CartItemCount sums line quantities for the badge endpoint without joining
// product rows.
func (r *GormRepo) CartItemCount(ctx context.Context, userID uuid.UUID) (uint, error) {
	var count uint
	err := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Select("COALESCE(SUM(cart_items.quantity), 0)").
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CartIDsWithProduct lists every cart holding a line for the product, used
// for the cascade when a listing is deleted or deactivated.
func (r *GormRepo) CartIDsWithProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("product_id = ?", productID).
		Distinct().
		Pluck("cart_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormRepo) DeleteCartItemsByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.CartItem{}).Error
}

// RecomputeCartTotals rebuilds the cart's derived totals from its current
// lines and live product prices. Lines whose product no longer exists
// contribute their quantity but no price, matching the read-side view that
// drops them.
func (r *GormRepo) RecomputeCartTotals(ctx context.Context, cartID uuid.UUID) error {
	items, err := r.CartItemsByCart(ctx, cartID)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) > 0 {
		var prods []models.Product
		if err := r.DB.WithContext(ctx).
			Select("id", "price").
			Where("id IN ?", ids).
			Find(&prods).Error; err != nil {
			return err
		}
		for _, p := range prods {
			prices[p.ID] = p.Price
		}
	}

	var totalItems uint
	totalPrice := decimal.Zero
	for _, it := range items {
		totalItems += it.Quantity
		if price, ok := prices[it.ProductID]; ok {
			totalPrice = totalPrice.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	return r.UpdateCartTotals(ctx, cartID, totalItems, totalPrice)
}

func (r *GormRepo) CartItemsByCart(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("added_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
