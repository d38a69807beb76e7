package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/transport"
)

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var prods []models.Product
	if len(ids) == 0 {
		return prods, nil
	}
	err := r.DB.WithContext(ctx).
		Preload("Seller", sellerFields).
		Where("id IN ?", ids).
		Find(&prods).Error
	if err != nil {
		return nil, err
	}
	return prods, nil
}

func (r *GormRepo) ProductsByUser(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var prods []models.Product
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&prods).Error
	if err != nil {
		return nil, err
	}
	return prods, nil
}

func (r *GormRepo) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	var prods []models.Product
	err := r.DB.WithContext(ctx).
		Preload("Seller", sellerFields).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&prods).Error
	if err != nil {
		return nil, err
	}
	return prods, nil
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func sellerFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

// sortColumns whitelists the caller-facing sort keys. Anything outside the
// map falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"price":     "price",
	"category":  "category",
}

// SearchProducts applies the AND-combined optional filters and returns the
// matching page plus the total count.
func (r *GormRepo) SearchProducts(ctx context.Context, f transport.SearchFilters) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if f.Category != "" {
		q = q.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(f.Category)+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}

	var prods []models.Product
	err := q.
		Preload("Seller", sellerFields).
		Order(column + " " + direction).
		Offset(f.Skip).
		Limit(f.Limit).
		Find(&prods).Error
	if err != nil {
		return 0, nil, err
	}

	return total, prods, nil
}
