package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/repo"
	"github.com/sellergrid/marketplace/internal/transport"
)

// ProductService covers seller-facing listing management. Mutations are
// owner-checked; removing or deactivating a listing cascades into every
// cart still holding it.
type ProductService struct {
	Repo *repo.GormRepo
}

func validCondition(c string) bool {
	switch c {
	case models.ConditionNew, models.ConditionUsed, models.ConditionRefurbished:
		return true
	}
	return false
}

func (s *ProductService) Create(ctx context.Context, userID uuid.UUID, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}

	condition := req.Condition
	if condition == "" {
		condition = models.ConditionNew
	}
	if !validCondition(condition) {
		return nil, fmt.Errorf("unknown condition %q: %w", req.Condition, ErrValidation)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	prod := &models.Product{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Condition:   condition,
		ImageURL:    req.ImageURL,
		IsActive:    isActive,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}
	return prod, nil
}

func (s *ProductService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	prods, err := s.Repo.ProductsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prods == nil {
		prods = []models.Product{}
	}
	return prods, nil
}

func (s *ProductService) ListPublic(ctx context.Context) ([]models.Product, error) {
	prods, err := s.Repo.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	if prods == nil {
		prods = []models.Product{}
	}
	return prods, nil
}

// GetPublic returns an active listing with its seller attached. Inactive
// and missing listings are indistinguishable to the public.
func (s *ProductService) GetPublic(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	prods, err := s.Repo.ProductsByIDs(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	if len(prods) == 0 || !prods[0].IsActive {
		return nil, fmt.Errorf("product not found: %w", ErrNotFound)
	}
	return &prods[0], nil
}

func (s *ProductService) GetMine(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	prod, err := s.Repo.ProductByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if prod.UserID != userID {
		return nil, fmt.Errorf("product not found: %w", ErrNotFound)
	}
	return prod, nil
}

func (s *ProductService) UpdateMine(ctx context.Context, userID, productID uuid.UUID, req transport.UpdateProductRequest) (*models.Product, error) {
	prod, err := s.GetMine(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
		}
		prod.Price = *req.Price
	}
	if req.Quantity != nil {
		prod.Quantity = *req.Quantity
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.Condition != nil {
		if !validCondition(*req.Condition) {
			return nil, fmt.Errorf("unknown condition %q: %w", *req.Condition, ErrValidation)
		}
		prod.Condition = *req.Condition
	}
	if req.ImageURL != nil {
		prod.ImageURL = *req.ImageURL
	}

	deactivated := false
	if req.IsActive != nil {
		deactivated = prod.IsActive && !*req.IsActive
		prod.IsActive = *req.IsActive
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}

	if deactivated {
		if err := s.cascadeRemoveCartLines(ctx, prod.ID); err != nil {
			return nil, err
		}
	}
	return prod, nil
}

func (s *ProductService) DeleteMine(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.GetMine(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.cascadeRemoveCartLines(ctx, productID); err != nil {
		return err
	}
	return s.Repo.DeleteProduct(ctx, productID)
}

// cascadeRemoveCartLines drops the product from every cart and recomputes
// the affected carts' totals. Historical orders keep their snapshots and
// are never touched.
func (s *ProductService) cascadeRemoveCartLines(ctx context.Context, productID uuid.UUID) error {
	cartIDs, err := s.Repo.CartIDsWithProduct(ctx, productID)
	if err != nil {
		return err
	}
	if len(cartIDs) == 0 {
		return nil
	}
	if err := s.Repo.DeleteCartItemsByProduct(ctx, productID); err != nil {
		return err
	}
	for _, cartID := range cartIDs {
		if err := s.Repo.RecomputeCartTotals(ctx, cartID); err != nil {
			return err
		}
	}
	return nil
}
