package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellergrid/marketplace/internal/logging"
	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/repo"
	"github.com/sellergrid/marketplace/internal/transport"
)

// CartService owns the per-user cart business rules: lazy creation, line
// merging, live stock checks and derived-total maintenance.
type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity uint) (*transport.CartView, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidQuantity)
	}

	product, err := s.availableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Quantity {
		return nil, fmt.Errorf("insufficient product quantity available: %w", ErrInsufficientStock)
	}

	cart, err := s.Repo.CartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = &models.Cart{UserID: userID}
		if err := s.Repo.CreateCart(ctx, cart); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	var line *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			line = &cart.Items[i]
			break
		}
	}

	if line != nil {
		newQuantity := line.Quantity + quantity
		if newQuantity > product.Quantity {
			return nil, fmt.Errorf("insufficient product quantity available: %w", ErrInsufficientStock)
		}
		line.Quantity = newQuantity
		if err := s.Repo.SaveCartItem(ctx, line); err != nil {
			return nil, err
		}
	} else {
		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.Repo.CreateCartItem(ctx, &item); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.RecomputeCartTotals(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity uint) (*transport.CartView, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidQuantity)
	}

	cart, err := s.Repo.CartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var line *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			line = &cart.Items[i]
			break
		}
	}
	if line == nil {
		return nil, fmt.Errorf("item not found in cart: %w", ErrNotFound)
	}

	product, err := s.availableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Quantity {
		return nil, fmt.Errorf("insufficient product quantity available: %w", ErrInsufficientStock)
	}

	line.Quantity = quantity
	if err := s.Repo.SaveCartItem(ctx, line); err != nil {
		return nil, err
	}

	if err := s.Repo.RecomputeCartTotals(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem is idempotent: removing a product that is not in the cart
// returns the current cart state without error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
	cart, err := s.Repo.CartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.DeleteCartItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}

	if err := s.Repo.RecomputeCartTotals(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*transport.CartView, error) {
	cart, err := s.Repo.CartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Repo.DeleteCartItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateCartTotals(ctx, cart.ID, 0, decimal.Zero); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// GetCart joins the cart lines with live product data and sums
// calculated_total_price from current prices. Lines whose product has been
// hard-deleted are dropped from the view with a warning.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*transport.CartView, error) {
	cart, err := s.Repo.CartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &transport.CartView{
			Items:                []transport.CartItemView{},
			TotalPrice:           decimal.Zero,
			CalculatedTotalPrice: decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	prods, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}

	view := &transport.CartView{
		ID:                   cart.ID,
		UserID:               cart.UserID,
		Items:                make([]transport.CartItemView, 0, len(cart.Items)),
		TotalItems:           cart.TotalItems,
		TotalPrice:           cart.TotalPrice,
		CalculatedTotalPrice: decimal.Zero,
	}

	for _, it := range cart.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			logging.FromContext(ctx).Warn("cart line references missing product",
				"cart_id", cart.ID, "product_id", it.ProductID)
			continue
		}

		summary := transport.ProductSummary{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Condition: p.Condition,
			Category:  p.Category,
			Quantity:  p.Quantity,
			IsActive:  p.IsActive,
		}
		if p.Seller != nil {
			summary.Seller = &transport.SellerView{Name: p.Seller.Name, Email: p.Seller.Email}
		}

		view.Items = append(view.Items, transport.CartItemView{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			AddedAt:   it.AddedAt,
			Product:   summary,
		})
		view.CalculatedTotalPrice = view.CalculatedTotalPrice.Add(
			p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		)
	}

	return view, nil
}

func (s *CartService) ItemCount(ctx context.Context, userID uuid.UUID) (uint, error) {
	return s.Repo.CartItemCount(ctx, userID)
}

func (s *CartService) availableProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.ProductByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product not found or not available: %w", ErrNotAvailable)
	}
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product not found or not available: %w", ErrNotAvailable)
	}
	return product, nil
}
