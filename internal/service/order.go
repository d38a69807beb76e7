package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/repo"
	"github.com/sellergrid/marketplace/internal/transport"
	"github.com/sellergrid/marketplace/internal/util"
)

const recentPurchasesLimit = 5

// OrderService converts carts into immutable orders and serves purchase
// history.
type OrderService struct {
	Repo *repo.GormRepo
}

// CreateOrder snapshots the cart's lines at this instant (unit price, name,
// image) so later product edits never alter the order, then persists the
// order and empties the cart inside one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	cart, err := s.Repo.CartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart is empty: %w", ErrEmptyCart)
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", ErrEmptyCart)
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

	totalAmount := decimal.Zero
	var totalItems uint
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s no longer exists: %w", it.ProductID, ErrNotAvailable)
		}
		items = append(items, models.OrderItem{
			ProductID:       p.ID,
			Quantity:        it.Quantity,
			PriceAtPurchase: p.Price,
			ProductName:     p.Name,
			ProductImage:    p.ImageURL,
		})
		totalAmount = totalAmount.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		totalItems += it.Quantity
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCreditCard
	}

	// No payment gateway: orders complete immediately.
	order := &models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     totalAmount,
		TotalItems:      totalItems,
		Status:          models.OrderStatusCompleted,
		OrderDate:       time.Now().UTC(),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentStatusCompleted,
	}

	if err := s.Repo.CreateOrderFromCart(ctx, order, cart.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*transport.OrdersPage, error) {
	offset, limit := util.Calculate(page, limit)
	if page < 1 {
		page = 1
	}

	orders, err := s.Repo.OrdersByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.Repo.CountOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if orders == nil {
		orders = []models.Order{}
	}

	return &transport.OrdersPage{
		Orders: orders,
		Pagination: transport.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalOrders: total,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Stats(ctx context.Context, userID uuid.UUID) (*transport.OrderStats, error) {
	return s.Repo.OrderStatsByUser(ctx, userID)
}

func (s *OrderService) RecentPurchases(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = recentPurchasesLimit
	}
	orders, err := s.Repo.OrdersByUser(ctx, userID, 0, limit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
