package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellergrid/marketplace/internal/models"
)

type SellerView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductSummary is the live product state attached to a cart line at read
// time. It is never persisted onto the cart.
type ProductSummary struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Condition string          `json:"condition"`
	Category  string          `json:"category"`
	Quantity  uint            `json:"quantity"`
	IsActive  bool            `json:"is_active"`
	Seller    *SellerView     `json:"seller,omitempty"`
}

type CartItemView struct {
	ProductID uuid.UUID      `json:"product_id"`
	Quantity  uint           `json:"quantity"`
	AddedAt   time.Time      `json:"added_at"`
	Product   ProductSummary `json:"product"`
}

type CartView struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	Items                []CartItemView  `json:"items"`
	TotalItems           uint            `json:"total_items"`
	TotalPrice           decimal.Decimal `json:"total_price"`
	CalculatedTotalPrice decimal.Decimal `json:"calculated_total_price"`
}

type SearchFilters struct {
	Search    string
	Category  string
	Condition string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	IsActive  *bool
	SortBy    string
	SortOrder string
	Limit     int
	Skip      int
}

type SearchResult struct {
	Products   []models.Product `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	HasNext    bool             `json:"hasNext"`
	HasPrev    bool             `json:"hasPrev"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    uint            `json:"quantity"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	ImageURL    string          `json:"image_url"`
	IsActive    *bool           `json:"is_active"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *uint            `json:"quantity"`
	Category    *string          `json:"category"`
	Condition   *string          `json:"condition"`
	ImageURL    *string          `json:"image_url"`
	IsActive    *bool            `json:"is_active"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

type CreateOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalOrders int64 `json:"totalOrders"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type OrdersPage struct {
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

type OrderStats struct {
	TotalOrders       int64           `json:"totalOrders"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
	TotalItems        int64           `json:"totalItems"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}
