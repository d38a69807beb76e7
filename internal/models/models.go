package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ConditionNew         = "new"
	ConditionUsed        = "used"
	ConditionRefurbished = "refurbished"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodDebitCard      = "debit_card"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name         string    `gorm:"not null"              json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Bio          string    `json:"bio,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null"    json:"user_id"`
	Seller      *User           `gorm:"foreignKey:UserID"           json:"seller,omitempty"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity    uint            `json:"quantity"`
	Category    string          `gorm:"index"                       json:"category"`
	Condition   string          `json:"condition"`
	ImageURL    string          `json:"image_url"`
	IsActive    bool            `gorm:"index"                       json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Cart is the single per-user cart. Totals are derived fields, recomputed
// on every mutation from the current line items and live product prices.
type Cart struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"           json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Items      []CartItem      `gorm:"foreignKey:CartID"              json:"items"`
	TotalItems uint            `json:"total_items"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2)"             json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                            json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"not null;check:quantity>0"                       json:"quantity"`
	AddedAt   time.Time `gorm:"autoCreateTime"                                  json:"added_at"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}

type ShippingAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// Order is an immutable snapshot of a cart at checkout time. Amounts are
// computed once at creation and stored, never recomputed from products.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null"    json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"          json:"items"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	TotalItems      uint            `gorm:"not null"                    json:"total_items"`
	Status          string          `gorm:"not null"                    json:"status"`
	OrderDate       time.Time       `gorm:"index"                       json:"order_date"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;index;not null"    json:"-"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"          json:"product_id"`
	Quantity        uint            `gorm:"not null"                    json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_at_purchase"`
	ProductName     string          `gorm:"not null"                    json:"product_name"`
	ProductImage    string          `json:"product_image"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}
