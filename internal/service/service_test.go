package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	return &repo.GormRepo{DB: db}
}

func seedUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()

	u := &models.User{
		Name:         "Test Seller",
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, r *repo.GormRepo, sellerID uuid.UUID, name, price string, quantity uint) *models.Product {
	t.Helper()

	p := &models.Product{
		UserID:    sellerID,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Quantity:  quantity,
		Category:  "electronics",
		Condition: models.ConditionNew,
		IsActive:  true,
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)),
		"expected %s, got %s", want, got)
}
