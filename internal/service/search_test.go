package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/repo"
	"github.com/sellergrid/marketplace/internal/transport"
)

func boolPtr(b bool) *bool { return &b }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func seedCatalog(t *testing.T, r *repo.GormRepo) {
	t.Helper()

	seller := seedUser(t, r, "seller@example.com")
	ctx := context.Background()

	for _, p := range []models.Product{
		{Name: "Gaming Laptop", Description: "fast", Price: decimal.RequireFromString("1200.00"), Quantity: 3, Category: "electronics", Condition: models.ConditionNew, IsActive: true},
		{Name: "Office Laptop", Description: "boring", Price: decimal.RequireFromString("600.00"), Quantity: 5, Category: "electronics", Condition: models.ConditionRefurbished, IsActive: true},
		{Name: "Desk Lamp", Description: "warm light", Price: decimal.RequireFromString("25.00"), Quantity: 10, Category: "home", Condition: models.ConditionNew, IsActive: true},
		{Name: "Used Phone", Description: "scratched", Price: decimal.RequireFromString("150.00"), Quantity: 1, Category: "electronics", Condition: models.ConditionUsed, IsActive: false},
	} {
		p := p
		p.UserID = seller.ID
		require.NoError(t, r.CreateProduct(ctx, &p))
	}
}

func TestSearchByText(t *testing.T) {
	r := newTestRepo(t)
	svc := &SearchService{Repo: r}
	seedCatalog(t, r)

	res, err := svc.Search(context.Background(), transport.SearchFilters{Search: "LAPTOP"})
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Total)
	require.Len(t, res.Products, 2)

	// matches description too
	res, err = svc.Search(context.Background(), transport.SearchFilters{Search: "warm"})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	require.Equal(t, "Desk Lamp", res.Products[0].Name)
}

func TestSearchPriceRange(t *testing.T) {
	r := newTestRepo(t)
	svc := &SearchService{Repo: r}
	seedCatalog(t, r)

	res, err := svc.Search(context.Background(), transport.SearchFilters{
		MinPrice: decPtr("100.00"),
		MaxPrice: decPtr("700.00"),
		IsActive: boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	require.Equal(t, "Office Laptop", res.Products[0].Name)
}

func TestSearchConditionAndActive(t *testing.T) {
	r := newTestRepo(t)
	svc := &SearchService{Repo: r}
	seedCatalog(t, r)

	res, err := svc.Search(context.Background(), transport.SearchFilters{
		Condition: models.ConditionUsed,
		IsActive:  boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), res.Total)

	res, err = svc.Search(context.Background(), transport.SearchFilters{
		Condition: models.ConditionUsed,
		IsActive:  boolPtr(false),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	require.Equal(t, "Used Phone", res.Products[0].Name)
}

func TestSearchCategoryFilter(t *testing.T) {
	r := newTestRepo(t)
	svc := &SearchService{Repo: r}
	seedCatalog(t, r)

	res, err := svc.Search(context.Background(), transport.SearchFilters{
		Category: "home",
		IsActive: boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	require.Equal(t, "Desk Lamp", res.Products[0].Name)
}

func TestSearchSortByPrice(t *testing.T) {
	r := newTestRepo(t)
	svc := &SearchService{Repo: r}
	seedCatalog(t, r)

	res, err := svc.Search(context.Background(), transport.SearchFilters{
		IsActive:  boolPtr(true),
		SortBy:    "price",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, res.Products, 3)
	require.Equal(t, "Desk Lamp", res.Products[0].Name)
	require.Equal(t, "Gaming Laptop", res.Products[2].Name)

	res, err = svc.Search(context.Background(), transport.SearchFilters{
		IsActive:  boolPtr(true),
		SortBy:    "price",
		SortOrder: "desc",
	})
	require.NoError(t, err)
	require.Equal(t, "Gaming Laptop", res.Products[0].Name)
}

func TestSearchPagination(t *testing.T) {
	r := newTestRepo(t)
	svc := &SearchService{Repo: r}
	seedCatalog(t, r)

	res, err := svc.Search(context.Background(), transport.SearchFilters{
		IsActive: boolPtr(true),
		Limit:    2,
		Skip:     0,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), res.Total)
	require.Len(t, res.Products, 2)
	require.Equal(t, 1, res.Page)
	require.Equal(t, 2, res.TotalPages)
	require.True(t, res.HasNext)
	require.False(t, res.HasPrev)

	res, err = svc.Search(context.Background(), transport.SearchFilters{
		IsActive: boolPtr(true),
		Limit:    2,
		Skip:     2,
	})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	require.Equal(t, 2, res.Page)
	require.False(t, res.HasNext)
	require.True(t, res.HasPrev)
}

func TestSearchNoMatches(t *testing.T) {
	r := newTestRepo(t)
	svc := &SearchService{Repo: r}
	seedCatalog(t, r)

	res, err := svc.Search(context.Background(), transport.SearchFilters{Search: "submarine"})
	require.NoError(t, err)
	require.Equal(t, int64(0), res.Total)
	require.NotNil(t, res.Products)
	require.Empty(t, res.Products)
	require.Equal(t, 0, res.TotalPages)
	require.False(t, res.HasNext)
}
