package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAddItemCreatesCartLazily(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	prod := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 10)

	view, err := svc.AddItem(ctx, buyer.ID, prod.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, prod.ID, view.Items[0].ProductID)
	require.Equal(t, uint(2), view.Items[0].Quantity)
	require.Equal(t, uint(2), view.TotalItems)
	requireDecimal(t, "40.00", view.TotalPrice)
	requireDecimal(t, "40.00", view.CalculatedTotalPrice)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	prod := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 10)

	_, err := svc.AddItem(ctx, buyer.ID, prod.ID, 2)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, buyer.ID, prod.ID, 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	require.Equal(t, uint(5), view.Items[0].Quantity)
	require.Equal(t, uint(5), view.TotalItems)
	requireDecimal(t, "100.00", view.TotalPrice)
}

func TestAddItemStockChecks(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	prod := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 5)

	_, err := svc.AddItem(ctx, buyer.ID, prod.ID, 6)
	require.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AddItem(ctx, buyer.ID, prod.ID, 3)
	require.NoError(t, err)

	// 3 already held, 3 more would exceed the 5 in stock
	_, err = svc.AddItem(ctx, buyer.ID, prod.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// the failed add left the line untouched
	view, err := svc.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, uint(3), view.Items[0].Quantity)
}

func TestAddItemRejectsInactiveAndMissingProducts(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	prod := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 5)

	prod.IsActive = false
	require.NoError(t, r.SaveProduct(ctx, prod))

	_, err := svc.AddItem(ctx, buyer.ID, prod.ID, 1)
	require.ErrorIs(t, err, ErrNotAvailable)

	_, err = svc.AddItem(ctx, buyer.ID, uuid.New(), 1)
	require.ErrorIs(t, err, ErrNotAvailable)
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateItemQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	prod := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 10)

	_, err := svc.AddItem(ctx, buyer.ID, prod.ID, 2)
	require.NoError(t, err)

	view, err := svc.UpdateItemQuantity(ctx, buyer.ID, prod.ID, 7)
	require.NoError(t, err)
	require.Equal(t, uint(7), view.Items[0].Quantity)
	requireDecimal(t, "140.00", view.TotalPrice)

	_, err = svc.UpdateItemQuantity(ctx, buyer.ID, prod.ID, 11)
	require.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.UpdateItemQuantity(ctx, buyer.ID, prod.ID, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateItemQuantity(ctx, buyer.ID, uuid.New(), 1)
	require.ErrorIs(t, err, ErrNotFound)

	// failed updates left the stored quantity alone
	view, err = svc.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	require.Equal(t, uint(7), view.Items[0].Quantity)
}

func TestUpdateItemQuantityWithoutCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, err := svc.UpdateItemQuantity(context.Background(), uuid.New(), uuid.New(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveItemIsIdempotentForLines(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	prod := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 10)

	_, err := svc.AddItem(ctx, buyer.ID, prod.ID, 2)
	require.NoError(t, err)

	view, err := svc.RemoveItem(ctx, buyer.ID, prod.ID)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.Equal(t, uint(0), view.TotalItems)
	requireDecimal(t, "0", view.TotalPrice)

	// already gone: still no error
	view, err = svc.RemoveItem(ctx, buyer.ID, prod.ID)
	require.NoError(t, err)
	require.Empty(t, view.Items)

	// missing cart is a real error
	_, err = svc.RemoveItem(ctx, uuid.New(), prod.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClearCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	p1 := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 10)
	p2 := seedProduct(t, r, seller.ID, "Mouse", "5.00", 10)

	_, err := svc.AddItem(ctx, buyer.ID, p1.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, buyer.ID, p2.ID, 4)
	require.NoError(t, err)

	view, err := svc.Clear(ctx, buyer.ID)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.Equal(t, uint(0), view.TotalItems)
	requireDecimal(t, "0", view.TotalPrice)
}

func TestGetCartForUserWithoutCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	view, err := svc.GetCart(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.Equal(t, uint(0), view.TotalItems)
	requireDecimal(t, "0", view.TotalPrice)
	requireDecimal(t, "0", view.CalculatedTotalPrice)
}

func TestCalculatedTotalUsesLivePrices(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	prod := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 10)

	_, err := svc.AddItem(ctx, buyer.ID, prod.ID, 2)
	require.NoError(t, err)

	prod.Price = prod.Price.Add(prod.Price) // 40.00
	require.NoError(t, r.SaveProduct(ctx, prod))

	view, err := svc.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	// stored total is stale until the next mutation, live total is not
	requireDecimal(t, "40.00", view.TotalPrice)
	requireDecimal(t, "80.00", view.CalculatedTotalPrice)
}

func TestItemCount(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	seller := seedUser(t, r, "seller@example.com")
	buyer := seedUser(t, r, "buyer@example.com")
	p1 := seedProduct(t, r, seller.ID, "Keyboard", "20.00", 10)
	p2 := seedProduct(t, r, seller.ID, "Mouse", "5.00", 10)

	count, err := svc.ItemCount(ctx, buyer.ID)
	require.NoError(t, err)
	require.Equal(t, uint(0), count)

	_, err = svc.AddItem(ctx, buyer.ID, p1.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, buyer.ID, p2.ID, 4)
	require.NoError(t, err)

	count, err = svc.ItemCount(ctx, buyer.ID)
	require.NoError(t, err)
	require.Equal(t, uint(6), count)
}
