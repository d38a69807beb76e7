package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sellergrid/marketplace/internal/logging"
	"github.com/sellergrid/marketplace/internal/mykafka"
	"github.com/sellergrid/marketplace/internal/service"
)

type CartHandler struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key, _ := event["user_id"].(string)
	if err := h.Producer.PublishEvent(ctx, "cart_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var req struct {
		ProductID uuid.UUID `json:"productId"`
		Quantity  uint      `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.ProductID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Product ID is required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_to_cart_failed", "product_id", req.ProductID, "error", err)
		return respondError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID.String(),
		"product_id": req.ProductID.String(),
		"quantity":   req.Quantity,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Item added to cart successfully",
		"cart":    cart,
	})
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	cart, err := h.Svc.UpdateItemQuantity(ctx, userID, productID, req.Quantity)
	if err != nil {
		l.Warn("update_cart_item_failed", "product_id", productID, "error", err)
		return respondError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_updated",
		"user_id":    userID.String(),
		"product_id": productID.String(),
		"quantity":   req.Quantity,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Cart item updated successfully",
		"cart":    cart,
	})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, productID)
	if err != nil {
		l.Warn("remove_from_cart_failed", "product_id", productID, "error", err)
		return respondError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID.String(),
		"product_id": productID.String(),
	})
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Item removed from cart successfully",
		"cart":    cart,
	})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	cart, err := h.Svc.Clear(ctx, userID)
	if err != nil {
		l.Warn("clear_cart_failed", "error", err)
		return respondError(c, err)
	}

	h.publish(c, map[string]any{
		"type":    "cart_cleared",
		"user_id": userID.String(),
	})
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Cart cleared successfully",
		"cart":    cart,
	})
}

func (h *CartHandler) CartCount(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	count, err := h.Svc.ItemCount(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("cart_count_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}
