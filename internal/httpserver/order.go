package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sellergrid/marketplace/internal/logging"
	"github.com/sellergrid/marketplace/internal/mykafka"
	"github.com/sellergrid/marketplace/internal/service"
	"github.com/sellergrid/marketplace/internal/transport"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key, _ := event["user_id"].(string)
	if err := h.Producer.PublishEvent(ctx, "order_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	order, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		l.Warn("create_order_failed", "error", err)
		return respondError(c, err)
	}

	l.Info("order_created", "order_id", order.ID, "total_amount", order.TotalAmount)
	h.publish(c, map[string]any{
		"type":         "order_created",
		"user_id":      userID.String(),
		"order_id":     order.ID.String(),
		"total_amount": order.TotalAmount.String(),
		"total_items":  order.TotalItems,
	})
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order created successfully",
		"order":   order,
	})
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), 10)

	result, err := h.Svc.ListOrders(ctx, userID, page, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list_orders_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order id"})
	}

	order, err := h.Svc.GetOrder(ctx, userID, orderID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) OrderStats(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	stats, err := h.Svc.Stats(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("order_stats_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}

func (h *OrderHandler) RecentPurchases(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	limit := parseIntDefault(c.QueryParam("limit"), 5)

	orders, err := h.Svc.RecentPurchases(ctx, userID, limit)
	if err != nil {
		logging.FromContext(ctx).Error("recent_purchases_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
