package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sellergrid/marketplace/internal/es"
	"github.com/sellergrid/marketplace/internal/logging"
	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/mykafka"
	"github.com/sellergrid/marketplace/internal/service"
	"github.com/sellergrid/marketplace/internal/transport"
)

type ProductHandler struct {
	Svc      *service.ProductService
	Search   *service.SearchService
	Producer *mykafka.Producer
	Indexer  *es.Indexer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key, _ := event["product_id"].(string)
	if err := h.Producer.PublishEvent(ctx, "product_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *ProductHandler) index(c echo.Context, prod *models.Product) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Indexer.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index failed", "product_id", prod.ID, "error", err)
	}
}

func (h *ProductHandler) PublicProducts(c echo.Context) error {
	ctx := c.Request().Context()

	prods, err := h.Svc.ListPublic(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("public_products_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prods)
}

func (h *ProductHandler) PublicProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	prod, err := h.Svc.GetPublic(ctx, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prod)
}

// SearchProducts parses and validates the query string; an omitted isActive
// defaults to true so public search never surfaces disabled listings unless
// asked to.
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	filters := transport.SearchFilters{
		Search:    c.QueryParam("search"),
		Category:  c.QueryParam("category"),
		Condition: c.QueryParam("condition"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}

	if v := c.QueryParam("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid minPrice"})
		}
		filters.MinPrice = &d
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid maxPrice"})
		}
		filters.MaxPrice = &d
	}

	isActive := true
	if v := c.QueryParam("isActive"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid isActive"})
		}
		isActive = parsed
	}
	filters.IsActive = &isActive

	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid limit"})
		}
		filters.Limit = n
	}
	if v := c.QueryParam("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid skip"})
		}
		filters.Skip = n
	}

	result, err := h.Search.Search(ctx, filters)
	if err != nil {
		logging.FromContext(ctx).Error("search_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	prod, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		l.Warn("create_product_failed", "error", err)
		return respondError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": prod.ID.String(),
		"user_id":    userID.String(),
		"name":       prod.Name,
	})
	h.index(c, prod)

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) MyProducts(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	prods, err := h.Svc.ListMine(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("my_products_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prods)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	prod, err := h.Svc.GetMine(ctx, userID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	prod, err := h.Svc.UpdateMine(ctx, userID, productID, req)
	if err != nil {
		l.Warn("update_product_failed", "product_id", productID, "error", err)
		return respondError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": prod.ID.String(),
		"user_id":    userID.String(),
		"name":       prod.Name,
	})
	h.index(c, prod)

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	if err := h.Svc.DeleteMine(ctx, userID, productID); err != nil {
		l.Warn("delete_product_failed", "product_id", productID, "error", err)
		return respondError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": productID.String(),
		"user_id":    userID.String(),
	})
	func() {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Indexer.DeleteProduct(ctx, productID.String()); err != nil {
			l.Error("es delete failed", "product_id", productID, "error", err)
		}
	}()

	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}
