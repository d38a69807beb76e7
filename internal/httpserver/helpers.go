package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sellergrid/marketplace/internal/logging"
	"github.com/sellergrid/marketplace/internal/service"
)

// GetID reads the authenticated user id placed in context by the JWT
// middleware.
func GetID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return userID, nil
}

// respondError maps domain errors onto their status class and renders the
// client-facing message. Unknown errors never leak their text.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": err.Error()})
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrNotAvailable),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal server error"})
}

// RequestLogger attaches a request-scoped logger to the request context.
func RequestLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logging.IntoContext(c.Request().Context(), l.With("request_id", reqID))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
