package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sellergrid/marketplace/internal/jwtmiddleware"
	"github.com/sellergrid/marketplace/internal/logging"
	"github.com/sellergrid/marketplace/internal/mykafka"
	"github.com/sellergrid/marketplace/internal/service"
	"github.com/sellergrid/marketplace/internal/transport"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key, _ := event["user_id"].(string)
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		l.Warn("register_failed", "email", req.Email, "error", err)
		return respondError(c, err)
	}

	c.SetCookie(jwtmiddleware.CreateCookie(res.Token, res.ExpiresAt))
	h.publish(c, map[string]any{
		"type":    "user_registered",
		"user_id": res.User.ID.String(),
		"email":   res.User.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    res.User,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_failed", "email", req.Email, "error", err)
		return respondError(c, err)
	}

	c.SetCookie(jwtmiddleware.CreateCookie(res.Token, res.ExpiresAt))
	h.publish(c, map[string]any{
		"type":    "user_logged_in",
		"user_id": res.User.ID.String(),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    res.User,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(jwtmiddleware.CreateCookie("", time.Unix(0, 0)))
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	user, err := h.Svc.Profile(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_profile")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	user, err := h.Svc.UpdateProfile(ctx, userID, req)
	if err != nil {
		l.Warn("update_profile_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
