package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/auth"
	"github.com/Skotchmaster/products_api/internal/hash"
	"github.com/Skotchmaster/products_api/internal/httperr"
	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/mykafka"
	"github.com/Skotchmaster/products_api/internal/validation"
)

type UserHandler struct {
	DB        *gorm.DB
	Producer  *mykafka.Producer
	JWTSecret []byte
	TokenTTL  time.Duration
	Revoked   *auth.RevocationStore
}

func (h *UserHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_failed", "error", err)
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	var req validation.UserRegister
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid data", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := c.Request().Context()

	var existing models.User
	err := h.DB.WithContext(ctx).Where("email = ?", *req.Email).First(&existing).Error
	if err == nil {
		return validation.EmailTaken()
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.FromContext(ctx).Error("user_lookup_failed", "error", err)
		return httperr.Internal()
	}

	passwordHash, err := hash.HashPassword(*req.Password)
	if err != nil {
		logging.FromContext(ctx).Error("password_hash_failed", "error", err)
		return httperr.Internal()
	}

	user := models.User{
		Name:         *req.Name,
		Email:        *req.Email,
		PasswordHash: passwordHash,
		Role:         *req.Role,
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		logging.FromContext(ctx).Error("user_create_failed", "error", err)
		return httperr.Internal()
	}

	h.publish(c, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.Unauthorized("invalid credentials")
	}

	ctx := c.Request().Context()

	var user models.User
	if err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.Unauthorized("invalid credentials")
		}
		logging.FromContext(ctx).Error("user_lookup_failed", "error", err)
		return httperr.Internal()
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return httperr.Unauthorized("invalid credentials")
	}

	token, _, err := auth.Sign(user.ID, user.Role, h.JWTSecret, h.TokenTTL)
	if err != nil {
		logging.FromContext(ctx).Error("token_sign_failed", "error", err)
		return httperr.Internal()
	}

	h.publish(c, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.TokenTTL.Seconds()),
		"user":         user,
	})
}

func (h *UserHandler) Logout(c echo.Context, p *auth.Principal) error {
	ctx := c.Request().Context()
	if err := h.Revoked.Revoke(ctx, p); err != nil {
		logging.FromContext(ctx).Error("token_revoke_failed", "error", err)
		return httperr.Internal()
	}

	h.publish(c, map[string]any{
		"type":    "user_logged_out",
		"user_id": p.UserID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "session closed successfully"})
}

func (h *UserHandler) Me(c echo.Context, p *auth.Principal) error {
	var user models.User
	if err := h.DB.WithContext(c.Request().Context()).First(&user, p.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("resource not found")
		}
		logging.FromContext(c.Request().Context()).Error("user_lookup_failed", "error", err)
		return httperr.Internal()
	}
	return c.JSON(http.StatusOK, user)
}
