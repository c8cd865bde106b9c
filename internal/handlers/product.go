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
	"github.com/Skotchmaster/products_api/internal/es"
	"github.com/Skotchmaster/products_api/internal/httperr"
	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/mykafka"
	"github.com/Skotchmaster/products_api/internal/util"
	"github.com/Skotchmaster/products_api/internal/validation"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Indexer  *es.Indexer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["product_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_failed", "error", err)
	}
}

func (h *ProductHandler) mirror(c echo.Context, prod *models.Product) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Indexer.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_index_failed", "product_id", prod.ID, "error", err)
	}
}

func (h *ProductHandler) mirrorDelete(c echo.Context, id uint) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Indexer.DeleteProduct(ctx, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_delete_failed", "product_id", id, "error", err)
	}
}

// findProduct is the explicit lookup-or-404 every by-id operation goes
// through. A non-numeric id cannot name a product either.
func (h *ProductHandler) findProduct(c echo.Context) (*models.Product, error) {
	id, ok := util.ParseUintParam(c.Param("id"))
	if !ok {
		return nil, httperr.NotFound("product not found")
	}

	var prod models.Product
	if err := h.DB.WithContext(c.Request().Context()).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("product not found")
		}
		logging.FromContext(c.Request().Context()).Error("product_lookup_failed", "error", err)
		return nil, httperr.Internal()
	}
	return &prod, nil
}

func (h *ProductHandler) List(c echo.Context, _ *auth.Principal) error {
	var items []models.Product
	if err := h.DB.WithContext(c.Request().Context()).Order("id ASC").Find(&items).Error; err != nil {
		logging.FromContext(c.Request().Context()).Error("product_list_failed", "error", err)
		return httperr.Internal()
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *ProductHandler) Get(c echo.Context, _ *auth.Principal) error {
	prod, err := h.findProduct(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) Search(c echo.Context, _ *auth.Principal) error {
	term := c.QueryParam("data")
	if term == "" {
		return httperr.BadRequest("the data parameter is required for searching")
	}

	pattern := "%" + term + "%"
	var items []models.Product
	err := h.DB.WithContext(c.Request().Context()).
		Where("name LIKE ? OR CAST(price AS TEXT) LIKE ?", pattern, pattern).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("product_search_failed", "error", err)
		return httperr.Internal()
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *ProductHandler) Create(c echo.Context, p *auth.Principal) error {
	var req validation.ProductCreate
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid data", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	prod := models.Product{
		Name:  util.Ucfirst(*req.Name),
		Price: *req.Price,
		Stock: uint(*req.Stock),
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}

	if err := h.DB.WithContext(c.Request().Context()).Create(&prod).Error; err != nil {
		logging.FromContext(c.Request().Context()).Error("product_create_failed", "error", err)
		return httperr.Internal()
	}

	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": prod.ID,
		"name":       prod.Name,
		"user_id":    p.UserID,
	})
	h.mirror(c, &prod)

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) Update(c echo.Context, p *auth.Principal) error {
	prod, err := h.findProduct(c)
	if err != nil {
		return err
	}

	var req validation.ProductUpdate
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid data", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if req.Name != nil {
		prod.Name = util.Ucfirst(*req.Name)
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Stock != nil {
		prod.Stock = uint(*req.Stock)
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(prod).Error; err != nil {
		logging.FromContext(c.Request().Context()).Error("product_update_failed", "error", err)
		return httperr.Internal()
	}

	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
		"user_id":    p.UserID,
	})
	h.mirror(c, prod)

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) Delete(c echo.Context, p *auth.Principal) error {
	prod, err := h.findProduct(c)
	if err != nil {
		return err
	}

	if err := h.DB.WithContext(c.Request().Context()).Delete(&models.Product{}, prod.ID).Error; err != nil {
		logging.FromContext(c.Request().Context()).Error("product_delete_failed", "error", err)
		return httperr.Internal()
	}

	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": prod.ID,
		"user_id":    p.UserID,
	})
	h.mirrorDelete(c, prod.ID)

	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted successfully"})
}
