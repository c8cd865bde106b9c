package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/auth"
	"github.com/Skotchmaster/products_api/internal/handlers"
	"github.com/Skotchmaster/products_api/internal/middleware"
	"github.com/Skotchmaster/products_api/internal/models"
)

type Deps struct {
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	JWTSecret      []byte
	Revoked        *auth.RevocationStore
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/users/register", d.UserHandler.Register)
	v1.POST("/users/login", d.UserHandler.Login)

	authn := middleware.Authenticate(d.JWTSecret, d.Revoked)
	readRoles := middleware.RequireRole(models.RoleUser, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	v1.POST("/users/logout", middleware.Pipeline(d.UserHandler.Logout, authn))
	v1.GET("/users/me", middleware.Pipeline(d.UserHandler.Me, authn))

	v1.GET("/products", middleware.Pipeline(d.ProductHandler.List, authn, readRoles))
	v1.GET("/products/search", middleware.Pipeline(d.ProductHandler.Search, authn, readRoles))
	v1.GET("/products/:id", middleware.Pipeline(d.ProductHandler.Get, authn, readRoles))

	v1.POST("/products", middleware.Pipeline(d.ProductHandler.Create, authn, adminOnly))
	v1.PUT("/products/:id", middleware.Pipeline(d.ProductHandler.Update, authn, adminOnly))
	v1.PATCH("/products/:id", middleware.Pipeline(d.ProductHandler.Update, authn, adminOnly))
	v1.DELETE("/products/:id", middleware.Pipeline(d.ProductHandler.Delete, authn, adminOnly))
}
