package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/auth"
)

// Handler is a route handler that receives the resolved principal as a
// value. Public routes use plain echo handlers, protected ones go through
// Pipeline so the principal never travels via c.Get/c.Set.
type Handler func(c echo.Context, p *auth.Principal) error

// Stage is one step of the request pipeline. It either passes a (possibly
// updated) principal on to the next stage or short-circuits the request by
// returning an error for the error mapper.
type Stage func(c echo.Context, p *auth.Principal) (*auth.Principal, error)

// Pipeline runs stages in order and hands the final principal to h.
func Pipeline(h Handler, stages ...Stage) echo.HandlerFunc {
	return func(c echo.Context) error {
		var p *auth.Principal
		var err error
		for _, s := range stages {
			if p, err = s(c, p); err != nil {
				return err
			}
		}
		return h(c, p)
	}
}
