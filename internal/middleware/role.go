package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/auth"
	"github.com/Skotchmaster/products_api/internal/httperr"
)

// RequireRole permits the request when the principal's role is one of
// roles. It must run after Authenticate.
func RequireRole(roles ...string) Stage {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c echo.Context, p *auth.Principal) (*auth.Principal, error) {
		if p == nil {
			return nil, httperr.TokenMissing()
		}
		if _, ok := allowed[p.Role]; !ok {
			return nil, httperr.Forbidden()
		}
		return p, nil
	}
}
