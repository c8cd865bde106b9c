package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/auth"
	"github.com/Skotchmaster/products_api/internal/httperr"
	"github.com/Skotchmaster/products_api/internal/logging"
)

// Authenticate resolves the bearer token into a principal. The three
// failure modes carry distinct messages: no token at all, a token that does
// not verify, and a token that verified but expired. Revoked tokens count
// as invalid.
func Authenticate(secret []byte, revoked *auth.RevocationStore) Stage {
	return func(c echo.Context, _ *auth.Principal) (*auth.Principal, error) {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return nil, httperr.TokenMissing()
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if raw == "" {
			return nil, httperr.TokenMissing()
		}

		p, err := auth.Parse(raw, secret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return nil, httperr.TokenExpired()
			}
			return nil, httperr.TokenInvalid()
		}

		if revoked != nil {
			ctx := c.Request().Context()
			isRevoked, err := revoked.IsRevoked(ctx, raw)
			if err != nil {
				logging.FromContext(ctx).Error("revocation_check_failed", "error", err)
				return nil, httperr.Internal()
			}
			if isRevoked {
				return nil, httperr.TokenInvalid()
			}
		}

		return p, nil
	}
}
