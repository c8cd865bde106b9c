package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/auth"
	"github.com/Skotchmaster/products_api/internal/httperr"
	"github.com/Skotchmaster/products_api/internal/models"
)

var testSecret = []byte("test_secret")

func newContext(t *testing.T, header string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func requireHTTPErr(t *testing.T, err error, status int, message string) {
	t.Helper()
	var he *httperr.Error
	require.True(t, errors.As(err, &he), "expected *httperr.Error, got %T", err)
	require.Equal(t, status, he.Status)
	require.Equal(t, message, he.Message)
}

func TestAuthenticateMissingToken(t *testing.T) {
	stage := Authenticate(testSecret, nil)

	_, err := stage(newContext(t, ""), nil)
	requireHTTPErr(t, err, http.StatusUnauthorized, "a token is required to access this resource")

	_, err = stage(newContext(t, "Basic abc"), nil)
	requireHTTPErr(t, err, http.StatusUnauthorized, "a token is required to access this resource")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	stage := Authenticate(testSecret, nil)

	_, err := stage(newContext(t, "Bearer garbage"), nil)
	requireHTTPErr(t, err, http.StatusUnauthorized, "the provided access token is invalid")
}

func TestAuthenticateExpiredToken(t *testing.T) {
	token, _, err := auth.Sign(1, models.RoleUser, testSecret, -time.Minute)
	require.NoError(t, err)

	stage := Authenticate(testSecret, nil)
	_, err = stage(newContext(t, "Bearer "+token), nil)
	requireHTTPErr(t, err, http.StatusUnauthorized, "the token has expired, please log in again")
}

func TestAuthenticateResolvesPrincipal(t *testing.T) {
	token, _, err := auth.Sign(9, models.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)

	stage := Authenticate(testSecret, nil)
	p, err := stage(newContext(t, "Bearer "+token), nil)
	require.NoError(t, err)
	require.Equal(t, uint(9), p.UserID)
	require.Equal(t, models.RoleAdmin, p.Role)
}

func TestAuthenticateRevokedToken(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RevokedToken{}))
	store := &auth.RevocationStore{DB: db}

	token, _, err := auth.Sign(3, models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	stage := Authenticate(testSecret, store)

	p, err := stage(newContext(t, "Bearer "+token), nil)
	require.NoError(t, err)

	require.NoError(t, store.Revoke(newContext(t, "").Request().Context(), p))

	_, err = stage(newContext(t, "Bearer "+token), nil)
	requireHTTPErr(t, err, http.StatusUnauthorized, "the provided access token is invalid")
}

func TestRequireRole(t *testing.T) {
	stage := RequireRole(models.RoleAdmin)

	_, err := stage(newContext(t, ""), &auth.Principal{UserID: 1, Role: models.RoleUser})
	requireHTTPErr(t, err, http.StatusForbidden, "access denied")

	p, err := stage(newContext(t, ""), &auth.Principal{UserID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, p.Role)

	_, err = stage(newContext(t, ""), nil)
	requireHTTPErr(t, err, http.StatusUnauthorized, "a token is required to access this resource")
}

func TestPipelineShortCircuits(t *testing.T) {
	ran := false
	boom := Stage(func(c echo.Context, p *auth.Principal) (*auth.Principal, error) {
		return nil, httperr.Forbidden()
	})
	h := Handler(func(c echo.Context, p *auth.Principal) error {
		ran = true
		return nil
	})

	err := Pipeline(h, boom)(newContext(t, ""))
	requireHTTPErr(t, err, http.StatusForbidden, "access denied")
	require.False(t, ran)
}

func TestPipelineThreadsPrincipal(t *testing.T) {
	token, _, err := auth.Sign(5, models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	var got *auth.Principal
	h := Handler(func(c echo.Context, p *auth.Principal) error {
		got = p
		return nil
	})

	err = Pipeline(h, Authenticate(testSecret, nil), RequireRole(models.RoleUser, models.RoleAdmin))(newContext(t, "Bearer "+token))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, uint(5), got.UserID)
}
