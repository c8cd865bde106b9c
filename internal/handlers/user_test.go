package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/products_api/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.request(http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "password123",
		"role":     "user",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Test User", body["name"])
	require.Equal(t, "test@example.com", body["email"])
	require.Equal(t, "user", body["role"])
	require.NotZero(t, body["id"])
	require.NotContains(t, body, "password")
	require.NotContains(t, rec.Body.String(), "password123")

	var stored models.User
	require.NoError(t, env.DB.Where("email = ?", "test@example.com").First(&stored).Error)
	require.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(models.RoleUser)

	rec, body := env.request(http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"name":     "Second",
		"email":    "user@example.com",
		"password": "password123",
		"role":     "user",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields := body["errors"].(map[string]any)
	messages := fields["email"].([]any)
	require.Contains(t, messages, "the email has already been taken")
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.request(http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "password123",
		"role":     "superadmin",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields := body["errors"].(map[string]any)
	require.Contains(t, fields, "role")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser(models.RoleUser)

	rec, body := env.request(http.MethodPost, "/api/v1/users/login", "", map[string]any{
		"email":    user.Email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, body["access_token"])
	require.Equal(t, "bearer", body["token_type"])
	require.Equal(t, float64(3600), body["expires_in"])

	profile := body["user"].(map[string]any)
	require.Equal(t, user.Email, profile["email"])
	require.NotContains(t, profile, "password")
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser(models.RoleUser)

	rec, body := env.request(http.MethodPost, "/api/v1/users/login", "", map[string]any{
		"email":    user.Email,
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid credentials", body["error"])

	rec, body = env.request(http.MethodPost, "/api/v1/users/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid credentials", body["error"])
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(models.RoleAdmin)

	rec, body := env.request(http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, user.Email, body["email"])
	require.Equal(t, user.Role, body["role"])

	rec, _ = env.request(http.MethodGet, "/api/v1/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(models.RoleUser)

	rec, body := env.request(http.MethodPost, "/api/v1/users/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "session closed successfully", body["message"])

	// the token must not work anymore
	rec, body = env.request(http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "the provided access token is invalid", body["error"])
}
