package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/auth"
	"github.com/Skotchmaster/products_api/internal/handlers"
	"github.com/Skotchmaster/products_api/internal/hash"
	"github.com/Skotchmaster/products_api/internal/httperr"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/mykafka"
	httpserver "github.com/Skotchmaster/products_api/internal/transport/http"
)

var testSecret = []byte("test_secret")

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.RevokedToken{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	revoked := &auth.RevocationStore{DB: db}

	e := echo.New()
	e.HTTPErrorHandler = httperr.Handler

	deps := httpserver.Deps{
		UserHandler: &handlers.UserHandler{
			DB:        db,
			Producer:  &mykafka.Producer{},
			JWTSecret: testSecret,
			TokenTTL:  time.Hour,
			Revoked:   revoked,
		},
		ProductHandler: &handlers.ProductHandler{
			DB:       db,
			Producer: &mykafka.Producer{},
		},
		JWTSecret: testSecret,
		Revoked:   revoked,
	}
	httpserver.Register(e, &deps)

	return &testEnv{T: t, E: e, DB: db}
}

func (env *testEnv) seedUser(role string) (models.User, string) {
	env.T.Helper()

	passwordHash, err := hash.HashPassword("password123")
	require.NoError(env.T, err)

	user := models.User{
		Name:         "Test " + role,
		Email:        role + "@example.com",
		PasswordHash: passwordHash,
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)

	token, _, err := auth.Sign(user.ID, user.Role, testSecret, time.Hour)
	require.NoError(env.T, err)

	return user, token
}

func (env *testEnv) seedProduct(name string, price float64, stock uint) models.Product {
	env.T.Helper()
	prod := models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(env.T, env.DB.Create(&prod).Error)
	return prod
}

func (env *testEnv) request(method, path, token string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	env.T.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(env.T, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func (env *testEnv) productCount() int64 {
	env.T.Helper()
	var count int64
	require.NoError(env.T, env.DB.Model(&models.Product{}).Count(&count).Error)
	return count
}
