package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/config"
	"github.com/SelfhostedPro/foss.space/internal/database"
	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

// newTestApp builds a fully wired app over an in-memory SQLite database,
// without Redis.
func newTestApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		Env:       "test",
	}
	srv := NewServerWithDeps(cfg, db, nil)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return app, srv, db
}

// bearerToken signs a token the auth middleware accepts for the given user.
func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func seedUser(t *testing.T, db *gorm.DB, handle, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:   handle,
		Email:  handle + "@example.com",
		Handle: handle,
		Role:   role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

// doJSON performs a request with an optional JSON body and auth header and
// decodes the JSON response into out (when out is non-nil).
func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
