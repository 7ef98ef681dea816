package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
	"trademaster/config"
	"trademaster/database"
	"trademaster/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTKey = "test-secret"

func setupAuth(t *testing.T) (*fiber.App, models.User) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: testJWTKey, JWTExpiry: time.Hour}

	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user := models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	whoami := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId"), "role": c.Locals("role")})
	}
	app := fiber.New()
	app.Get("/header", JWTMiddleware, whoami)
	app.Get("/stream", StreamAuthMiddleware, whoami)
	app.Get("/admin", JWTMiddleware, AdminOnly, whoami)
	return app, user
}

func signed(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func get(t *testing.T, app *fiber.App, target, bearer string) int {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestHeaderToken(t *testing.T) {
	app, user := setupAuth(t)
	token, err := GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/header", "Bearer "+token))
	assert.Equal(t, fiber.StatusOK, get(t, app, "/admin", "Bearer "+token))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/header", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/header", "Token "+token))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/header", "Bearer not-a-jwt"))
}

func TestQueryTokenOnlyOnStreamRoute(t *testing.T) {
	app, user := setupAuth(t)
	token, err := GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/stream?token="+token, ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/header?token="+token, ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/stream", ""))

	// A non-Bearer scheme is ignored and the query token is used.
	assert.Equal(t, fiber.StatusOK, get(t, app, "/stream?token="+token, "Basic Zm9vOmJhcg=="))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/header?token="+token, "Basic Zm9vOmJhcg=="))

	// A Bearer header wins over the query token, even when it is bad.
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/stream?token="+token, "Bearer"))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/stream?token="+token, "Bearer not-a-jwt"))
}

func TestRejectedTokens(t *testing.T) {
	app, user := setupAuth(t)
	now := time.Now()

	tests := []struct {
		name  string
		token string
	}{
		{"expired", signed(t, jwt.MapClaims{"userId": user.ID, "exp": now.Add(-time.Minute).Unix()}, testJWTKey)},
		{"no expiry", signed(t, jwt.MapClaims{"userId": user.ID}, testJWTKey)},
		{"wrong key", signed(t, jwt.MapClaims{"userId": user.ID, "exp": now.Add(time.Hour).Unix()}, "other")},
		{"unknown user", signed(t, jwt.MapClaims{"userId": 999, "exp": now.Add(time.Hour).Unix()}, testJWTKey)},
		{"missing user id", signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}, testJWTKey)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/stream?token="+tt.token, ""))
		})
	}
}

func TestDeletedUserIsRejected(t *testing.T) {
	app, user := setupAuth(t)
	token, err := GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	require.NoError(t, database.Database.Db.Model(&user).Update("is_deleted", true).Error)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/header", "Bearer "+token))
}

func TestAdminOnlyRejectsLearners(t *testing.T) {
	app, _ := setupAuth(t)
	learner := models.User{Name: "L", Email: "l@example.com", Role: models.RoleUser, Password: "x"}
	require.NoError(t, database.Database.Db.Create(&learner).Error)

	token, err := GenerateJWT(learner.ID, learner.Name, learner.Role, learner.Email)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", "Bearer "+token))
}
