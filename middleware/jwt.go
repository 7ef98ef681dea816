package middleware

import (
	"fmt"
	"strings"
	"time"
	"trademaster/config"
	"trademaster/database"
	"trademaster/models"
	"trademaster/services"
	"trademaster/utils/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GenerateJWT generates a session token for the user
func GenerateJWT(userID uint, name, role, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"name":   name,
		"role":   role,
		"email":  email,
		"iat":    now.Unix(),
		"exp":    now.Add(config.AppConfig.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// Identity is the caller resolved from a session token.
type Identity struct {
	UserID uint
	Role   string
}

// ResolveIdentity extracts the caller from the Authorization header, or, when
// allowQueryToken is set, from the `token` query parameter. Media elements
// cannot attach headers, so the stream route accepts the latter. Both paths
// verify the same session token.
func ResolveIdentity(c *fiber.Ctx, allowQueryToken bool) (Identity, error) {
	tokenString, err := extractToken(c, allowQueryToken)
	if err != nil {
		return Identity{}, err
	}

	userID, err := parseToken(tokenString)
	if err != nil {
		logger.Log.Debug("Rejected session token", "path", c.Path(), "error", err)
		return Identity{}, services.Unauthenticated("Invalid or expired token")
	}

	var user models.User
	err = database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, services.Unauthenticated("User not found!")
	}
	if err != nil {
		return Identity{}, services.Internal(err, "load user")
	}
	return Identity{UserID: user.ID, Role: user.Role}, nil
}

func extractToken(c *fiber.Ctx, allowQueryToken bool) (string, error) {
	// Other schemes (Basic, ...) are not ours; fall through to the query token.
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, credentials, _ := strings.Cut(authHeader, " ")
	if strings.EqualFold(scheme, "Bearer") {
		token := strings.TrimSpace(credentials)
		if token == "" {
			return "", services.Unauthenticated("Invalid Authorization header format")
		}
		return token, nil
	}
	if allowQueryToken {
		if token := strings.TrimSpace(c.Query("token")); token != "" {
			return token, nil
		}
	}
	return "", services.Unauthenticated("Missing or invalid Authorization header")
}

func parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token payload")
	}
	if _, hasExp := claims["exp"]; !hasExp {
		return 0, errors.New("token has no expiry")
	}
	// JSON numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, errors.New("invalid token payload")
	}
	return uint(userID), nil
}

func authenticate(allowQueryToken bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := ResolveIdentity(c, allowQueryToken)
		if err != nil {
			return ErrorResponse(c, err)
		}
		c.Locals("userId", identity.UserID)
		c.Locals("role", identity.Role)
		return c.Next()
	}
}

// JWTMiddleware requires a bearer token in the Authorization header
var JWTMiddleware = authenticate(false)

// StreamAuthMiddleware accepts a bearer token or a `token` query parameter
var StreamAuthMiddleware = authenticate(true)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse writes err in the standard envelope. Only AppError messages
// reach the client; everything else becomes a generic 500.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		appErr = services.Internal(err, "unclassified")
	}
	if appErr.Status >= fiber.StatusInternalServerError {
		logger.Log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", appErr.Err)
	}
	return JsonResponse(c, appErr.Status, false, appErr.Message, nil)
}
