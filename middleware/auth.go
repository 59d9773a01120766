// middleware/auth.go
package middleware

import (
	"os"
	"strings"
	"time"

	"arenahub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware authenticates the caller from a Bearer JWT and stores the
// resolved identity (user id, username, platform role) in the request
// context. Authorization decisions happen later, in the services.
func AuthMiddleware(c *fiber.Ctx) error {
	claims, err := claimsFromHeader(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("platformRole", claims["role"])

	return c.Next()
}

// AdminAuthMiddleware additionally requires the Admin platform role.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := claimsFromHeader(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	role, ok := claims["role"].(string)
	if !ok || models.PlatformRole(role) != models.PlatformRoleAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "Access denied. Admin privileges required."})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("platformRole", role)

	return c.Next()
}

func claimsFromHeader(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(401, "Missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fiber.NewError(401, "Invalid authorization header format")
	}

	return ParseTokenString(parts[1])
}

// ParseTokenString validates a raw JWT and returns its claims. Also used by
// the websocket upgrade path, where the token arrives as a query parameter.
func ParseTokenString(tokenString string) (jwt.MapClaims, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "arenahub-secret-change-in-production"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(401, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(401, "Invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, fiber.NewError(401, "Token expired")
	}

	return claims, nil
}

// GetUserID extracts the authenticated user id from the request context.
func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	if id, ok := userID.(float64); ok {
		return uint(id), nil
	}

	if id, ok := userID.(uint); ok {
		return id, nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}

// GetPlatformRole extracts the caller's platform role from the request
// context. Absent or malformed claims resolve to PlatformRoleNone.
func GetPlatformRole(c *fiber.Ctx) models.PlatformRole {
	role, ok := c.Locals("platformRole").(string)
	if !ok {
		return models.PlatformRoleNone
	}
	if !models.ValidPlatformRole(role) {
		return models.PlatformRoleNone
	}
	return models.PlatformRole(role)
}
