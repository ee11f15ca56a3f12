// middleware/auth.go
package middleware

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity on the request context. The rejection response is written
// here, never in parseToken, so a failed parse always short-circuits
// the chain.
func AuthMiddleware(c *fiber.Ctx) error {
	claims, err := parseToken(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("email", claims["email"])
	c.Locals("isAdmin", claims["is_admin"])

	return c.Next()
}

// AdminAuthMiddleware additionally requires the is_admin role claim.
// Admin rights live on the user record and in the token, never on a
// specific email address.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := parseToken(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	isAdmin, ok := claims["is_admin"].(bool)
	if !ok || !isAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "Access denied. Admin privileges required."})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("email", claims["email"])
	c.Locals("isAdmin", true)

	return c.Next()
}

// parseToken validates the Authorization header and returns the
// claims. It never writes to the response; callers decide how to
// reject.
func parseToken(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("Missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("Invalid authorization header format")
	}

	jwtSecret := os.Getenv("JWT_SECRET")

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("Invalid signing method")
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("Invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, errors.New("Token expired")
	}

	return claims, nil
}

// GetUserID extracts the authenticated user's ID from the context.
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

// GetEmail extracts the authenticated user's email from the context.
func GetEmail(c *fiber.Ctx) (string, error) {
	email := c.Locals("email")
	if email == nil {
		return "", fiber.NewError(401, "User not authenticated")
	}

	if addr, ok := email.(string); ok {
		return addr, nil
	}

	return "", fiber.NewError(401, "Invalid email format")
}
