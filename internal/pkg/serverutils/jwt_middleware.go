package serverutils

import (
	"fmt"

	"my-notes-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionStore lets the middleware reject tokens invalidated by logout.
type SessionStore interface {
	Get(token string) (*store.Session, bool)
}

// ParseUserId validates a signed token and extracts the numeric user id claim.
func ParseUserId(tokenStr, secret string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}

	// JSON numbers decode as float64
	rawId, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid user_id claim")
	}
	return int64(rawId), nil
}

// NewJwtMiddleware authenticates bearer tokens and stores the user id in locals.
func NewJwtMiddleware(secret string, sessions SessionStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		tokenStr := authHeader[7:]

		userId, err := ParseUserId(tokenStr, secret)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		if sessions != nil {
			if _, found := sessions.Get(tokenStr); !found {
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Session expired"})
			}
		}

		ctx.Locals("user_id", userId)
		ctx.Locals("token", tokenStr)
		return ctx.Next()
	}
}

// UserIdFromLocals reads the id the jwt middleware stored.
func UserIdFromLocals(ctx *fiber.Ctx) int64 {
	if id, ok := ctx.Locals("user_id").(int64); ok {
		return id
	}
	return 0
}
