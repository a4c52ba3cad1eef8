package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/roamly/roamly-backend/internal/httpx"
	"github.com/roamly/roamly-backend/internal/repository"
)

// AuthRequired verifies the bearer token and stores the principal's user id
// in c.Locals("userID"). The WebSocket handshake reuses it by passing the
// token as the "token" query parameter.
func AuthRequired(jwtSecret string, blocklist repository.TokenBlocklistRepositoryInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return httpx.Unauthorized(c, "missing_access_token", "Missing access token")
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return httpx.Unauthorized(c, "invalid_access_token", "Invalid or expired token")
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 32)
		if err != nil || userID == 0 {
			return httpx.Unauthorized(c, "invalid_access_token", "Invalid token subject")
		}

		if blocklist != nil && claims.ID != "" {
			revoked, err := blocklist.Contains(claims.ID)
			if err == nil && revoked {
				return httpx.Unauthorized(c, "token_revoked", "Token has been revoked")
			}
		}

		c.Locals("userID", uint(userID))
		c.Locals("token", tokenString)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	// WebSocket handshake carries the credential as a query parameter.
	return c.Query("token")
}
