package auth

import (
	"github.com/labstack/echo/v4"
)

// ContextKey is the echo context key under which the JWT middleware stores
// the verified claims.
const ContextKey = "user"

// IdentityFromContext returns the claims attached by the JWT middleware.
// Handlers behind the secured group can rely on this never failing; the
// error path exists for routes wired up incorrectly.
func IdentityFromContext(c echo.Context) (*Claims, error) {
	claims, ok := c.Get(ContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
