package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
)

// ClaimsKey is the echo context key holding the verified domain.Claims.
const ClaimsKey = "claims"

// Realm is the protection space announced in WWW-Authenticate challenges.
const Realm = "portfolio-api"

var (
	bearerChallenge       = `Bearer realm="` + Realm + `"`
	invalidTokenChallenge = bearerChallenge + `, error="invalid_token"`
)

// Auth verifies the bearer token and stores its claims on the context.
// Requests without a valid token never reach the handler.
func Auth(tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, bearerChallenge)
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, bearerChallenge)
				return domain.ErrMissingToken
			}

			claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, invalidTokenChallenge)
				return domain.ErrInvalidToken
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(domain.Claims)
	return claims, ok
}
