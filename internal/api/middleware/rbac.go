package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// RequireLevel lets through only callers whose security level is listed.
// It must run after Auth.
func RequireLevel(levels ...domain.SecurityLevel) echo.MiddlewareFunc {
	allowed := make(map[domain.SecurityLevel]struct{}, len(levels))
	for _, l := range levels {
		allowed[l] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[claims.SecurityLvl]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
