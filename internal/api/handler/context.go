package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketdesk/portfolio-api/internal/api/middleware"
	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// claimsFrom returns the caller's verified claims. Their absence means the
// route was mounted outside the Auth group.
func claimsFrom(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return domain.Claims{}, domain.ErrMissingToken
	}
	return claims, nil
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
