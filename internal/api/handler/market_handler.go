package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
)

// MarketHandler serves the company, ledger, portfolio and watch-list routes.
type MarketHandler struct {
	service ports.MarketService
}

func NewMarketHandler(service ports.MarketService) *MarketHandler {
	return &MarketHandler{service: service}
}

// Companies returns every company visible from the caller's partition.
//
// @Summary   List companies
// @Tags      market
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  domain.Company
// @Router    /companies [get]
func (h *MarketHandler) Companies(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	rows, err := h.service.Companies(c.Request().Context(), claims)
	return respond(c, rows, err)
}

// CompaniesSample returns a few companies from the public partition.
//
// @Summary  Preview companies
// @Tags     market
// @Produce  json
// @Success  200  {array}  domain.Company
// @Router   /companies_test [get]
func (h *MarketHandler) CompaniesSample(c echo.Context) error {
	rows, err := h.service.CompaniesSample(c.Request().Context())
	return respond(c, rows, err)
}

// Exchanges lists the exchanges of the caller's partition.
//
// @Summary   List exchanges
// @Tags      market
// @Security  BearerAuth
// @Router    /exchange [get]
func (h *MarketHandler) Exchanges(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	rows, err := h.service.Exchanges(c.Request().Context(), claims)
	return respond(c, rows, err)
}

// Ledger returns the end-of-day rows of the caller's partition.
//
// @Summary   End-of-day ledger
// @Tags      market
// @Security  BearerAuth
// @Router    /ledger [get]
func (h *MarketHandler) Ledger(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	rows, err := h.service.Ledger(c.Request().Context(), claims)
	return respond(c, rows, err)
}

// LedgerSample returns a few ledger rows from the public partition.
//
// @Summary  Preview the ledger
// @Tags     market
// @Router   /ledger_test [get]
func (h *MarketHandler) LedgerSample(c echo.Context) error {
	rows, err := h.service.LedgerSample(c.Request().Context())
	return respond(c, rows, err)
}

// Portfolio lists the caller's positions.
//
// @Summary   Caller's portfolio
// @Tags      portfolio
// @Security  BearerAuth
// @Router    /portfolio [get]
func (h *MarketHandler) Portfolio(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	rows, err := h.service.Portfolio(c.Request().Context(), claims)
	return respond(c, rows, err)
}

// PortfolioSample returns one position from the public partition.
//
// @Summary  Preview a portfolio
// @Tags     portfolio
// @Router   /portfolio_test [get]
func (h *MarketHandler) PortfolioSample(c echo.Context) error {
	rows, err := h.service.PortfolioSample(c.Request().Context())
	return respond(c, rows, err)
}

// AddPortfolioItem records a position for the caller and returns the inserted
// row as a one-element array.
//
// @Summary   Add a position
// @Tags      portfolio
// @Accept    json
// @Security  BearerAuth
// @Param     body  body  portfolioItemRequest  true  "Position"
// @Success   200   {array}   domain.PortfolioItem
// @Failure   409   {object}  errorResponse
// @Failure   422   {object}  errorResponse
// @Router    /portfolio_item [post]
func (h *MarketHandler) AddPortfolioItem(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	var req portfolioItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.AddPortfolioItem(c.Request().Context(), claims, ports.PortfolioItemInput{
		Ticker:   req.Ticker,
		Amount:   req.Amount,
		BuyPrice: req.BuyPrice,
	})
	if err != nil {
		return err
	}
	return respond(c, []domain.PortfolioItem{*item}, nil)
}

// RemovePortfolioItem deletes the caller's position in a ticker and returns
// the deleted rows.
//
// @Summary   Remove a position
// @Tags      portfolio
// @Security  BearerAuth
// @Param     body  body  tickerRequest  true  "Ticker"
// @Failure   404   {object}  errorResponse
// @Router    /portfolio_item [delete]
func (h *MarketHandler) RemovePortfolioItem(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	var req tickerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rows, err := h.service.RemovePortfolioItem(c.Request().Context(), claims, req.Ticker)
	return respond(c, rows, err)
}

// WatchList lists the tickers the caller watches.
//
// @Summary   Caller's watch list
// @Tags      watchlist
// @Security  BearerAuth
// @Router    /watchlist [get]
func (h *MarketHandler) WatchList(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	rows, err := h.service.WatchList(c.Request().Context(), claims)
	return respond(c, rows, err)
}

// WatchListSample returns one watch-list row from the public partition.
//
// @Summary  Preview a watch list
// @Tags     watchlist
// @Router   /watchlist_test [get]
func (h *MarketHandler) WatchListSample(c echo.Context) error {
	rows, err := h.service.WatchListSample(c.Request().Context())
	return respond(c, rows, err)
}

// AddWatchItem puts a ticker on the caller's watch list and returns the
// inserted row as a one-element array.
//
// @Summary   Watch a ticker
// @Tags      watchlist
// @Security  BearerAuth
// @Param     body  body  tickerRequest  true  "Ticker"
// @Success   200   {array}   domain.WatchItem
// @Failure   409   {object}  errorResponse
// @Router    /watchitem [post]
func (h *MarketHandler) AddWatchItem(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	var req tickerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.AddWatchItem(c.Request().Context(), claims, req.Ticker)
	if err != nil {
		return err
	}
	return respond(c, []domain.WatchItem{*item}, nil)
}

// RemoveWatchItem takes a ticker off the caller's watch list and returns the
// deleted rows.
//
// @Summary   Stop watching a ticker
// @Tags      watchlist
// @Security  BearerAuth
// @Param     body  body  tickerRequest  true  "Ticker"
// @Failure   404   {object}  errorResponse
// @Router    /watchitem [delete]
func (h *MarketHandler) RemoveWatchItem(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	var req tickerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rows, err := h.service.RemoveWatchItem(c.Request().Context(), claims, req.Ticker)
	return respond(c, rows, err)
}

// respond renders rows as a JSON array; nil slices become [].
func respond[T any](c echo.Context, rows []T, err error) error {
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	return c.JSON(http.StatusOK, rows)
}
