package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marketdesk/portfolio-api/internal/api/middleware"
	"github.com/marketdesk/portfolio-api/internal/core/domain"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
)

type stubAccountService struct {
	registerFn     func(ctx context.Context, login, password string) (*domain.Account, error)
	registerLvlFn  func(ctx context.Context, caller domain.Claims, login, password string, lvl domain.SecurityLevel) (*domain.Account, error)
	authenticateFn func(ctx context.Context, login, password string) (string, error)
	deleteFn       func(ctx context.Context, caller domain.Claims, login string) (*domain.Account, error)
	listFn         func(ctx context.Context, caller domain.Claims) ([]domain.Account, error)
}

func (s *stubAccountService) Register(ctx context.Context, login, password string) (*domain.Account, error) {
	return s.registerFn(ctx, login, password)
}

func (s *stubAccountService) RegisterWithLevel(ctx context.Context, caller domain.Claims, login, password string, lvl domain.SecurityLevel) (*domain.Account, error) {
	return s.registerLvlFn(ctx, caller, login, password, lvl)
}

func (s *stubAccountService) Authenticate(ctx context.Context, login, password string) (string, error) {
	return s.authenticateFn(ctx, login, password)
}

func (s *stubAccountService) Delete(ctx context.Context, caller domain.Claims, login string) (*domain.Account, error) {
	return s.deleteFn(ctx, caller, login)
}

func (s *stubAccountService) List(ctx context.Context, caller domain.Claims) ([]domain.Account, error) {
	return s.listFn(ctx, caller)
}

// stubMarketService embeds the interface so tests only implement what they call.
type stubMarketService struct {
	ports.MarketService

	companies       []domain.Company
	companiesCaller domain.Claims
	watchAdded      string
	watchRemoved    string
	portfolioIn     ports.PortfolioItemInput
	err             error
}

func (s *stubMarketService) Companies(_ context.Context, caller domain.Claims) ([]domain.Company, error) {
	s.companiesCaller = caller
	return s.companies, s.err
}

func (s *stubMarketService) CompaniesSample(context.Context) ([]domain.Company, error) {
	return s.companies, s.err
}

func (s *stubMarketService) AddPortfolioItem(_ context.Context, caller domain.Claims, in ports.PortfolioItemInput) (*domain.PortfolioItem, error) {
	s.portfolioIn = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.PortfolioItem{AccountID: caller.ID, Ticker: in.Ticker, Amount: in.Amount, BuyPrice: in.BuyPrice}, nil
}

func (s *stubMarketService) AddWatchItem(_ context.Context, caller domain.Claims, ticker string) (*domain.WatchItem, error) {
	s.watchAdded = ticker
	if s.err != nil {
		return nil, s.err
	}
	return &domain.WatchItem{AccountID: caller.ID, Ticker: ticker}, nil
}

func (s *stubMarketService) RemoveWatchItem(_ context.Context, caller domain.Claims, ticker string) ([]domain.WatchItem, error) {
	s.watchRemoved = ticker
	if s.err != nil {
		return nil, s.err
	}
	return []domain.WatchItem{{AccountID: caller.ID, Ticker: ticker}}, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context, optionally carrying verified claims.
func newContext(e *echo.Echo, method, target, body string, claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ClaimsKey, *claims)
	}
	return c, rec
}
