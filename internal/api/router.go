package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/marketdesk/portfolio-api/internal/api/handler"
	"github.com/marketdesk/portfolio-api/internal/api/middleware"
	"github.com/marketdesk/portfolio-api/internal/core/domain"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Accounts ports.AccountService
	Market   ports.MarketService
	Tokens   ports.TokenIssuer
	Health   []handler.Dependency
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(requestLoggerConfig(deps.Log)))
	// Metrics renders handler errors, so the request logger sees the final status.
	e.Use(middleware.Metrics())

	accountHandler := handler.NewAccountHandler(deps.Accounts)
	marketHandler := handler.NewMarketHandler(deps.Market)
	healthHandler := handler.NewHealthHandler(deps.Log, deps.Health...)

	// --- Public routes ---
	e.POST("/account", accountHandler.Register)
	e.GET("/auth", accountHandler.Authenticate)

	e.GET("/companies_test", marketHandler.CompaniesSample)
	e.GET("/ledger_test", marketHandler.LedgerSample)
	e.GET("/portfolio_test", marketHandler.PortfolioSample)
	e.GET("/watchlist_test", marketHandler.WatchListSample)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Bearer-protected routes ---
	// Middleware is attached per route: a group with an empty prefix would
	// also wrap echo's catch-all not-found routes.
	auth := middleware.Auth(deps.Tokens)

	e.GET("/companies", marketHandler.Companies, auth)
	e.GET("/exchange", marketHandler.Exchanges, auth)
	e.GET("/ledger", marketHandler.Ledger, auth)
	e.GET("/portfolio", marketHandler.Portfolio, auth)
	e.POST("/portfolio_item", marketHandler.AddPortfolioItem, auth)
	e.DELETE("/portfolio_item", marketHandler.RemovePortfolioItem, auth)
	e.GET("/watchlist", marketHandler.WatchList, auth)
	e.POST("/watchitem", marketHandler.AddWatchItem, auth)
	e.DELETE("/watchitem", marketHandler.RemoveWatchItem, auth)

	// --- Administration ---
	adminOnly := middleware.RequireLevel(domain.LevelAdmin)

	e.GET("/accounts", accountHandler.List, auth, adminOnly)
	e.POST("/admin/account", accountHandler.Create, auth, adminOnly)
	e.DELETE("/account/:login", accountHandler.Delete, auth, adminOnly)

	return e
}

func requestLoggerConfig(log zerolog.Logger) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	}
}
