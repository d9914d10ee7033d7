package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketdesk/portfolio-api/internal/api/middleware"
	"github.com/marketdesk/portfolio-api/internal/core/domain"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
)

var basicChallenge = `Basic realm="` + middleware.Realm + `"`

// AccountHandler serves registration, login and account administration.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register creates an account with the default security level.
//
// @Summary      Register an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login and password"
// @Success      200   {object}  registeredResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /account [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acc, err := h.service.Register(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, registeredResponse{ID: acc.ID, Login: acc.Login})
}

// Authenticate exchanges HTTP Basic credentials for a bearer token.
//
// @Summary      Log in
// @Tags         accounts
// @Produce      json
// @Security     BasicAuth
// @Success      200  {string}  string  "bearer token"
// @Failure      401  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Router       /auth [get]
func (h *AccountHandler) Authenticate(c echo.Context) error {
	login, password, ok := c.Request().BasicAuth()
	if !ok {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicChallenge)
		return domain.ErrInvalidCredentials
	}

	token, err := h.service.Authenticate(c.Request().Context(), login, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicChallenge)
		}
		return err
	}
	return c.JSON(http.StatusOK, token)
}

// Create registers an account with an explicit security level.
//
// @Summary      Create an account (admin)
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account"
// @Success      201   {object}  accountResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/account [post]
func (h *AccountHandler) Create(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	var req createAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acc, err := h.service.RegisterWithLevel(c.Request().Context(), claims, req.Login, req.Password, domain.SecurityLevel(*req.SecurityLvl))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(*acc))
}

// Delete removes an account by login.
//
// @Summary      Delete an account (admin)
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        login  path      string  true  "Login"
// @Success      200    {object}  accountResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /account/{login} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	acc, err := h.service.Delete(c.Request().Context(), claims, c.Param("login"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(*acc))
}

// List returns the accounts of the caller's partition.
//
// @Summary      List accounts (admin)
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      403  {object}  errorResponse
// @Router       /accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	accounts, err := h.service.List(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, out)
}
