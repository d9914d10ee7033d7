package handler

import "github.com/marketdesk/portfolio-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Accounts ---

type credentialsRequest struct {
	Login    string `json:"login"    validate:"required,max=64,printascii,trimmed"`
	Password string `json:"password" validate:"required,max=256"`
}

type createAccountRequest struct {
	Login       string `json:"login"        validate:"required,max=64,printascii,trimmed"`
	Password    string `json:"password"     validate:"required,max=256"`
	SecurityLvl *int32 `json:"security_lvl" validate:"required,gte=0"`
}

type registeredResponse struct {
	ID    int32  `json:"id"`
	Login string `json:"login"`
}

type accountResponse struct {
	ID          int32                `json:"id"`
	Login       string               `json:"login"`
	SecurityLvl domain.SecurityLevel `json:"security_lvl"`
}

func toAccountResponse(a domain.Account) accountResponse {
	return accountResponse{ID: a.ID, Login: a.Login, SecurityLvl: a.SecurityLvl}
}

// --- Market data ---

type portfolioItemRequest struct {
	Ticker   string  `json:"ticker"    validate:"required,max=16"`
	Amount   float32 `json:"amount"    validate:"gt=0"`
	BuyPrice float32 `json:"buy_price" validate:"gt=0"`
}

// tickerRequest identifies a ticker in a JSON body or a ?ticker= query.
type tickerRequest struct {
	Ticker string `json:"ticker" query:"ticker" validate:"required,max=16"`
}
