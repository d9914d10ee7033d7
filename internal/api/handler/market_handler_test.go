package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

var userClaims = domain.Claims{ID: 12, SecurityLvl: domain.LevelUser}

func TestMarketHandler_Companies(t *testing.T) {
	e := newEcho()
	stub := &stubMarketService{companies: []domain.Company{{Ticker: "ACME", Name: "Acme Corp"}}}
	c, rec := newContext(e, http.MethodGet, "/companies", "", &userClaims)

	if err := NewMarketHandler(stub).Companies(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.companiesCaller != userClaims {
		t.Fatalf("service got caller %+v", stub.companiesCaller)
	}
	if !strings.Contains(rec.Body.String(), `"ticker":"ACME"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMarketHandler_EmptyResultIsArray(t *testing.T) {
	e := newEcho()
	c, rec := newContext(e, http.MethodGet, "/companies_test", "", nil)

	if err := NewMarketHandler(&stubMarketService{}).CompaniesSample(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestMarketHandler_AddPortfolioItem(t *testing.T) {
	e := newEcho()
	stub := &stubMarketService{}
	c, rec := newContext(e, http.MethodPost, "/portfolio_item", `{"ticker":"ACME","amount":2,"buy_price":9.5}`, &userClaims)

	if err := NewMarketHandler(stub).AddPortfolioItem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rows []domain.PortfolioItem
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(rows) != 1 || rows[0].Ticker != "ACME" || rows[0].AccountID != userClaims.ID {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if stub.portfolioIn.Ticker != "ACME" || stub.portfolioIn.Amount != 2 || stub.portfolioIn.BuyPrice != 9.5 {
		t.Fatalf("unexpected input: %+v", stub.portfolioIn)
	}
}

func TestMarketHandler_AddPortfolioItem_Validation(t *testing.T) {
	e := newEcho()
	c, _ := newContext(e, http.MethodPost, "/portfolio_item", `{"ticker":"ACME","amount":0,"buy_price":1}`, &userClaims)

	if err := NewMarketHandler(&stubMarketService{}).AddPortfolioItem(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMarketHandler_WatchItem(t *testing.T) {
	e := newEcho()
	stub := &stubMarketService{}
	h := NewMarketHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/watchitem", `{"ticker":"MSFT"}`, &userClaims)
	if err := h.AddWatchItem(c); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if rec.Code != http.StatusOK || stub.watchAdded != "MSFT" {
		t.Fatalf("add: code=%d ticker=%q", rec.Code, stub.watchAdded)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `[{"account_id":12,"ticker":"MSFT"}]` {
		t.Fatalf("add: unexpected body %s", body)
	}

	c, rec = newContext(e, http.MethodDelete, "/watchitem?ticker=MSFT", "", &userClaims)
	if err := h.RemoveWatchItem(c); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if rec.Code != http.StatusOK || stub.watchRemoved != "MSFT" {
		t.Fatalf("remove: code=%d ticker=%q", rec.Code, stub.watchRemoved)
	}
}

func TestMarketHandler_PropagatesServiceErrors(t *testing.T) {
	e := newEcho()
	stub := &stubMarketService{err: domain.ErrItemNotFound}
	c, _ := newContext(e, http.MethodDelete, "/watchitem", `{"ticker":"NOPE"}`, &userClaims)

	if err := NewMarketHandler(stub).RemoveWatchItem(c); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
