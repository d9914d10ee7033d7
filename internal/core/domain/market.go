package domain

import "time"

// Company is a listed company.
type Company struct {
	Ticker   string `json:"ticker" db:"ticker"`
	Name     string `json:"name" db:"name"`
	Sector   string `json:"sector" db:"sector"`
	Industry string `json:"industry" db:"industry"`
	MIC      string `json:"mic" db:"mic"`
}

// Exchange is a market identified by its MIC code.
type Exchange struct {
	MIC  string `json:"mic" db:"mic"`
	Name string `json:"name" db:"name"`
}

// EndOfDay is one ledger row: a ticker's daily open/close and volume.
type EndOfDay struct {
	Ticker string    `json:"ticker" db:"ticker"`
	Date   time.Time `json:"date" db:"date"`
	Open   float32   `json:"open" db:"open"`
	Close  float32   `json:"close" db:"close"`
	Volume float64   `json:"volume" db:"volume"`
}

// PortfolioItem is a position held by an account.
type PortfolioItem struct {
	AccountID int32   `json:"account_id" db:"account_id"`
	Ticker    string  `json:"ticker" db:"ticker"`
	Amount    float32 `json:"amount" db:"amount"`
	BuyPrice  float32 `json:"buy_price" db:"buy_price"`
}

// WatchItem is a ticker on an account's watch list.
type WatchItem struct {
	AccountID int32  `json:"account_id" db:"account_id"`
	Ticker    string `json:"ticker" db:"ticker"`
}
