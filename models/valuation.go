package models

import "github.com/shopspring/decimal"

// Holding is the priced view of one position inside a Valuation.
type Holding struct {
	Slot         int             `json:"id"`
	Name         string          `json:"name"`
	Ticker       string          `json:"ticker"`
	Exchange     string          `json:"exchange"`
	BuyingPrice  decimal.Decimal `json:"buyingPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Gain         decimal.Decimal `json:"gain"`
}

// Valuation is a derived, never-persisted snapshot of a portfolio.
// Unpriced lists tickers whose quote fetch failed; those positions are
// excluded from the totals rather than valued at a stale or zero price.
type Valuation struct {
	Holdings       []Holding       `json:"holdings"`
	Unpriced       []string        `json:"unpriced,omitempty"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	TotalGain      decimal.Decimal `json:"totalGain"`
	StockCount     int             `json:"stockCount"`
	RealizedProfit decimal.Decimal `json:"realizedProfit"`
}

// SaleResult reports one completed sell.
type SaleResult struct {
	Sold           Position        `json:"stock"`
	Gain           decimal.Decimal `json:"profit"`
	RealizedProfit decimal.Decimal `json:"currentProfit"`
}
