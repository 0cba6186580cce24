package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteSnapshot is a persisted price observation, one row per fetch.
// The quote endpoint and the revaluation job append these; the history
// endpoint reads them back.
type QuoteSnapshot struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	Symbol    string          `gorm:"index" json:"symbol"`
	Exchange  string          `json:"exchange"`
	Price     decimal.Decimal `gorm:"type:numeric(18,4)" json:"price"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetchedAt"`
}
