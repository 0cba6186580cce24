package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxPositions is the hard cap on simultaneously held positions per user.
const MaxPositions = 5

// Position is one held stock line item. Slot is the dense 1-based rank of
// the position within the owner's holdings; it is reassigned on every sale
// so slots always run 1..N with no gaps. BuyingPrice is fixed at purchase
// time and never changes afterwards.
type Position struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	UserID      uuid.UUID       `gorm:"type:uuid;index" json:"-"`
	Slot        int             `json:"id"`
	Name        string          `json:"name"`
	Ticker      string          `gorm:"index" json:"ticker"`
	Exchange    string          `json:"exchange"`
	BuyingPrice decimal.Decimal `gorm:"type:numeric(18,4)" json:"buyingPrice"`
	CreatedAt   time.Time       `json:"-"`
}

// TradeLog records one executed buy or sell.
type TradeLog struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;index" json:"userId"`
	Side       string          `json:"side"` // buy/sell
	Ticker     string          `json:"ticker"`
	Exchange   string          `json:"exchange"`
	Price      decimal.Decimal `gorm:"type:numeric(18,4)" json:"price"`
	ExecutedAt time.Time       `json:"executedAt"`
}

const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)
