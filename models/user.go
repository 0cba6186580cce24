package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a registered account. Positions are exclusively owned by the
// user and kept in slot order. RealizedProfit accumulates the gain or
// loss booked by sells; valuation reads never touch it.
//
// Version backs optimistic conflict detection on save: a concurrent
// writer that raced past the account lock surfaces as a conflict
// instead of silently overwriting the position list.
type User struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `json:"name"`
	Email          string          `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string          `json:"-"`
	RealizedProfit decimal.Decimal `gorm:"type:numeric(18,4)" json:"realizedProfit"`
	Version        uint            `json:"-"`
	Positions      []Position      `gorm:"constraint:OnDelete:CASCADE" json:"stocks"`
	CreatedAt      time.Time       `json:"-"`
	UpdatedAt      time.Time       `json:"-"`
}
