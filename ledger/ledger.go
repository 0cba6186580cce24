// Package ledger owns a user's stock positions and realized profit. All
// mutation goes through Buy and Sell, which hold a per-account lock
// across the fetch-price-and-mutate sequence so concurrent requests on
// the same account cannot race past the position cap or corrupt slot
// numbering.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-tracker/models"
	"portfolio-tracker/prices"
)

// Directory persists and retrieves accounts. Save must replace the full
// position list atomically together with the trade log entry, and must
// detect concurrent writes via the account's Version, returning
// ErrConflict on mismatch.
type Directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, user *models.User, trade *models.TradeLog) error
}

// Quoter supplies current prices; prices.Service implements it.
type Quoter interface {
	GetQuote(ctx context.Context, ticker, exchange string) (prices.Quote, error)
}

// Ledger applies buy, sell and valuation operations to accounts.
type Ledger struct {
	dir    Directory
	quoter Quoter
	locks  *lockTable
}

func New(dir Directory, quoter Quoter) *Ledger {
	return &Ledger{
		dir:    dir,
		quoter: quoter,
		locks:  newLockTable(),
	}
}

// Buy appends a new position priced at the current market quote. The
// account either gains one fully-formed position or is left untouched.
func (l *Ledger) Buy(ctx context.Context, userID uuid.UUID, ticker, exchange string) (*models.Position, error) {
	ticker = strings.TrimSpace(ticker)
	exchange = strings.TrimSpace(exchange)
	if ticker == "" || exchange == "" {
		return nil, fmt.Errorf("%w: ticker and exchange are required", ErrValidation)
	}

	mu := l.locks.lock(userID)
	defer mu.Unlock()

	user, err := l.dir.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Positions) >= models.MaxPositions {
		return nil, ErrCapacityExceeded
	}

	quote, err := l.quoter.GetQuote(ctx, ticker, exchange)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	position := models.Position{
		UserID:      userID,
		Slot:        len(user.Positions) + 1,
		Name:        fmt.Sprintf("%s %s", ticker, exchange),
		Ticker:      ticker,
		Exchange:    exchange,
		BuyingPrice: quote.Price,
	}
	user.Positions = append(user.Positions, position)

	trade := &models.TradeLog{
		UserID:     userID,
		Side:       models.TradeSideBuy,
		Ticker:     ticker,
		Exchange:   exchange,
		Price:      quote.Price,
		ExecutedAt: time.Now().UTC(),
	}
	if err := l.dir.Save(ctx, user, trade); err != nil {
		return nil, err
	}
	return &position, nil
}

// Sell closes the position at slot, books its gain against the current
// quote into the account's realized profit, and renumbers the remaining
// positions so slots stay dense.
func (l *Ledger) Sell(ctx context.Context, userID uuid.UUID, slot int) (*models.SaleResult, error) {
	if slot < 1 {
		return nil, fmt.Errorf("%w: slot must be positive", ErrValidation)
	}

	mu := l.locks.lock(userID)
	defer mu.Unlock()

	user, err := l.dir.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, p := range user.Positions {
		if p.Slot == slot {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrPositionNotFound
	}
	sold := user.Positions[index]

	quote, err := l.quoter.GetQuote(ctx, sold.Ticker, sold.Exchange)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	gain := quote.Price.Sub(sold.BuyingPrice)
	user.RealizedProfit = user.RealizedProfit.Add(gain)

	user.Positions = append(user.Positions[:index], user.Positions[index+1:]...)
	for i := range user.Positions {
		user.Positions[i].Slot = i + 1
	}

	trade := &models.TradeLog{
		UserID:     userID,
		Side:       models.TradeSideSell,
		Ticker:     sold.Ticker,
		Exchange:   sold.Exchange,
		Price:      quote.Price,
		ExecutedAt: time.Now().UTC(),
	}
	if err := l.dir.Save(ctx, user, trade); err != nil {
		return nil, err
	}

	return &models.SaleResult{
		Sold:           sold,
		Gain:           gain,
		RealizedProfit: user.RealizedProfit,
	}, nil
}

// Value prices every held position and aggregates unrealized gains. A
// position whose quote fetch fails is reported under Unpriced and left
// out of the totals. Value never mutates the account; the account lock
// is held only long enough to take a consistent copy of the position
// list, not across the quote fetches.
func (l *Ledger) Value(ctx context.Context, userID uuid.UUID) (*models.Valuation, error) {
	mu := l.locks.lock(userID)
	user, err := l.dir.FindByID(ctx, userID)
	if err != nil {
		mu.Unlock()
		return nil, err
	}
	positions := make([]models.Position, len(user.Positions))
	copy(positions, user.Positions)
	realized := user.RealizedProfit
	mu.Unlock()

	valuation := &models.Valuation{
		Holdings:       []models.Holding{},
		StockCount:     len(positions),
		RealizedProfit: realized,
	}

	for _, p := range positions {
		quote, err := l.quoter.GetQuote(ctx, p.Ticker, p.Exchange)
		if err != nil {
			valuation.Unpriced = append(valuation.Unpriced, p.Ticker)
			continue
		}
		gain := quote.Price.Sub(p.BuyingPrice)
		valuation.Holdings = append(valuation.Holdings, models.Holding{
			Slot:         p.Slot,
			Name:         p.Name,
			Ticker:       p.Ticker,
			Exchange:     p.Exchange,
			BuyingPrice:  p.BuyingPrice,
			CurrentPrice: quote.Price,
			Gain:         gain,
		})
		valuation.TotalValue = valuation.TotalValue.Add(quote.Price)
		valuation.TotalGain = valuation.TotalGain.Add(gain)
	}
	return valuation, nil
}
