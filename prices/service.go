package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"portfolio-tracker/models"
)

// Service fronts an Oracle with a Redis cache, concurrent-fetch
// deduplication and an explicit per-quote timeout. Every fresh fetch is
// appended to the quote snapshot table for the history endpoint.
//
// Redis and Postgres are both optional; a nil client simply disables
// that layer, which the tests rely on.
type Service struct {
	oracle  Oracle
	rdb     *redis.Client
	db      *gorm.DB
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
}

func NewService(oracle Oracle, rdb *redis.Client, db *gorm.DB, ttl, timeout time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Service{
		oracle:  oracle,
		rdb:     rdb,
		db:      db,
		ttl:     ttl,
		timeout: timeout,
	}
}

func cacheKey(ticker, exchange string) string {
	return fmt.Sprintf("quote:%s:%s", ticker, exchange)
}

// GetQuote returns a cached quote when fresh enough, otherwise fetches
// one from the oracle. Concurrent callers for the same symbol share a
// single upstream fetch.
func (s *Service) GetQuote(ctx context.Context, ticker, exchange string) (Quote, error) {
	key := cacheKey(ticker, exchange)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var quote Quote
			if err := json.Unmarshal([]byte(cached), &quote); err == nil {
				return quote, nil
			}
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		quote, err := s.oracle.GetQuote(fetchCtx, ticker, exchange)
		if err != nil {
			return Quote{}, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(quote); err == nil {
				// Cache failures are not worth failing the quote over.
				_ = s.rdb.Set(ctx, key, payload, s.ttl).Err()
			}
		}
		if s.db != nil {
			_ = s.db.WithContext(ctx).Create(&models.QuoteSnapshot{
				Symbol:    quote.Symbol,
				Exchange:  quote.Exchange,
				Price:     quote.Price,
				Source:    quote.Source,
				FetchedAt: time.Now().UTC(),
			}).Error
		}
		return quote, nil
	})
	if err != nil {
		return Quote{}, err
	}
	return v.(Quote), nil
}

// History returns stored snapshots for a symbol, newest first.
func (s *Service) History(ctx context.Context, ticker string, limit int) ([]models.QuoteSnapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("quote history store not configured")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var snapshots []models.QuoteSnapshot
	err := s.db.WithContext(ctx).
		Where("symbol = ?", ticker).
		Order("fetched_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
