// Package jobs holds background work driven off time.Ticker loops.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"portfolio-tracker/models"
)

// AccountLister enumerates accounts for the revaluation sweep.
type AccountLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Valuer prices one account's portfolio; the ledger implements it and
// takes its own per-account lock, so a sweep never tears a concurrent
// buy or sell.
type Valuer interface {
	Value(ctx context.Context, userID uuid.UUID) (*models.Valuation, error)
}

// RevalueJob periodically recomputes every account's unrealized
// valuation and caches the snapshot in Redis. Realized profit is never
// written here; only sells book it.
type RevalueJob struct {
	interval time.Duration
	accounts AccountLister
	valuer   Valuer
	rdb      *redis.Client
}

func NewRevalueJob(interval time.Duration, accounts AccountLister, valuer Valuer, rdb *redis.Client) *RevalueJob {
	return &RevalueJob{
		interval: interval,
		accounts: accounts,
		valuer:   valuer,
		rdb:      rdb,
	}
}

func (j *RevalueJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *RevalueJob) run(ctx context.Context) {
	ids, err := j.accounts.ListIDs(ctx)
	if err != nil {
		log.Printf("revalue: list accounts: %v", err)
		return
	}

	for _, id := range ids {
		valuation, err := j.valuer.Value(ctx, id)
		if err != nil {
			log.Printf("revalue: account %s: %v", id, err)
			continue
		}
		if j.rdb == nil {
			continue
		}
		payload, err := json.Marshal(valuation)
		if err != nil {
			log.Printf("revalue: marshal snapshot for %s: %v", id, err)
			continue
		}
		if err := j.rdb.Set(ctx, snapshotKey(id), payload, 2*j.interval).Err(); err != nil {
			log.Printf("revalue: cache snapshot for %s: %v", id, err)
		}
	}
}

func snapshotKey(id uuid.UUID) string {
	return fmt.Sprintf("portfolio:%s:snapshot", id)
}
