package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"portfolio-tracker/models"
)

type stubLister struct {
	ids []uuid.UUID
}

func (s *stubLister) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	return s.ids, nil
}

type stubValuer struct {
	calls int64
}

func (s *stubValuer) Value(_ context.Context, _ uuid.UUID) (*models.Valuation, error) {
	atomic.AddInt64(&s.calls, 1)
	return &models.Valuation{}, nil
}

func TestRevalueJobSweepsEveryAccount(t *testing.T) {
	lister := &stubLister{ids: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}}
	valuer := &stubValuer{}
	job := NewRevalueJob(time.Hour, lister, valuer, nil)

	job.run(context.Background())

	assert.EqualValues(t, 3, atomic.LoadInt64(&valuer.calls))
}

func TestRevalueJobStopsOnContextCancel(t *testing.T) {
	lister := &stubLister{}
	valuer := &stubValuer{}
	job := NewRevalueJob(time.Millisecond, lister, valuer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop after cancel")
	}
}
