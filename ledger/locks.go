package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// lockTable hands out one mutex per account so read-modify-write cycles
// on a single portfolio are serialized while different accounts proceed
// in parallel. Entries are never evicted; the table is bounded by the
// number of accounts seen by this process.
type lockTable struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (t *lockTable) lock(id uuid.UUID) *sync.Mutex {
	t.mu.Lock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m
}
