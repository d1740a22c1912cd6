// Package dedupe provides idempotency tracking for game ingestion.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen game IDs so a re-ingested feed cannot double-count
// a game.
type Deduper interface {
	// SeenAndRecord atomically checks whether gameID was seen and records
	// it if not. Returns true if the game was already seen.
	SeenAndRecord(ctx context.Context, gameID int) bool

	// Unrecord forgets a game ID so it can be ingested again, for example
	// after a store write failed and the game must be retried.
	Unrecord(ctx context.Context, gameID int)

	Size() int64
}

// inMemoryDeduper keeps seen game IDs in a map. In bounded mode a FIFO ring
// of the insertion order backs eviction: once maxSize IDs are held, recording
// a new one forgets the oldest. Unbounded mode (maxSize <= 0) never evicts.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[int]struct{}
	order   []int // FIFO ring, bounded mode only
	next    int   // ring slot the next insertion overwrites
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper. The default capacity
// covers several full seasons of a national schedule.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: 50000}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.seen = make(map[int]struct{})
	if d.maxSize > 0 {
		d.order = make([]int, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, gameID int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[gameID]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			evicted := d.order[d.next]
			if _, ok := d.seen[evicted]; ok {
				delete(d.seen, evicted)
				d.size.Add(-1)
			}
		}
		d.order[d.next] = gameID
		d.next = (d.next + 1) % d.maxSize
	}

	d.seen[gameID] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, gameID int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[gameID]; exists {
		delete(d.seen, gameID)
		d.size.Add(-1)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
