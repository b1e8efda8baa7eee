package service

import (
	"context"
	"sync"
	"time"
)

// DefaultDedupTTL Slack retry tối đa 3 lần trong khoảng 1 phút
const DefaultDedupTTL = 60 * time.Second

// Deduplicator ghi nhớ event_id đã xử lý trong TTL. Chỉ nằm trong memory,
// restart là mất.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]time.Time // eventID -> expiry
	ttl  time.Duration
	now  func() time.Time
}

func NewDeduplicator(ttl time.Duration, now func() time.Time) *Deduplicator {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Deduplicator{seen: make(map[string]time.Time), ttl: ttl, now: now}
}

// Seen trả true nếu id đã gặp và chưa hết hạn; lần đầu thì ghi nhận và trả false
func (d *Deduplicator) Seen(id string) bool {
	if id == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if exp, ok := d.seen[id]; ok && now.Before(exp) {
		return true
	}
	d.seen[id] = now.Add(d.ttl)
	return false
}

// Sweep evicts expired entries and returns how many were removed
func (d *Deduplicator) Sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	removed := 0
	for id, exp := range d.seen {
		if !now.Before(exp) {
			delete(d.seen, id)
			removed++
		}
	}
	return removed
}

func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Run gọi Sweep theo chu kỳ cho tới khi ctx bị cancel
func (d *Deduplicator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = d.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Sweep()
		}
	}
}
