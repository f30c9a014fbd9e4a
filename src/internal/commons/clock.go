package commons

import (
	"sync"
	"time"
)

// MonotonicClock hands out strictly increasing UTC timestamps at microsecond
// resolution, which is what Postgres timestamptz keeps.
type MonotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC().Truncate(time.Microsecond)
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}
