package store

import (
	"math/rand"
	"sync"
	"time"
)

// IDSource mints candidate todo ids. Candidates may collide; the store
// retries until it gets one not already in use.
type IDSource interface {
	Next() int64
}

// ClockIDs derives ids from the wall clock in milliseconds plus a random
// offset below 1000.
type ClockIDs struct {
	mu  sync.Mutex
	now func() time.Time
	rnd *rand.Rand
}

// NewClockIDs returns the default IDSource.
func NewClockIDs() *ClockIDs {
	return &ClockIDs{
		now: time.Now,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ClockIDs) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().UnixMilli() + c.rnd.Int63n(1000)
}

// SequenceIDs hands out 1, 2, 3, ... and is handy for deterministic output.
type SequenceIDs struct {
	mu   sync.Mutex
	next int64
}

func (s *SequenceIDs) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// uniqueID draws from src until it returns an id absent from used, then
// records it in used.
func uniqueID(src IDSource, used map[int64]struct{}) int64 {
	for {
		id := src.Next()
		if _, taken := used[id]; !taken {
			used[id] = struct{}{}
			return id
		}
	}
}
