package cache

import (
	"sync"
	"time"
)

// Slot holds at most one value together with its absolute expiry. It is
// meant to sit in front of a single expensive fetch, not to be a general
// keyed cache.
type Slot struct {
	mu  sync.Mutex
	ttl time.Duration
	val any
	exp time.Time
}

func NewSlot(ttl time.Duration) *Slot {
	return &Slot{ttl: ttl}
}

func (s *Slot) Get() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.val == nil {
		return nil, false
	}

	if time.Now().After(s.exp) {
		s.val = nil
		s.exp = time.Time{}
		return nil, false
	}

	return s.val, true
}

func (s *Slot) Set(val any) {
	s.mu.Lock()
	s.val = val
	s.exp = time.Now().Add(s.ttl)
	s.mu.Unlock()
}

func (s *Slot) Clear() {
	s.mu.Lock()
	s.val = nil
	s.exp = time.Time{}
	s.mu.Unlock()
}
