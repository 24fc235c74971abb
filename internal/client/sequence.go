package client

import "sync"

// Sequencer hands out increasing sequence numbers per request key so that
// only the response to the latest request for a key is applied.
type Sequencer struct {
	mu     sync.Mutex
	next   uint64
	latest map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Begin records a new request for key and returns its sequence number.
func (s *Sequencer) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.latest[key] = s.next
	return s.next
}

// IsLatest reports whether seq is still the newest request issued for key.
func (s *Sequencer) IsLatest(key string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == seq
}
