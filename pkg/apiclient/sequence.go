package apiclient

import "sync"

// Sequencer orders responses of overlapping requests. Each request takes an id
// from Next; a response is applied only when its id is newer than the last
// applied one.
type Sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next issues a new request id.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Apply marks id as applied and reports false when a newer response already won.
func (s *Sequencer) Apply(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= s.applied {
		return false
	}
	s.applied = id
	return true
}

// Applied returns the id of the last applied response.
func (s *Sequencer) Applied() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}
