package pointer

import "sync"

// Provider resolves the coordinator for the current host environment. It
// returns ErrNotReady while the coordinator is not reachable yet.
type Provider func() (*Coordinator, error)

// Static returns a Provider that always resolves to c.
func Static(c *Coordinator) Provider {
	return func() (*Coordinator, error) {
		if c == nil {
			return nil, ErrNotReady
		}
		return c, nil
	}
}

// Slot is a coordinator published by the host once it has been created.
// Containers built before publication keep retrying through Provider.
type Slot struct {
	mu sync.RWMutex
	c  *Coordinator
}

// Publish makes c available to every Provider of the slot.
func (s *Slot) Publish(c *Coordinator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = c
}

// Provider returns a Provider that resolves to the published coordinator.
func (s *Slot) Provider() Provider {
	return func() (*Coordinator, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.c == nil {
			return nil, ErrNotReady
		}
		return s.c, nil
	}
}
