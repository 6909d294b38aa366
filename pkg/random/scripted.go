package random

import "sync"

// Scripted replays fixed Float64 draws in order and wraps around when it runs
// out. IntN derives its value from the next draw the same way math/rand does
// for small n, so a script fully determines every call.
type Scripted struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewScripted returns a source replaying values. Values must be in [0, 1).
func NewScripted(values ...float64) *Scripted {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &Scripted{values: values}
}

func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func (s *Scripted) IntN(n int) int {
	if n <= 0 {
		panic("random: invalid argument to IntN")
	}
	return int(s.Float64() * float64(n))
}

// Draws reports how many values have been consumed.
func (s *Scripted) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}
