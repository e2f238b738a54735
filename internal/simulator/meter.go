package simulator

import (
	"math"
	"sync"
)

// Meter is the "crazy level" gauge, a number in [0, 100) re-rolled on its own timer.
type Meter struct {
	mu    sync.RWMutex
	rnd   Rand
	level float64
}

// NewMeter starts the gauge at 50.
func NewMeter(rnd Rand) *Meter {
	return &Meter{rnd: rnd, level: 50}
}

// Roll draws a new level and returns it.
func (m *Meter) Roll() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = m.rnd.Float64() * 100
	return m.level
}

// Level returns the current level rounded to a whole percent.
func (m *Meter) Level() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int(math.Round(m.level))
}
