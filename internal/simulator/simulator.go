package simulator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"CrazyCarl/internal/model"
)

// ErrDisposed is returned by Tick after Dispose.
var ErrDisposed = errors.New("simulator disposed")

// Simulator owns the simulation state. Tick is the only writer; Snapshot and
// subscribers may read from any goroutine.
type Simulator struct {
	mu       sync.RWMutex
	params   Params
	rnd      Rand
	now      func() time.Time
	snap     model.Snapshot
	subs     map[int]chan model.Snapshot
	nextSub  int
	disposed bool
}

// New validates params and initializes the simulator at the first milestone.
func New(p Params, rnd Rand) (*Simulator, error) {
	if len(p.Milestones) == 0 {
		return nil, errors.New("at least one milestone is required")
	}
	for i, m := range p.Milestones {
		if m.TargetPrice <= 0 {
			return nil, fmt.Errorf("milestone %d: target price must be positive", i)
		}
	}
	if len(p.PumpPhrases) == 0 || len(p.DumpPhrases) == 0 {
		return nil, errors.New("pump and dump phrase pools must not be empty")
	}
	if p.Window < 1 {
		return nil, errors.New("window must be positive")
	}
	if p.Tolerance <= 0 {
		return nil, errors.New("tolerance must be positive")
	}
	if p.PriceFloor <= 0 {
		return nil, errors.New("price floor must be positive")
	}

	s := &Simulator{
		params: p,
		rnd:    rnd,
		now:    time.Now,
		subs:   make(map[int]chan model.Snapshot),
	}
	first := p.Milestones[0]
	s.snap = model.Snapshot{
		State: model.SimulationState{
			CurrentPrice: first.TargetPrice,
			TrendUp:      true,
		},
		Series:    []model.SeriesPoint{{Index: 0, Value: first.TargetPrice}},
		Milestone: first,
		Phrase:    p.PumpPhrases[0],
		Final:     len(p.Milestones) == 1,
		UpdatedAt: s.now(),
	}
	return s, nil
}

// Tick advances the simulation by one step and publishes the result.
// The bool reports whether a new milestone was reached.
func (s *Simulator) Tick() (model.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return model.Snapshot{}, false, ErrDisposed
	}

	out := Step(s.snap.State, s.params, s.rnd)
	s.snap = model.Snapshot{
		State:     out.State,
		Series:    out.Series,
		Milestone: s.params.Milestones[out.State.StageIndex],
		Phrase:    out.Phrase,
		Final:     out.State.StageIndex == len(s.params.Milestones)-1,
		Tick:      s.snap.Tick + 1,
		UpdatedAt: s.now(),
	}

	for _, ch := range s.subs {
		publish(ch, s.snap)
	}
	return s.copySnapshot(), out.Advanced, nil
}

// publish delivers the latest snapshot, replacing a stale one a slow reader has not taken.
func publish(ch chan model.Snapshot, snap model.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// Snapshot returns a copy of the latest state.
func (s *Simulator) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copySnapshot()
}

func (s *Simulator) copySnapshot() model.Snapshot {
	snap := s.snap
	snap.Series = append([]model.SeriesPoint(nil), s.snap.Series...)
	return snap
}

// Milestones returns the configured milestone list.
func (s *Simulator) Milestones() []model.Milestone {
	return append([]model.Milestone(nil), s.params.Milestones...)
}

// Subscribe returns a channel that receives every snapshot published after the
// call, and a cancel func. The channel is closed on cancel or Dispose.
func (s *Simulator) Subscribe() (<-chan model.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan model.Snapshot, 1)
	if s.disposed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Dispose stops the simulator. Further ticks fail with ErrDisposed and all
// subscriber channels are closed. Safe to call more than once.
func (s *Simulator) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
