package simulator

import (
	"math"

	"CrazyCarl/internal/model"
)

// Rand is the random source the transition draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Regime is the trend multiplier and volatility used in one direction.
type Regime struct {
	Trend      float64
	Volatility float64
}

var (
	// PumpRegime applies while the price is below its target.
	PumpRegime = Regime{Trend: 1.3, Volatility: 0.5}
	// DumpRegime applies otherwise.
	DumpRegime = Regime{Trend: 0.85, Volatility: 0.3}
)

// Params is the read-only configuration of the transition.
type Params struct {
	Milestones  []model.Milestone
	PumpPhrases []string
	DumpPhrases []string
	Window      int
	Tolerance   float64
	PriceFloor  float64
}

// Outcome is the result of one Step.
type Outcome struct {
	State    model.SimulationState
	Series   []model.SeriesPoint
	Phrase   string
	Advanced bool
}

// Step computes the next state from the current one. It does not mutate its inputs.
func Step(state model.SimulationState, p Params, rnd Rand) Outcome {
	target := p.Milestones[state.StageIndex].TargetPrice
	movingUp := target > state.CurrentPrice

	regime := DumpRegime
	if movingUp {
		regime = PumpRegime
	}

	series := make([]model.SeriesPoint, p.Window)
	value := state.CurrentPrice
	for i := range series {
		value *= regime.Trend + (rnd.Float64()-0.5)*regime.Volatility
		switch {
		case movingUp && value > target*(1+p.Tolerance):
			value = target * (1 - p.Tolerance + rnd.Float64()*2*p.Tolerance)
		case !movingUp && value < target*(1-p.Tolerance):
			value = target * (1 - p.Tolerance + rnd.Float64()*2*p.Tolerance)
		}
		value = clampPrice(value, target, p.PriceFloor)
		series[i] = model.SeriesPoint{Index: i, Value: value}
	}

	next := state
	next.CurrentPrice = value

	advanced := false
	last := len(p.Milestones) - 1
	if math.Abs(value-target)/target < p.Tolerance && state.StageIndex < last {
		next.StageIndex++
		advanced = true
	}

	next.TrendUp = value > state.CurrentPrice

	pool := p.DumpPhrases
	if next.TrendUp {
		pool = p.PumpPhrases
	}
	phrase := pool[int(rnd.Float64()*float64(len(pool)))%len(pool)]

	return Outcome{State: next, Series: series, Phrase: phrase, Advanced: advanced}
}

func clampPrice(v, target, floor float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return target
	}
	if v < floor {
		return floor
	}
	return v
}
