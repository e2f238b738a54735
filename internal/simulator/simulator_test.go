package simulator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CrazyCarl/internal/model"
)

func TestNew_Validation(t *testing.T) {
	base := testParams()

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"no milestones", func(p *Params) { p.Milestones = nil }},
		{"zero target", func(p *Params) { p.Milestones = []model.Milestone{{TargetPrice: 0}} }},
		{"no pump phrases", func(p *Params) { p.PumpPhrases = nil }},
		{"no dump phrases", func(p *Params) { p.DumpPhrases = nil }},
		{"zero window", func(p *Params) { p.Window = 0 }},
		{"zero tolerance", func(p *Params) { p.Tolerance = 0 }},
		{"zero floor", func(p *Params) { p.PriceFloor = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := New(p, constRand(0.5))
			assert.Error(t, err)
		})
	}
}

func TestNew_StartsAtFirstMilestone(t *testing.T) {
	sim, err := New(testParams(), constRand(0.5))
	require.NoError(t, err)

	snap := sim.Snapshot()
	assert.Equal(t, 0, snap.State.StageIndex)
	assert.Equal(t, 0.0003, snap.State.CurrentPrice)
	assert.Equal(t, testMilestones[0], snap.Milestone)
	assert.Equal(t, int64(0), snap.Tick)
	assert.False(t, snap.Final)
}

// Starting at stage 0 with draws that keep every value inside the band, one
// tick reaches the milestone and the caption switches to stage 1.
func TestSimulator_AdvancesToStageOneMessage(t *testing.T) {
	sim, err := New(testParams(), constRand(0.5))
	require.NoError(t, err)

	snap, advanced, err := sim.Tick()
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, 1, snap.State.StageIndex)
	assert.Equal(t, "Ayy we pumping! 📈", snap.Milestone.Message)
	assert.Equal(t, int64(1), snap.Tick)
	assert.Equal(t, snap, sim.Snapshot())
}

func TestSimulator_ReachesFinalStageAndStays(t *testing.T) {
	sim, err := New(testParams(), constRand(0.5))
	require.NoError(t, err)

	last := len(testMilestones) - 1
	prev := 0
	for i := 0; i < 100; i++ {
		snap, _, err := sim.Tick()
		require.NoError(t, err)
		require.GreaterOrEqual(t, snap.State.StageIndex, prev)
		require.Greater(t, snap.State.CurrentPrice, 0.0)
		prev = snap.State.StageIndex
	}
	snap := sim.Snapshot()
	assert.Equal(t, last, snap.State.StageIndex)
	assert.True(t, snap.Final)
	assert.Equal(t, testMilestones[last].Message, snap.Milestone.Message)
}

func TestSimulator_SnapshotIsACopy(t *testing.T) {
	sim, err := New(testParams(), rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	_, _, err = sim.Tick()
	require.NoError(t, err)

	snap := sim.Snapshot()
	snap.Series[0].Value = -1
	assert.NotEqual(t, -1.0, sim.Snapshot().Series[0].Value)
}

func TestSimulator_SubscribeGetsLatest(t *testing.T) {
	sim, err := New(testParams(), rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	updates, cancel := sim.Subscribe()
	defer cancel()

	_, _, err = sim.Tick()
	require.NoError(t, err)
	_, _, err = sim.Tick()
	require.NoError(t, err)

	// a slow reader only sees the newest snapshot
	snap := <-updates
	assert.Equal(t, int64(2), snap.Tick)

	cancel()
	_, ok := <-updates
	assert.False(t, ok, "channel closed after cancel")
	cancel()
}

func TestSimulator_Dispose(t *testing.T) {
	sim, err := New(testParams(), constRand(0.5))
	require.NoError(t, err)

	updates, cancel := sim.Subscribe()
	defer cancel()

	sim.Dispose()
	sim.Dispose()

	_, ok := <-updates
	assert.False(t, ok)

	before := sim.Snapshot()
	_, _, err = sim.Tick()
	assert.ErrorIs(t, err, ErrDisposed)
	assert.Equal(t, before, sim.Snapshot(), "no state change after dispose")

	late, _ := sim.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestMeter_Roll(t *testing.T) {
	m := NewMeter(constRand(0.426))
	assert.Equal(t, 50, m.Level())
	assert.InDelta(t, 42.6, m.Roll(), 1e-9)
	assert.Equal(t, 43, m.Level())
}
