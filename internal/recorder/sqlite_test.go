package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRecorder_TicksNewestFirst(t *testing.T) {
	r := openTestRecorder(t)
	require.NotEmpty(t, r.RunID())

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, r.RecordTick(&TickRecord{
			Timestamp:     base.Add(time.Duration(i) * 2 * time.Second),
			Tick:          i,
			StageIndex:    int(i - 1),
			Price:         0.0003 * float64(i),
			Target:        0.0012,
			TrendUp:       i%2 == 1,
			Phrase:        "PUMP OR DIE! 🔥",
			PercentChange: "12.50",
		}))
	}

	got, err := r.RecentTicks(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].Tick)
	assert.Equal(t, int64(2), got[1].Tick)
	assert.Equal(t, r.RunID(), got[0].RunID)
	assert.True(t, got[0].TrendUp)
	assert.False(t, got[1].TrendUp)
	assert.Equal(t, 2, got[0].StageIndex)
	assert.InDelta(t, 0.0009, got[0].Price, 1e-12)
	assert.Equal(t, "PUMP OR DIE! 🔥", got[0].Phrase)
	assert.Equal(t, "12.50", got[0].PercentChange)
	assert.True(t, got[0].Timestamp.Equal(base.Add(6*time.Second)))
}

func TestSQLiteRecorder_StageAdvance(t *testing.T) {
	r := openTestRecorder(t)

	require.NoError(t, r.RecordStageAdvance(&StageEvent{
		Tick: 4, FromStage: 0, ToStage: 1, Price: 0.00031, Message: "Ayy we pumping! 📈",
	}))

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM stage_advances WHERE run_id = ?`, r.RunID()).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLiteRecorder_RunsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := NewSQLiteRecorder(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.RecordTick(&TickRecord{Tick: 1}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteRecorder(path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	got, err := second.RecentTicks(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordTick(&TickRecord{}))
	assert.NoError(t, r.RecordStageAdvance(&StageEvent{}))
	got, err := r.RecentTicks(5)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, r.Close())
}
