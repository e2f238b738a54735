package recorder

import "time"

// TickRecord is one simulator tick as stored in the history.
type TickRecord struct {
	RunID         string    `json:"run_id"`
	Timestamp     time.Time `json:"timestamp"`
	Tick          int64     `json:"tick"`
	StageIndex    int       `json:"stage_index"`
	Price         float64   `json:"price"`
	Target        float64   `json:"target"`
	TrendUp       bool      `json:"trend_up"`
	Phrase        string    `json:"phrase"`
	PercentChange string    `json:"percent_change"`
}

// StageEvent records a milestone being reached.
type StageEvent struct {
	Tick      int64
	FromStage int
	ToStage   int
	Price     float64
	Message   string
}

// Recorder persists tick history for later inspection.
type Recorder interface {
	RecordTick(rec *TickRecord) error
	RecordStageAdvance(evt *StageEvent) error
	RecentTicks(limit int) ([]TickRecord, error)
	Close() error
}
