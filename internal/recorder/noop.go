package recorder

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTick(_ *TickRecord) error          { return nil }
func (n *NoopRecorder) RecordStageAdvance(_ *StageEvent) error  { return nil }
func (n *NoopRecorder) RecentTicks(_ int) ([]TickRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error                            { return nil }
