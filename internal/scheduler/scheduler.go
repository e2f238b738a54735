package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"CrazyCarl/internal/display"
	"CrazyCarl/internal/logging"
	"CrazyCarl/internal/recorder"
	"CrazyCarl/internal/simulator"
)

// Scheduler owns the periodic simulator tick and meter roll.
type Scheduler struct {
	Cron      *cron.Cron
	Simulator *simulator.Simulator
	Meter     *simulator.Meter
	Recorder  recorder.Recorder
	Logger    *zap.Logger
}

// NewScheduler creates a new Scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(sim *simulator.Simulator, meter *simulator.Meter, rec recorder.Recorder, logger *zap.Logger) *Scheduler {
	cl := logging.NewCronLogger(logger)
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Simulator: sim,
		Meter:     meter,
		Recorder:  rec,
		Logger:    logger,
	}
}

// RegisterAll registers the tick and meter jobs. Intervals are truncated to whole seconds.
func (s *Scheduler) RegisterAll(tickEvery, meterEvery time.Duration) error {
	if tickEvery < time.Second {
		return fmt.Errorf("register tick task: interval %s below 1s", tickEvery)
	}
	if meterEvery < time.Second {
		return fmt.Errorf("register meter task: interval %s below 1s", meterEvery)
	}
	s.Cron.Schedule(cron.Every(tickEvery), cron.FuncJob(s.tickTask))
	s.Cron.Schedule(cron.Every(meterEvery), cron.FuncJob(s.meterTask))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started")
}

// Stop waits for running jobs, then disposes the simulator so nothing
// mutates state after teardown.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Simulator.Dispose()
	s.Logger.Info("scheduler stopped")
}

// RunNow executes one tick immediately (RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.tickTask()
}

func (s *Scheduler) tickTask() {
	snap, advanced, err := s.Simulator.Tick()
	if err != nil {
		s.Logger.Debug("tick skipped", zap.Error(err))
		return
	}
	// the target this tick chased; one stage back if it was just reached
	from := snap.State.StageIndex
	if advanced {
		from--
	}
	target := s.Simulator.Milestones()[from].TargetPrice

	s.Logger.Debug("tick",
		zap.Int64("tick", snap.Tick),
		zap.Int("stage", snap.State.StageIndex),
		zap.Float64("price", snap.State.CurrentPrice),
		zap.Bool("trend_up", snap.State.TrendUp),
	)

	if err := s.Recorder.RecordTick(&recorder.TickRecord{
		Timestamp:     snap.UpdatedAt,
		Tick:          snap.Tick,
		StageIndex:    snap.State.StageIndex,
		Price:         snap.State.CurrentPrice,
		Target:        target,
		TrendUp:       snap.State.TrendUp,
		Phrase:        snap.Phrase,
		PercentChange: display.PercentChange(snap.Series),
	}); err != nil {
		s.Logger.Error("record tick", zap.Error(err))
	}

	if !advanced {
		return
	}
	s.Logger.Info("milestone reached",
		zap.Int("from", from),
		zap.Int("to", snap.State.StageIndex),
		zap.String("price", display.FormatPrice(snap.State.CurrentPrice)),
		zap.String("message", snap.Milestone.Message),
	)
	if err := s.Recorder.RecordStageAdvance(&recorder.StageEvent{
		Tick:      snap.Tick,
		FromStage: from,
		ToStage:   snap.State.StageIndex,
		Price:     snap.State.CurrentPrice,
		Message:   snap.Milestone.Message,
	}); err != nil {
		s.Logger.Error("record stage advance", zap.Error(err))
	}
}

func (s *Scheduler) meterTask() {
	level := s.Meter.Roll()
	s.Logger.Debug("crazy meter", zap.Float64("level", level))
}
