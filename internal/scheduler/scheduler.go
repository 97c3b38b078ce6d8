package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ValueSentinel/internal/model"
	"ValueSentinel/internal/report"
	"ValueSentinel/internal/store"
)

// Runner is the part of the ranking service the scheduler drives.
type Runner interface {
	Refresh(ctx context.Context) error
	Run(ctx context.Context, h model.Horizon) (*store.Run, error)
}

// Scheduler manages the cron-driven ranking runs.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Out    io.Writer // ranking reports are written here
	TopN   int
	Ctx    context.Context

	mu  sync.Mutex // one run at a time
	log zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner, out io.Writer, topN int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Out:    out,
		TopN:   topN,
		Ctx:    ctx,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the mid-term and long-term ranking tasks.
func (s *Scheduler) RegisterAll(midTermCron, longTermCron string) error {
	if _, err := s.Cron.AddFunc(midTermCron, func() { s.RunNow(model.MidTerm) }); err != nil {
		return fmt.Errorf("register mid-term task: %w", err)
	}
	if _, err := s.Cron.AddFunc(longTermCron, func() { s.RunNow(model.LongTerm) }); err != nil {
		return fmt.Errorf("register long-term task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("tasks", len(s.Cron.Entries())).Msg("Scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// RunNow refreshes the data and ranks horizon h immediately.
func (s *Scheduler) RunNow(h model.Horizon) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info().Str("horizon", string(h)).Msg("Running ranking task")
	if err := s.Runner.Refresh(s.Ctx); err != nil {
		s.log.Error().Err(err).Str("horizon", string(h)).Msg("Refresh failed, ranking stored snapshots")
	}
	run, err := s.Runner.Run(s.Ctx, h)
	if err != nil {
		s.log.Error().Err(err).Str("horizon", string(h)).Msg("Ranking failed")
		return
	}
	if s.Out != nil {
		if _, err := io.WriteString(s.Out, report.FormatRanking(run, s.TopN)); err != nil {
			s.log.Error().Err(err).Msg("Write report")
		}
	}
}
