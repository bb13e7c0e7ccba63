// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// OverdueMarker flips unpaid payroll past its pay date to overdue.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	payroll OverdueMarker
	timeout time.Duration
	// OnSwept, when set, receives the number of records each sweep marked.
	OnSwept func(n int)
}

// New registers the overdue sweep on spec. An empty spec yields a scheduler
// that never fires.
func New(spec string, payroll OverdueMarker) (*Scheduler, error) {
	logger := cron.PrintfLogger(log.StandardLogger())
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		payroll: payroll,
		timeout: 5 * time.Minute,
	}
	if spec == "" {
		log.Info("payroll overdue sweep disabled")
		return s, nil
	}
	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return nil, errors.Wrapf(err, "schedule overdue sweep %q", spec)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("scheduler stop timed out")
	}
}

// Entries reports how many jobs are scheduled.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) SweepPayroll(ctx context.Context) (int, error) {
	started := time.Now()
	n, err := s.payroll.MarkOverdue(ctx)
	logger := log.WithField("job", "payroll_overdue").WithField("durationMs", time.Since(started).Milliseconds())
	if err != nil {
		logger.WithError(err).Error("overdue sweep failed")
		return n, err
	}
	logger.WithField("marked", n).Info("overdue sweep finished")
	if s.OnSwept != nil {
		s.OnSwept(n)
	}
	return n, nil
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.SweepPayroll(ctx)
}
