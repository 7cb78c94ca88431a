package schedule

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Generator triggers server-side generation of due recurring
// transactions.
type Generator interface {
	GenerateRecurring(ctx context.Context) error
}

// Regenerator periodically asks the backend to materialize due
// occurrences so templates stay current without user interaction.
type Regenerator struct {
	cron      *cron.Cron
	generator Generator
	logger    *zap.Logger
	timeout   time.Duration
}

// NewRegenerator builds a regenerator around the given generator. The
// job is registered by Start.
func NewRegenerator(generator Generator, timeout time.Duration, logger *zap.Logger) *Regenerator {
	return &Regenerator{
		cron:      cron.New(),
		generator: generator,
		logger:    logger,
		timeout:   timeout,
	}
}

// Start schedules regeneration on the given cron expression (standard
// five-field syntax) and runs one generation immediately. Failures are
// logged and retried on the next tick.
func (r *Regenerator) Start(spec string) error {
	_, err := r.cron.AddFunc(spec, r.run)
	if err != nil {
		return err
	}
	r.cron.Start()
	go r.run()
	return nil
}

// Stop halts scheduling and waits for any in-flight generation run.
func (r *Regenerator) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Regenerator) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := r.generator.GenerateRecurring(ctx); err != nil {
		r.logger.Warn("recurring generation failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)))
		return
	}
	r.logger.Debug("recurring generation completed",
		zap.Duration("elapsed", time.Since(start)))
}
