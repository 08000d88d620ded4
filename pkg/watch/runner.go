package watch

import (
	"context"
	"sync"

	"mercator-hq/condconfig/pkg/telemetry/logging"
)

// Trigger names attached to the run context.
const (
	TriggerStartup  = "startup"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
)

// RunFunc performs one import batch.
type RunFunc func(ctx context.Context) error

// Runner serializes batches started by different triggers so that two
// batches never process files at the same time.
type Runner struct {
	mu  sync.Mutex
	run RunFunc
}

// NewRunner wraps run.
func NewRunner(run RunFunc) *Runner {
	return &Runner{run: run}
}

// Run executes a batch for trigger, waiting for any batch in progress to finish first.
func (r *Runner) Run(ctx context.Context, trigger string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return r.run(logging.WithTrigger(ctx, trigger))
}
