package collector

import (
	"context"
	"time"

	"github.com/anthonydresser/fluent-bit-hist/log"
)

// ScheduledTask runs work every interval until stopped. Errors are logged
// and the most recent one is kept for Errors.
type ScheduledTask struct {
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	errors   chan error
	done     chan struct{}
	started  bool
	work     func(ctx context.Context) error
}

func NewScheduledTask(parent context.Context, interval time.Duration, target func(ctx context.Context) error) *ScheduledTask {
	ctx, cancel := context.WithCancel(parent)
	return &ScheduledTask{
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
		work:     target,
	}
}

func (st *ScheduledTask) Start() {
	st.started = true
	ticker := time.NewTicker(st.interval)
	go func() {
		defer ticker.Stop()
		defer close(st.done)

		for {
			select {
			case <-st.ctx.Done():
				return
			case <-ticker.C:
				if err := st.work(st.ctx); err != nil {
					log.Error().Printf("encountered error during flush: %v\n", err)
					st.report(err)
				}
			}
		}
	}()
}

// report keeps only the latest error without blocking the ticker.
func (st *ScheduledTask) report(err error) {
	select {
	case <-st.errors:
	default:
	}
	select {
	case st.errors <- err:
	default:
	}
}

// Errors delivers the latest unread flush error.
func (st *ScheduledTask) Errors() <-chan error {
	return st.errors
}

// Stop cancels the task and waits for a running tick to return.
func (st *ScheduledTask) Stop() {
	st.cancel()
	if st.started {
		<-st.done
	}
}
