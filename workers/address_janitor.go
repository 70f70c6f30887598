package workers

import (
	"context"
	"sync"
	"time"

	"github.com/camden-git/persongraph/logger"
)

// OrphanPurger deletes addresses no person references.
type OrphanPurger interface {
	PurgeOrphanAddresses(ctx context.Context) (int, error)
}

// AddressJanitor sweeps orphan addresses on a fixed interval and on request.
type AddressJanitor struct {
	Purger   OrphanPurger
	Interval time.Duration
	Trigger  chan struct{}
	StopChan chan struct{}
	Log      *logger.Logger

	stopOnce sync.Once
}

// NewAddressJanitor creates a janitor. An interval of zero disables the
// periodic sweep, including the one on start; RequestSweep still works
// while Run is active.
func NewAddressJanitor(purger OrphanPurger, interval time.Duration, log *logger.Logger) *AddressJanitor {
	return &AddressJanitor{
		Purger:   purger,
		Interval: interval,
		Trigger:  make(chan struct{}, 1),
		StopChan: make(chan struct{}),
		Log:      log,
	}
}

// Run sweeps until ctx is cancelled or Stop is called. With periodic
// sweeping enabled the first sweep runs immediately.
func (j *AddressJanitor) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if j.Interval > 0 {
		ticker := time.NewTicker(j.Interval)
		defer ticker.Stop()
		tick = ticker.C
		j.RequestSweep()
		j.Log.Info("address janitor started", "interval", j.Interval.String())
	} else {
		j.Log.Info("address janitor started without periodic sweep")
	}

	for {
		select {
		case <-ctx.Done():
			j.Log.Info("address janitor stopping: context done")
			return nil
		case <-j.StopChan:
			j.Log.Info("address janitor stopping: stop signal received")
			return nil
		case <-tick:
			j.sweep(ctx)
		case <-j.Trigger:
			j.sweep(ctx)
		}
	}
}

// RequestSweep asks for a sweep without waiting for it. Requests made while
// one is already pending are merged; it reports whether a new one was queued.
func (j *AddressJanitor) RequestSweep() bool {
	select {
	case j.Trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

func (j *AddressJanitor) sweep(ctx context.Context) {
	started := time.Now()
	n, err := j.Purger.PurgeOrphanAddresses(ctx)
	if err != nil {
		j.Log.Error("address janitor sweep failed", "deleted", n, "error", err)
		return
	}
	j.Log.Debug("address janitor sweep finished", "deleted", n, "took", time.Since(started).String())
}

// Stop signals Run to return. It does not wait for a running sweep.
func (j *AddressJanitor) Stop() {
	j.stopOnce.Do(func() { close(j.StopChan) })
}
