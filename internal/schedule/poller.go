package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/smoothbar/studio-backend/pkg/logging"
)

// StatusPoller recomputes the open/closed status on a fixed period and holds
// the latest result in an atomic snapshot, so status reads never compute on
// the request path.
type StatusPoller struct {
	hours    WeeklyHours
	loc      *time.Location
	period   time.Duration
	logger   *logging.Logger
	now      func() time.Time
	snapshot atomic.Value // OpenStatus
}

func NewStatusPoller(hours WeeklyHours, loc *time.Location, period time.Duration, logger *logging.Logger) *StatusPoller {
	if logger == nil {
		logger = logging.Default()
	}
	if period <= 0 {
		period = time.Minute
	}
	p := &StatusPoller{
		hours:  hours,
		loc:    loc,
		period: period,
		logger: logger.Component("status"),
		now:    time.Now,
	}
	p.refresh()
	return p
}

// Status returns the last computed open/closed snapshot.
func (p *StatusPoller) Status() OpenStatus {
	return p.snapshot.Load().(OpenStatus)
}

func (p *StatusPoller) refresh() {
	p.snapshot.Store(ComputeStatus(p.hours, p.now(), p.loc))
}

// Run recomputes the status every period until ctx is cancelled. It is meant
// to be started once from main.
func (p *StatusPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	p.logger.Info("status poller started", "period", p.period.String())
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("status poller stopped")
			return
		case <-ticker.C:
			p.refresh()
		}
	}
}
