// Package progress reports throughput and estimated completion for long
// pipeline runs. Dense OSM extracts take minutes to thin; the reporter keeps
// the operator informed without the stages themselves knowing about logging.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/tilecraft/shieldgen/internal/logging"
)

// Reporter tracks completed units against a total and periodically logs the
// rate and a wall-clock estimate of the time remaining.
type Reporter struct {
	mu    sync.Mutex
	label string
	total int
	done  int
	start time.Time

	every time.Duration
	log   logging.Logger
	stop  chan struct{}
	once  sync.Once
}

// NewReporter constructs a reporter for total units of work, logging every
// interval once started.
func NewReporter(log logging.Logger, label string, total int, every time.Duration) *Reporter {
	if log == nil {
		log = logging.Noop()
	}
	if every <= 0 {
		every = 10 * time.Second
	}
	return &Reporter{
		label: label,
		total: total,
		start: time.Now(),
		every: every,
		log:   log,
		stop:  make(chan struct{}),
	}
}

// Add records n more completed units.
func (r *Reporter) Add(n int) {
	r.mu.Lock()
	r.done += n
	r.mu.Unlock()
}

// Snapshot returns completed units and the estimated remaining duration.
// The estimate is zero until at least one unit has completed.
func (r *Reporter) Snapshot() (done int, remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done, r.estimate()
}

// estimate must be called with mu held.
func (r *Reporter) estimate() time.Duration {
	if r.done <= 0 || r.total <= r.done {
		return 0
	}
	elapsed := time.Since(r.start)
	perUnit := elapsed / time.Duration(r.done)
	return perUnit * time.Duration(r.total-r.done)
}

// Start launches the periodic logging loop. Stop must be called to end it.
func (r *Reporter) Start() {
	go func() {
		ticker := time.NewTicker(r.every)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.report()
			}
		}
	}()
}

// Stop ends the logging loop and emits a final summary line.
func (r *Reporter) Stop() {
	r.once.Do(func() {
		close(r.stop)
		r.report()
	})
}

func (r *Reporter) report() {
	r.mu.Lock()
	done := r.done
	total := r.total
	remaining := r.estimate()
	elapsed := time.Since(r.start)
	r.mu.Unlock()

	r.log.Info(context.Background(), "progress",
		logging.String("stage", r.label),
		logging.Int("done", done),
		logging.Int("total", total),
		logging.String("elapsed", elapsed.Round(time.Second).String()),
		logging.String("remaining", remaining.Round(time.Second).String()),
	)
}
