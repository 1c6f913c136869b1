package service

import (
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Sweeper is the heartbeat monitor: a single background goroutine that invokes
// Registry.SweepExpired on a fixed interval. It runs independently of the
// request-serving paths and a failed sweep never escapes the loop — a panic in
// one tick is logged and the next tick runs normally. Stopped via Stop() on
// shutdown.
type Sweeper struct {
	registry     interfaces.Registry
	timeProvider interfaces.TimeProvider
	interval     time.Duration
	logger       log.Logger
	metrics      *Metrics

	stop chan struct{}
	done chan struct{}
}

// NewSweeper creates the heartbeat monitor and starts its goroutine. Panics on nil registry/timeProvider/logger or non-positive interval.
//
// Parameters: registry — store to sweep; timeProvider — clock passed to SweepExpired (injectable for tests); interval — tick period (default 30s, one heartbeat interval); logger — logger; metrics — sweep counters (nil allowed — metrics are skipped).
//
// Returns: *Sweeper already running.
//
// Called from cmd/gateway when building the process.
func NewSweeper(
	registry interfaces.Registry,
	timeProvider interfaces.TimeProvider,
	interval time.Duration,
	logger log.Logger,
	metrics *Metrics,
) *Sweeper {
	if interval <= 0 {
		panic("service.sweeper.go: interval must be positive")
	}
	s := &Sweeper{
		registry:     helpers.NilPanic(registry, "service.sweeper.go: registry is required"),
		timeProvider: helpers.NilPanic(timeProvider, "service.sweeper.go: timeProvider is required"),
		interval:     interval,
		logger:       log.WithPrefix(helpers.NilPanic(logger, "service.sweeper.go: logger is required"), "component", "sweeper"),
		metrics:      metrics,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go s.loop()
	return s
}

// loop runs Tick every interval until Stop is called.
//
// Called only from NewSweeper in a separate goroutine.
func (s *Sweeper) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-s.stop:
			return
		}
	}
}

// Tick performs one sweep: calls SweepExpired with the current time, records
// metrics and logs when anything was flagged or evicted. A panic inside the
// sweep is recovered and logged so the loop keeps running.
//
// Called from loop on timer; exported so tests can drive sweeps without sleeping.
func (s *Sweeper) Tick() {
	defer func() {
		if rec := recover(); rec != nil {
			level.Error(s.logger).Log("msg", "sweep panicked", "panic", rec)
		}
	}()
	flagged, evicted := s.registry.SweepExpired(s.timeProvider.Now())
	if s.metrics != nil {
		s.metrics.SweepFlagged.Add(float64(flagged))
		s.metrics.SweepEvicted.Add(float64(evicted))
	}
	if flagged > 0 || evicted > 0 {
		level.Info(s.logger).Log("msg", "sweep completed", "flagged", flagged, "evicted", evicted)
	}
}

// Stop terminates the sweep loop and waits for the goroutine to exit. Idempotent is not required — call once from shutdown.
//
// Called from cmd/gateway via defer on graceful shutdown.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
