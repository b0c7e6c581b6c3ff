package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/stockcircle/internal/events"
	"github.com/rs/zerolog"
)

// Pinger checks that the backend answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendHealthProbeJob pings the backend and emits BACKEND_STATUS_CHANGED whenever
// reachability flips. The first run always emits.
type BackendHealthProbeJob struct {
	log     zerolog.Logger
	pinger  Pinger
	bus     *events.Bus
	timeout time.Duration

	mu        sync.Mutex
	checked   bool
	reachable bool
}

// NewBackendHealthProbeJob creates a new BackendHealthProbeJob
func NewBackendHealthProbeJob(pinger Pinger, bus *events.Bus, timeout time.Duration) *BackendHealthProbeJob {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BackendHealthProbeJob{
		log:     zerolog.Nop(),
		pinger:  pinger,
		bus:     bus,
		timeout: timeout,
	}
}

// SetLogger sets the logger for the job
func (j *BackendHealthProbeJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *BackendHealthProbeJob) Name() string {
	return "backend_health_probe"
}

// Run pings the backend once. An unreachable backend is a reported state, not a job failure.
func (j *BackendHealthProbeJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	err := j.pinger.Ping(ctx)
	reachable := err == nil

	j.mu.Lock()
	changed := !j.checked || j.reachable != reachable
	j.checked = true
	j.reachable = reachable
	j.mu.Unlock()

	if !changed {
		j.log.Debug().Bool("reachable", reachable).Msg("Backend status unchanged")
		return nil
	}

	data := &events.BackendStatusChangedData{Reachable: reachable}
	if err != nil {
		data.Error = err.Error()
		j.log.Warn().Err(err).Msg("Backend became unreachable")
	} else {
		j.log.Info().Msg("Backend reachable")
	}
	if j.bus != nil {
		j.bus.Emit("scheduler", data)
	}
	return nil
}
