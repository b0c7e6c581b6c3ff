// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/aristath/stockcircle/internal/config"
	"github.com/aristath/stockcircle/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the maintenance jobs and registers them with a new scheduler.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	jobLog := log.With().Str("component", "job").Logger()

	probe := scheduler.NewBackendHealthProbeJob(container.Backend, container.Bus, cfg.BackendTimeout)
	probe.SetLogger(jobLog)

	wal := scheduler.NewCheckWALCheckpointsJob(container.DB)
	wal.SetLogger(jobLog)

	integrity := scheduler.NewCheckClientDatabaseJob(container.DB)
	integrity.SetLogger(jobLog)

	for _, entry := range []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.HealthProbeSchedule, probe},
		{cfg.WALCheckpointSchedule, wal},
		{cfg.IntegrityCheckSchedule, integrity},
	} {
		if err := sched.AddJob(entry.schedule, entry.job); err != nil {
			return nil, fmt.Errorf("failed to register job %s: %w", entry.job.Name(), err)
		}
	}

	container.Scheduler = sched
	return &JobInstances{
		BackendHealthProbe:  probe,
		CheckWALCheckpoints: wal,
		CheckClientDatabase: integrity,
	}, nil
}
