package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/stockcircle/internal/database"
	"github.com/rs/zerolog"
)

// CheckClientDatabaseJob verifies integrity of the client storage database
type CheckClientDatabaseJob struct {
	log zerolog.Logger
	db  *database.DB
}

// NewCheckClientDatabaseJob creates a new CheckClientDatabaseJob
func NewCheckClientDatabaseJob(db *database.DB) *CheckClientDatabaseJob {
	return &CheckClientDatabaseJob{
		log: zerolog.Nop(),
		db:  db,
	}
}

// SetLogger sets the logger for the job
func (j *CheckClientDatabaseJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *CheckClientDatabaseJob) Name() string {
	return "check_client_database"
}

// Run executes the integrity check
func (j *CheckClientDatabaseJob) Run() error {
	if j.db == nil {
		j.log.Warn().Msg("Database not initialized, skipping")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.db.HealthCheck(ctx); err != nil {
		// Corruption cannot be repaired automatically; the session can always be re-created by logging in
		j.log.Error().
			Err(err).
			Str("database", j.db.Name()).
			Msg("Client database integrity check failed")
		return fmt.Errorf("database %s is unhealthy: %w", j.db.Name(), err)
	}

	j.log.Debug().Str("database", j.db.Name()).Msg("Database integrity OK")
	return nil
}
