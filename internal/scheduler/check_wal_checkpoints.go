package scheduler

import (
	"context"
	"time"

	"github.com/aristath/stockcircle/internal/database"
	"github.com/rs/zerolog"
)

// CheckWALCheckpointsJob runs a passive WAL checkpoint on the client database and reports
// how large the log is.
type CheckWALCheckpointsJob struct {
	log zerolog.Logger
	db  *database.DB
}

// NewCheckWALCheckpointsJob creates a new CheckWALCheckpointsJob
func NewCheckWALCheckpointsJob(db *database.DB) *CheckWALCheckpointsJob {
	return &CheckWALCheckpointsJob{
		log: zerolog.Nop(),
		db:  db,
	}
}

// SetLogger sets the logger for the job
func (j *CheckWALCheckpointsJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *CheckWALCheckpointsJob) Name() string {
	return "check_wal_checkpoints"
}

// Run executes the check WAL checkpoints job
func (j *CheckWALCheckpointsJob) Run() error {
	if j.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := j.db.Checkpoint(ctx)
	if err != nil {
		j.log.Warn().Err(err).Str("database", j.db.Name()).Msg("Failed to check WAL checkpoint")
		return err
	}

	if res.LogFrames > 1000 {
		j.log.Warn().
			Str("database", j.db.Name()).
			Int("wal_frames", res.LogFrames).
			Int("checkpointed", res.Checkpointed).
			Msg("WAL file is large, checkpoint may be needed")
	} else {
		j.log.Debug().
			Str("database", j.db.Name()).
			Int("wal_frames", res.LogFrames).
			Msg("WAL checkpoint status OK")
	}

	return nil
}
