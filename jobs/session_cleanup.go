package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/gatewarden/gatewarden/internal/jobs"
)

// SessionStore is the slice of the auth repository the cleanup job needs.
type SessionStore interface {
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// SessionCleanupJob purges expired session bookkeeping rows. Redis evicts the
// live session payloads on its own via TTL; this only trims the audit trail in
// PostgreSQL.
type SessionCleanupJob struct {
	Store   SessionStore
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSessionCleanupJob initialises the cleanup handler.
func NewSessionCleanupJob(store SessionStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionCleanupJob {
	return &SessionCleanupJob{
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the session cleanup logic.
func (j *SessionCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("session cleanup: handler not configured")
	}
	var payload SessionCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.GraceHours < 0 {
		payload.GraceHours = 0
	}

	tracker := j.metrics().Track(TaskSessionCleanup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	cutoff := j.now().Add(-time.Duration(payload.GraceHours) * time.Hour)
	removed, err := j.Store.DeleteExpiredSessions(ctx, cutoff)
	if err != nil {
		resultErr = err
		j.logger().Error("cleanup failed", slog.Any("error", err))
		return resultErr
	}

	j.logger().Info("expired sessions purged",
		slog.Int64("removed", removed),
		slog.Time("cutoff", cutoff),
	)
	return resultErr
}

func (j *SessionCleanupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSessionCleanup))
	}
	return slog.Default().With(slog.String("job", TaskSessionCleanup))
}

func (j *SessionCleanupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *SessionCleanupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
