package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/forgedesk/forgedesk/internal/dashboard"
	jobmetrics "github.com/forgedesk/forgedesk/internal/jobs"
	"github.com/forgedesk/forgedesk/internal/snapshot"
)

// Archive persists summary captures; *snapshot.Repository satisfies this.
type Archive interface {
	Save(ctx context.Context, capturedAt time.Time, summary dashboard.Summary) (snapshot.Record, error)
}

// DashboardSnapshotJob archives the current summary once per capture run.
type DashboardSnapshotJob struct {
	Service *dashboard.Service
	Archive Archive
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewDashboardSnapshotJob wires dependencies for the snapshot handler.
func NewDashboardSnapshotJob(service *dashboard.Service, archive Archive, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardSnapshotJob {
	return &DashboardSnapshotJob{
		Service: service,
		Archive: archive,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard snapshot tasks.
func (j *DashboardSnapshotJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil || j.Archive == nil {
		return errors.New("dashboard snapshot: handler not configured")
	}
	var payload DashboardSnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskDashboardSnapshot)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	capturedAt := j.now()
	summary := j.Service.Load(runCtx)
	record, err := j.Archive.Save(runCtx, capturedAt, summary)
	if err != nil {
		resultErr = err
		j.logger().Error("archive summary", slog.Any("error", err))
		return resultErr
	}

	j.logger().Info("archived dashboard snapshot",
		slog.String("id", record.ID.String()),
		slog.Time("captured_at", record.CapturedAt))
	return resultErr
}

func (j *DashboardSnapshotJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardSnapshot))
	}
	return slog.Default().With(slog.String("job", TaskDashboardSnapshot))
}

func (j *DashboardSnapshotJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *DashboardSnapshotJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
