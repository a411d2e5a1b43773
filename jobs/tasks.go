package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup pre-populates the dashboard summary cache.
	TaskDashboardWarmup = "dashboard:warmup"
	// TaskDashboardSnapshot archives the current summary to Postgres.
	TaskDashboardSnapshot = "dashboard:snapshot"
)

// DashboardWarmupPayload describes a warmup run.
type DashboardWarmupPayload struct {
	Reason string `json:"reason"`
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(DashboardWarmupPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

// DashboardSnapshotPayload describes a snapshot capture run.
type DashboardSnapshotPayload struct {
	Reason string `json:"reason"`
}

// NewDashboardSnapshotTask constructs an Asynq task.
func NewDashboardSnapshotTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(DashboardSnapshotPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardSnapshot, data), nil
}
