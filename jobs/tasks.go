package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/quotebill/quotebill/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMarkOverdue flags unpaid bills past their due date.
	TaskMarkOverdue = "bills:mark_overdue"

	overdueJobName = "bills_mark_overdue"
)

// MarkOverduePayload describes who asked for a sweep.
type MarkOverduePayload struct {
	Trigger string `json:"trigger"`
}

// NewMarkOverdueTask constructs an Asynq task.
func NewMarkOverdueTask(payload MarkOverduePayload) (*asynq.Task, error) {
	if payload.Trigger == "" {
		payload.Trigger = "cron"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMarkOverdue, data), nil
}

// OverdueMarker is satisfied by documents.Service.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// MarkOverdueJob runs the overdue sweep for TaskMarkOverdue.
type MarkOverdueJob struct {
	marker  OverdueMarker
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewMarkOverdueJob builds the handler. metrics may be nil.
func NewMarkOverdueJob(marker OverdueMarker, logger *slog.Logger, metrics *jobmetrics.Metrics) *MarkOverdueJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkOverdueJob{marker: marker, logger: logger, metrics: metrics}
}

// Handle processes TaskMarkOverdue tasks.
func (j *MarkOverdueJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload MarkOverduePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TaskMarkOverdue, err, asynq.SkipRetry)
		}
	}
	tracker := j.metrics.Track(overdueJobName)
	count, err := j.marker.MarkOverdue(ctx)
	if err != nil {
		j.logger.Error("mark overdue bills", slog.String("trigger", payload.Trigger), slog.Any("error", err))
		return tracker.End(err)
	}
	j.metrics.AddOverdue(count)
	j.logger.Info("overdue sweep finished",
		slog.String("job", overdueJobName),
		slog.String("trigger", payload.Trigger),
		slog.Int64("updated", count),
	)
	return tracker.End(nil)
}
