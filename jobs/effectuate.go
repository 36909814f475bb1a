package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// EntryEffectuator is the slice of the entry store the job needs.
type EntryEffectuator interface {
	EffectuateDue(ctx context.Context, asOf string) (int64, error)
}

// CacheBumper invalidates cached balances after entries change status.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// EffectuateJob promotes projected entries whose competency date has passed.
type EffectuateJob struct {
	entries EntryEffectuator
	cache   CacheBumper
	logger  *slog.Logger
}

// NewEffectuateJob constructs the job.
func NewEffectuateJob(entries EntryEffectuator, cache CacheBumper, logger *slog.Logger) *EffectuateJob {
	return &EffectuateJob{entries: entries, cache: cache, logger: logger}
}

// Handle processes TaskEntriesEffectuate tasks.
func (j *EffectuateJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload EffectuatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	asOf := payload.AsOf
	if asOf == "" {
		asOf = time.Now().UTC().Format("2006-01-02")
	}
	touched, err := j.entries.EffectuateDue(ctx, asOf)
	if err != nil {
		return err
	}
	if touched > 0 && j.cache != nil {
		if err := j.cache.Bump(ctx); err != nil {
			j.logger.Warn("bump balance cache", slog.Any("error", err))
		}
	}
	j.logger.Info("effectuated due entries",
		slog.String("run_id", payload.RunID.String()),
		slog.String("as_of", asOf),
		slog.Int64("touched", touched))
	return nil
}
