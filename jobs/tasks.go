package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskEntriesEffectuate flips due projected entries to effective.
	TaskEntriesEffectuate = "entries:effectuate"
)

// EffectuatePayload describes one effectuation run.
type EffectuatePayload struct {
	RunID uuid.UUID `json:"runId"`
	AsOf  string    `json:"asOf"`
}

// NewEffectuateTask constructs an effectuation task for the given cutoff
// date. An empty asOf is resolved to "today" when the task runs, which is
// what cron registrations want.
func NewEffectuateTask(asOf string) (*asynq.Task, error) {
	data, err := json.Marshal(EffectuatePayload{RunID: uuid.New(), AsOf: asOf})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEntriesEffectuate, data), nil
}
