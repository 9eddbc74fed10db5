package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"

	"github.com/linkplace/placeflow/internal/apperr"
)

func (j *Queue) HandlePublishPlacementTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPlacementPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	err := j.ps.PublishScheduled(ctx, payload.PlacementID)
	if err != nil {
		log.Printf("Error publishing placement %d: %v", payload.PlacementID, err)
		// Transient failures go back on the queue. Anything else is final and
		// already recorded on the placement row.
		if apperr.Retryable(err) {
			return err
		}
		return nil
	}

	return nil
}
