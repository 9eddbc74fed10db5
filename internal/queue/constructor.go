package queue

import (
	"github.com/linkplace/placeflow/internal/service"
)

type Queue struct {
	ps service.PlacementService
}

func NewQueue(ps service.PlacementService) *Queue {
	return &Queue{
		ps: ps,
	}
}

const TaskTypePublishPlacement = "placement:publish"

type PublishPlacementPayload struct {
	PlacementID int64 `json:"placement_id"`
}
