package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
	"github.com/linkplace/placeflow/internal/service"
)

type ExpiryJob struct {
	pl repository.PlacementRepository
	pr repository.ProjectRepository
	ps service.PlacementService
}

func NewExpiryJob(
	pl repository.PlacementRepository,
	pr repository.ProjectRepository,
	ps service.PlacementService) *ExpiryJob {
	return &ExpiryJob{
		pl: pl,
		pr: pr,
		ps: ps,
	}
}

// SweepExpired finds link placements past their expiry. Auto-renewal
// placements are renewed on the owner's account; if the renewal fails, for
// instance on an empty balance, the placement expires like any other.
func (c *ExpiryJob) SweepExpired() {
	ctx := context.Background()

	placements, err := c.pl.ListExpired(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, p := range placements {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(p *models.Placement) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if p.AutoRenewal {
				project, found, err := c.pr.GetByID(ctx, p.ProjectID)
				if err != nil || !found {
					slog.Info("Unable to resolve project for auto-renewal")
					return
				}

				_, err = c.ps.Renew(ctx, project.UserID, p.ID)
				if err == nil {
					return
				}
				slog.Info("Auto-renewal failed, expiring placement")
			}

			if err := c.ps.Expire(ctx, p.ID); err != nil {
				slog.Info("Unable to expire placement")
			}
		}(p)
	}

	wg.Wait()
}
