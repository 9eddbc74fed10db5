package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linkplace/placeflow/internal/apperr"
	"github.com/linkplace/placeflow/internal/cache"
	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
	"github.com/linkplace/placeflow/internal/transfer"
	"github.com/linkplace/placeflow/pkg/utils"
)

type SiteService interface {
	Register(ctx context.Context, userID int64, sr *transfer.SiteRegistration) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.Site, error)
	Remove(ctx context.Context, requestingUserID, siteID int64) error
}

type siteService struct {
	db        *sql.DB
	lock      repository.LockRepository
	site      repository.SiteRepository
	pl        repository.PlacementRepository
	plc       repository.PlacementContentRepository
	link      repository.LinkRepository
	article   repository.ArticleRepository
	proj      repository.ProjectRepository
	user      repository.UserRepository
	audit     repository.AuditRepository
	billing   *BillingLedger
	gateway   PublishingGateway
	inv       CacheInvalidator
	secretKey string
}

func NewSiteService(
	db *sql.DB,
	lock repository.LockRepository,
	site repository.SiteRepository,
	pl repository.PlacementRepository,
	plc repository.PlacementContentRepository,
	link repository.LinkRepository,
	article repository.ArticleRepository,
	proj repository.ProjectRepository,
	user repository.UserRepository,
	audit repository.AuditRepository,
	billing *BillingLedger,
	gateway PublishingGateway,
	inv CacheInvalidator,
	secretKey string) SiteService {
	return &siteService{
		db:        db,
		lock:      lock,
		site:      site,
		pl:        pl,
		plc:       plc,
		link:      link,
		article:   article,
		proj:      proj,
		user:      user,
		audit:     audit,
		billing:   billing,
		gateway:   gateway,
		inv:       inv,
		secretKey: secretKey,
	}
}

func (s *siteService) Register(ctx context.Context, userID int64, sr *transfer.SiteRegistration) (int64, error) {
	if sr == nil || sr.BaseURL == "" {
		err := apperr.New(apperr.KindValidation, "site base URL is required")
		slog.Info(err.Error())
		return 0, err
	}
	if sr.Kind != models.SiteKindCMS && sr.Kind != models.SiteKindStatic {
		err := apperr.New(apperr.KindValidation, "site kind must be cms or static")
		slog.Info(err.Error())
		return 0, err
	}
	if sr.Kind == models.SiteKindCMS && sr.Credential == "" {
		err := apperr.New(apperr.KindValidation, "cms sites need a credential")
		slog.Info(err.Error())
		return 0, err
	}
	if err := utils.CheckTargetHost(sr.BaseURL); err != nil {
		slog.Info(err.Error())
		return 0, apperr.Wrap(apperr.KindValidation, "site base URL is not allowed", err)
	}

	credential := ""
	if sr.Credential != "" {
		encrypted, err := utils.Encrypt([]byte(sr.Credential), []byte(s.secretKey))
		if err != nil {
			return 0, fmt.Errorf("error encrypting site credential: %w", err)
		}
		credential = encrypted
	}

	id, err := s.site.Create(ctx, &models.Site{
		UserID:       userID,
		BaseURL:      strings.TrimRight(sr.BaseURL, "/"),
		Kind:         sr.Kind,
		Credential:   credential,
		MaxLinks:     sr.MaxLinks,
		MaxArticles:  sr.MaxArticles,
		LinkPrice:    sr.LinkPrice,
		ArticlePrice: sr.ArticlePrice,
	})
	if err != nil {
		return 0, fmt.Errorf("error registering site: %w", err)
	}
	return id, nil
}

func (s *siteService) List(ctx context.Context, userID int64) ([]*models.Site, error) {
	sites, err := s.site.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing sites: %w", err)
	}
	return sites, nil
}

// Remove runs the site deletion cascade in a single transaction: best-effort
// remote cleanup, a full refund per paid placement, quota zeroing, the site
// hard-delete, and an audit row. Remote deletion failures never abort the
// cascade, the local ledger is authoritative.
func (s *siteService) Remove(ctx context.Context, requestingUserID, siteID int64) (err error) {
	site, found, err := s.site.GetByID(ctx, siteID)
	if err != nil {
		return err
	}
	if !found {
		err = apperr.New(apperr.KindNotFound, "site not found")
		slog.Info(err.Error())
		return err
	}

	requester, found, err := s.user.GetByID(ctx, requestingUserID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	if requester.Role != models.RoleAdmin && site.UserID != requestingUserID {
		err = apperr.New(apperr.KindUnauthorized, "site belongs to another user")
		slog.Info(err.Error())
		return err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to start transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	site, err = s.site.GetForUpdate(ctx, tx, siteID)
	if err != nil {
		return fmt.Errorf("error locking site: %w", err)
	}
	if site == nil {
		err = apperr.New(apperr.KindNotFound, "site not found")
		return err
	}

	placements, err := s.pl.ListBySite(ctx, tx, siteID)
	if err != nil {
		return fmt.Errorf("error listing site placements: %w", err)
	}

	remoteFailures := s.removeRemoteArticles(ctx, site, placements)

	affectedUsers := make(map[int64]struct{})
	refunded := int64(0)
	tierChanges := 0

	for _, placement := range placements {
		if err = s.lock.AcquirePairLock(ctx, tx, placement.ProjectID, placement.SiteID); err != nil {
			return apperr.Wrap(apperr.KindTransient, "failed to acquire pair lock", err)
		}

		project, found, projErr := s.proj.GetByID(ctx, placement.ProjectID)
		if projErr != nil {
			err = projErr
			return err
		}
		if !found {
			err = apperr.New(apperr.KindNotFound, "project not found for placement")
			return err
		}

		contents, listErr := s.plc.ListByPlacement(ctx, tx, placement.ID)
		if listErr != nil {
			err = fmt.Errorf("error reading placement content: %w", listErr)
			return err
		}

		if err = s.pl.Remove(ctx, tx, placement.ID); err != nil {
			err = fmt.Errorf("error deleting placement: %w", err)
			return err
		}

		for _, pc := range contents {
			switch {
			case pc.LinkID.Valid:
				if err = s.link.AddUsage(ctx, tx, pc.LinkID.Int64, -1); err != nil {
					err = fmt.Errorf("error releasing link usage: %w", err)
					return err
				}
			case pc.ArticleID.Valid:
				if err = s.article.AddUsage(ctx, tx, pc.ArticleID.Int64, -1); err != nil {
					err = fmt.Errorf("error releasing article usage: %w", err)
					return err
				}
			}
		}

		if placement.FinalPrice > 0 {
			tierChanged, refundErr := s.billing.Refund(ctx, tx, project.UserID, placement.FinalPrice, sql.NullInt64{Int64: placement.ID, Valid: true})
			if refundErr != nil {
				err = refundErr
				return err
			}
			refunded += placement.FinalPrice
			if tierChanged {
				tierChanges++
			}
		}

		affectedUsers[project.UserID] = struct{}{}
	}

	if err = s.site.ZeroUsage(ctx, tx, siteID); err != nil {
		return fmt.Errorf("error zeroing site quota: %w", err)
	}

	if err = s.site.Remove(ctx, tx, siteID); err != nil {
		return fmt.Errorf("error deleting site: %w", err)
	}

	_, err = s.audit.Create(ctx, tx, &models.SiteDeletionAudit{
		SiteID:               siteID,
		SiteBaseURL:          site.BaseURL,
		PlacementsRemoved:    len(placements),
		AmountRefunded:       refunded,
		TierChanges:          tierChanges,
		RemoteDeleteFailures: remoteFailures,
	})
	if err != nil {
		return fmt.Errorf("error writing deletion audit: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to commit transaction", err)
	}

	for userID := range affectedUsers {
		if invErr := s.inv.Invalidate(ctx, cache.UserPlacementsPattern(userID)); invErr != nil {
			slog.Info(invErr.Error())
		}
	}
	if invErr := s.inv.Invalidate(ctx, cache.UserPlacementsPattern(site.UserID)); invErr != nil {
		slog.Info(invErr.Error())
	}
	if invErr := s.inv.Invalidate(ctx, cache.SiteContentPattern(siteID)); invErr != nil {
		slog.Info(invErr.Error())
	}
	return nil
}

// removeRemoteArticles asks the CMS to drop each published article.
// Best-effort: failures are logged and counted, never fatal.
func (s *siteService) removeRemoteArticles(ctx context.Context, site *models.Site, placements []*models.Placement) int {
	if site.Kind != models.SiteKindCMS {
		return 0
	}

	credential, err := utils.Decrypt(site.Credential, []byte(s.secretKey))
	if err != nil {
		slog.Error(err.Error())
		return countRemoteArticles(placements)
	}

	failures := 0
	for _, placement := range placements {
		if !placement.RemotePostID.Valid {
			continue
		}
		if err := s.gateway.Delete(ctx, site.BaseURL, credential, placement.RemotePostID.String); err != nil {
			slog.Error(fmt.Sprintf("remote delete failed for placement %d: %v", placement.ID, err))
			failures++
		}
	}
	return failures
}

func countRemoteArticles(placements []*models.Placement) int {
	count := 0
	for _, placement := range placements {
		if placement.RemotePostID.Valid {
			count++
		}
	}
	return count
}
