package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkplace/placeflow/internal/apperr"
	"github.com/linkplace/placeflow/internal/cache"
	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
	"github.com/linkplace/placeflow/internal/transfer"
	"github.com/linkplace/placeflow/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Link placements run for a fixed period and can be renewed; published
	// articles stay up until deleted.
	linkPlacementDuration = 30 * 24 * time.Hour
	renewalPeriod         = 30 * 24 * time.Hour

	// Site owners renew links on their own sites at half rate.
	ownerRateDivisor = 2

	scheduledTimeLayout = "2006-01-02T15:04"
)

// PlacementResult reports the committed outcome of a creation.
type PlacementResult struct {
	PlacementID int64
	Status      string
	FinalPrice  int64
	Delay       time.Duration
}

type PlacementService interface {
	Create(ctx context.Context, userID int64, pc *transfer.PlacementCreation) (*PlacementResult, error)
	Remove(ctx context.Context, requestingUserID, placementID int64) error
	Renew(ctx context.Context, userID, placementID int64) (int64, error)
	PublishScheduled(ctx context.Context, placementID int64) error
	Expire(ctx context.Context, placementID int64) error
	List(ctx context.Context, userID int64) ([]*models.Placement, error)
}

type placementService struct {
	db        *sql.DB
	lock      repository.LockRepository
	site      repository.SiteRepository
	link      repository.LinkRepository
	article   repository.ArticleRepository
	pl        repository.PlacementRepository
	plc       repository.PlacementContentRepository
	proj      repository.ProjectRepository
	user      repository.UserRepository
	billing   *BillingLedger
	gateway   PublishingGateway
	inv       CacheInvalidator
	secretKey string
}

func NewPlacementService(
	db *sql.DB,
	lock repository.LockRepository,
	site repository.SiteRepository,
	link repository.LinkRepository,
	article repository.ArticleRepository,
	pl repository.PlacementRepository,
	plc repository.PlacementContentRepository,
	proj repository.ProjectRepository,
	user repository.UserRepository,
	billing *BillingLedger,
	gateway PublishingGateway,
	inv CacheInvalidator,
	secretKey string) PlacementService {
	return &placementService{
		db:        db,
		lock:      lock,
		site:      site,
		link:      link,
		article:   article,
		pl:        pl,
		plc:       plc,
		proj:      proj,
		user:      user,
		billing:   billing,
		gateway:   gateway,
		inv:       inv,
		secretKey: secretKey,
	}
}

// Create runs the whole purchase as one transaction under the pair lock:
// exclusivity check, quota and usage reservation, payment, and (for articles)
// the remote publish. Any failure rolls everything back except a mixed publish
// outcome, which commits as partial_fail.
func (s *placementService) Create(ctx context.Context, userID int64, pc *transfer.PlacementCreation) (result *PlacementResult, err error) {
	if pc == nil {
		err = apperr.New(apperr.KindValidation, "placement creation data is nil")
		slog.Info(err.Error())
		return nil, err
	}
	if len(pc.LinkIDs) > 1 || len(pc.ArticleIDs) > 1 {
		err = apperr.New(apperr.KindValidation, "a placement carries at most one link and one article")
		slog.Info(err.Error())
		return nil, err
	}
	if len(pc.LinkIDs) == 0 && len(pc.ArticleIDs) == 0 {
		err = apperr.New(apperr.KindValidation, "no content selected for placement")
		slog.Info(err.Error())
		return nil, err
	}

	var scheduledFor sql.NullTime
	if pc.ScheduledPublishDate != "" {
		t, parseErr := time.Parse(scheduledTimeLayout, pc.ScheduledPublishDate)
		if parseErr != nil {
			err = apperr.Wrap(apperr.KindValidation, "invalid scheduled publish date", parseErr)
			slog.Info(err.Error())
			return nil, err
		}
		scheduledFor = sql.NullTime{Time: t, Valid: true}
	}

	// Ownership is an unlocked read taken before the transaction begins.
	owns, err := s.proj.CheckByUserID(ctx, pc.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !owns {
		err = apperr.New(apperr.KindUnauthorized, "project does not belong to user")
		slog.Info(err.Error())
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "failed to start transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.lock.AcquirePairLock(ctx, tx, pc.ProjectID, pc.SiteID); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "failed to acquire pair lock", err)
	}

	// One placement per (project, site) pair for the pair's lifetime.
	attached, err := s.plc.CountByPair(ctx, tx, pc.ProjectID, pc.SiteID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing placement content: %w", err)
	}
	if attached > 0 {
		err = apperr.New(apperr.KindAlreadyPlaced, "site already carries a placement for this project")
		slog.Info(err.Error())
		return nil, err
	}

	site, err := s.site.GetForUpdate(ctx, tx, pc.SiteID)
	if err != nil {
		return nil, fmt.Errorf("error locking site: %w", err)
	}
	if site == nil {
		err = apperr.New(apperr.KindNotFound, "site not found")
		return nil, err
	}

	if len(pc.LinkIDs) > 0 && site.UsedLinks >= site.MaxLinks {
		err = apperr.New(apperr.KindQuotaExhausted, "site link quota exhausted")
		slog.Info(err.Error())
		return nil, err
	}
	if len(pc.ArticleIDs) > 0 {
		if site.Kind != models.SiteKindCMS {
			err = apperr.New(apperr.KindValidation, "static sites only carry links")
			slog.Info(err.Error())
			return nil, err
		}
		if site.UsedArticles >= site.MaxArticles {
			err = apperr.New(apperr.KindQuotaExhausted, "site article quota exhausted")
			slog.Info(err.Error())
			return nil, err
		}
	}

	placementType := models.PlacementTypeLink
	if len(pc.ArticleIDs) > 0 {
		placementType = models.PlacementTypeArticle
	}

	// A row with zero content can be left behind by a prior partial run; reuse
	// it instead of inserting a second row for the pair.
	var placementID int64
	existing, err := s.pl.FindByPair(ctx, tx, pc.ProjectID, pc.SiteID)
	if err != nil {
		return nil, fmt.Errorf("error looking up placement: %w", err)
	}
	if existing != nil {
		placementID = existing.ID
	} else {
		placementID, err = s.pl.Create(ctx, tx, &models.Placement{
			ProjectID:            pc.ProjectID,
			SiteID:               pc.SiteID,
			Type:                 placementType,
			Status:               models.PlacementStatusPending,
			ScheduledPublishDate: scheduledFor,
			AutoRenewal:          pc.AutoRenewal,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating placement: %w", err)
		}
	}

	originalPrice := int64(0)
	addedLinks, addedArticles := 0, 0
	var articleToPublish *models.ProjectArticle

	for _, linkID := range pc.LinkIDs {
		link, lockErr := s.link.GetForUpdate(ctx, tx, linkID)
		if lockErr != nil {
			err = fmt.Errorf("error locking link %d: %w", linkID, lockErr)
			return nil, err
		}
		if link == nil || link.ProjectID != pc.ProjectID {
			err = apperr.New(apperr.KindNotFound, "link not found in project")
			return nil, err
		}
		if link.Status == models.ContentStatusExhausted || link.UsageCount >= link.UsageLimit {
			err = apperr.New(apperr.KindContentExhausted, "link usage limit reached")
			slog.Info(err.Error())
			return nil, err
		}

		added, attachErr := s.attachContent(ctx, tx, placementID, sql.NullInt64{Int64: link.ID, Valid: true}, sql.NullInt64{})
		if attachErr != nil {
			err = attachErr
			return nil, err
		}
		if added {
			if err = s.link.AddUsage(ctx, tx, link.ID, 1); err != nil {
				return nil, fmt.Errorf("error incrementing link usage: %w", err)
			}
			addedLinks++
		}
		originalPrice += site.LinkPrice
	}

	for _, articleID := range pc.ArticleIDs {
		article, lockErr := s.article.GetForUpdate(ctx, tx, articleID)
		if lockErr != nil {
			err = fmt.Errorf("error locking article %d: %w", articleID, lockErr)
			return nil, err
		}
		if article == nil || article.ProjectID != pc.ProjectID {
			err = apperr.New(apperr.KindNotFound, "article not found in project")
			return nil, err
		}
		if article.Status == models.ContentStatusExhausted || article.UsageCount >= article.UsageLimit {
			err = apperr.New(apperr.KindContentExhausted, "article usage limit reached")
			slog.Info(err.Error())
			return nil, err
		}

		added, attachErr := s.attachContent(ctx, tx, placementID, sql.NullInt64{}, sql.NullInt64{Int64: article.ID, Valid: true})
		if attachErr != nil {
			err = attachErr
			return nil, err
		}
		if added {
			if err = s.article.AddUsage(ctx, tx, article.ID, 1); err != nil {
				return nil, fmt.Errorf("error incrementing article usage: %w", err)
			}
			addedArticles++
		}
		originalPrice += site.ArticlePrice
		articleToPublish = article
	}

	if addedLinks > 0 || addedArticles > 0 {
		if err = s.site.AddUsage(ctx, tx, site.ID, addedLinks, addedArticles); err != nil {
			return nil, fmt.Errorf("error updating site quota: %w", err)
		}
	}

	discount, finalPrice, err := s.billing.Purchase(ctx, tx, userID, originalPrice, sql.NullInt64{Int64: placementID, Valid: true})
	if err != nil {
		return nil, err
	}
	if err = s.pl.UpdatePricing(ctx, tx, placementID, originalPrice, discount, finalPrice); err != nil {
		return nil, fmt.Errorf("error storing placement pricing: %w", err)
	}

	status := models.PlacementStatusPlaced
	var delay time.Duration

	switch {
	case articleToPublish == nil:
		// Links need no external publish step.
		expires := sql.NullTime{Time: time.Now().Add(linkPlacementDuration), Valid: true}
		if err = s.pl.MarkPlaced(ctx, tx, placementID, sql.NullString{}, expires); err != nil {
			return nil, fmt.Errorf("error marking placement placed: %w", err)
		}

	case scheduledFor.Valid && scheduledFor.Time.After(time.Now()):
		status = models.PlacementStatusScheduled
		delay = time.Until(scheduledFor.Time)
		if err = s.pl.UpdateStatus(ctx, tx, placementID, status); err != nil {
			return nil, fmt.Errorf("error scheduling placement: %w", err)
		}

	default:
		status, err = s.publishArticles(ctx, tx, placementID, site, []*models.ProjectArticle{articleToPublish})
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "failed to commit transaction", err)
	}

	s.invalidateCaches(ctx, userID, site.ID)

	return &PlacementResult{
		PlacementID: placementID,
		Status:      status,
		FinalPrice:  finalPrice,
		Delay:       delay,
	}, nil
}

// attachContent inserts the junction row unless it already exists, so a
// retried request never double-counts usage.
func (s *placementService) attachContent(ctx context.Context, tx *sql.Tx, placementID int64, linkID, articleID sql.NullInt64) (bool, error) {
	exists, err := s.plc.Exists(ctx, tx, placementID, linkID, articleID)
	if err != nil {
		return false, fmt.Errorf("error checking placement content: %w", err)
	}
	if exists {
		return false, nil
	}

	err = s.plc.Attach(ctx, tx, &models.PlacementContent{
		PlacementID: placementID,
		LinkID:      linkID,
		ArticleID:   articleID,
	})
	if err != nil {
		return false, fmt.Errorf("error attaching content: %w", err)
	}
	return true, nil
}

// publishArticles calls the gateway once per article. All failing rolls the
// transaction back; a mixed outcome commits as partial_fail. Only one article
// per placement is allowed today, so the mixed branch is kept for the day
// multi-article placements arrive.
func (s *placementService) publishArticles(ctx context.Context, tx *sql.Tx, placementID int64, site *models.Site, articles []*models.ProjectArticle) (string, error) {
	credential, err := utils.Decrypt(site.Credential, []byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("error decrypting site credential: %w", err)
	}

	var remoteID string
	var publishErrs []error
	published := 0

	for _, article := range articles {
		slug, idErr := gonanoid.New()
		if idErr != nil {
			return "", fmt.Errorf("error generating slug: %w", idErr)
		}

		id, pubErr := s.gateway.Publish(ctx, site.BaseURL, credential, &transfer.RemotePost{
			Title:   article.Title,
			Content: article.Body,
			Slug:    slug,
		})
		if pubErr != nil {
			slog.Error(pubErr.Error())
			publishErrs = append(publishErrs, pubErr)
			continue
		}
		remoteID = id
		published++
	}

	if published == 0 {
		return "", apperr.Wrap(apperr.KindPublishFailure, "publishing failed for all articles", errors.Join(publishErrs...))
	}

	if len(publishErrs) > 0 {
		if err := s.pl.UpdateStatus(ctx, tx, placementID, models.PlacementStatusPartialFail); err != nil {
			return "", fmt.Errorf("error marking partial failure: %w", err)
		}
		return models.PlacementStatusPartialFail, nil
	}

	err = s.pl.MarkPlaced(ctx, tx, placementID, sql.NullString{String: remoteID, Valid: true}, sql.NullTime{})
	if err != nil {
		return "", fmt.Errorf("error marking placement placed: %w", err)
	}
	return models.PlacementStatusPlaced, nil
}

// Remove deletes a placement and reverses every side effect of its creation:
// quota, content usage, and money.
func (s *placementService) Remove(ctx context.Context, requestingUserID, placementID int64) (err error) {
	placement, found, err := s.pl.GetByID(ctx, placementID)
	if err != nil {
		return err
	}
	if !found {
		err = apperr.New(apperr.KindNotFound, "placement not found")
		slog.Info(err.Error())
		return err
	}

	project, found, err := s.proj.GetByID(ctx, placement.ProjectID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "project not found")
	}

	// Authorization is a precondition checked before the transaction.
	requester, found, err := s.user.GetByID(ctx, requestingUserID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	if requester.Role != models.RoleAdmin && project.UserID != requestingUserID {
		err = apperr.New(apperr.KindUnauthorized, "placement belongs to another user")
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

	if err = s.lock.AcquirePairLock(ctx, tx, placement.ProjectID, placement.SiteID); err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to acquire pair lock", err)
	}

	placement, err = s.pl.GetForUpdate(ctx, tx, placementID)
	if err != nil {
		return fmt.Errorf("error locking placement: %w", err)
	}
	if placement == nil {
		err = apperr.New(apperr.KindNotFound, "placement not found")
		return err
	}

	if err = s.removeWithinTx(ctx, tx, placement, project.UserID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to commit transaction", err)
	}

	s.invalidateCaches(ctx, project.UserID, placement.SiteID)
	return nil
}

// removeWithinTx deletes one locked placement and reverses quota, usage and
// (if paid) money. The site deletion cascade reuses it per placement.
func (s *placementService) removeWithinTx(ctx context.Context, tx *sql.Tx, placement *models.Placement, ownerID int64) error {
	contents, err := s.plc.ListByPlacement(ctx, tx, placement.ID)
	if err != nil {
		return fmt.Errorf("error reading placement content: %w", err)
	}

	if err := s.pl.Remove(ctx, tx, placement.ID); err != nil {
		return fmt.Errorf("error deleting placement: %w", err)
	}

	removedLinks, removedArticles := 0, 0
	for _, pc := range contents {
		switch {
		case pc.LinkID.Valid:
			if err := s.link.AddUsage(ctx, tx, pc.LinkID.Int64, -1); err != nil {
				return fmt.Errorf("error releasing link usage: %w", err)
			}
			removedLinks++
		case pc.ArticleID.Valid:
			if err := s.article.AddUsage(ctx, tx, pc.ArticleID.Int64, -1); err != nil {
				return fmt.Errorf("error releasing article usage: %w", err)
			}
			removedArticles++
		}
	}

	if removedLinks > 0 || removedArticles > 0 {
		if err := s.site.AddUsage(ctx, tx, placement.SiteID, -removedLinks, -removedArticles); err != nil {
			return fmt.Errorf("error releasing site quota: %w", err)
		}
	}

	if placement.FinalPrice > 0 {
		_, err := s.billing.Refund(ctx, tx, ownerID, placement.FinalPrice, sql.NullInt64{Int64: placement.ID, Valid: true})
		if err != nil {
			return err
		}
	}
	return nil
}

// Renew extends a placed link placement by one renewal period.
func (s *placementService) Renew(ctx context.Context, userID, placementID int64) (price int64, err error) {
	placement, found, err := s.pl.GetByID(ctx, placementID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, apperr.New(apperr.KindNotFound, "placement not found")
	}

	project, found, err := s.proj.GetByID(ctx, placement.ProjectID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, apperr.New(apperr.KindNotFound, "project not found")
	}
	if project.UserID != userID {
		err = apperr.New(apperr.KindUnauthorized, "placement belongs to another user")
		slog.Info(err.Error())
		return 0, err
	}

	site, found, err := s.site.GetByID(ctx, placement.SiteID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, apperr.New(apperr.KindNotFound, "site not found")
	}

	price = site.LinkPrice
	if site.UserID == userID {
		price = site.LinkPrice / ownerRateDivisor
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, apperr.Wrap(apperr.KindTransient, "failed to start transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.lock.AcquirePairLock(ctx, tx, placement.ProjectID, placement.SiteID); err != nil {
		return 0, apperr.Wrap(apperr.KindTransient, "failed to acquire pair lock", err)
	}

	placement, err = s.pl.GetForUpdate(ctx, tx, placementID)
	if err != nil {
		return 0, fmt.Errorf("error locking placement: %w", err)
	}
	if placement == nil {
		err = apperr.New(apperr.KindNotFound, "placement not found")
		return 0, err
	}

	if placement.Type != models.PlacementTypeLink {
		err = apperr.New(apperr.KindValidation, "only link placements can be renewed")
		slog.Info(err.Error())
		return 0, err
	}
	if placement.Status != models.PlacementStatusPlaced || !placement.ExpiresAt.Valid {
		err = apperr.New(apperr.KindValidation, "placement is not in a renewable state")
		slog.Info(err.Error())
		return 0, err
	}

	if err = s.billing.Debit(ctx, tx, userID, price, sql.NullInt64{Int64: placementID, Valid: true}); err != nil {
		return 0, err
	}

	if err = s.pl.Renew(ctx, tx, placementID, placement.ExpiresAt.Time.Add(renewalPeriod)); err != nil {
		return 0, fmt.Errorf("error renewing placement: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, apperr.Wrap(apperr.KindTransient, "failed to commit transaction", err)
	}

	s.invalidateCaches(ctx, userID, placement.SiteID)
	return price, nil
}

// PublishScheduled is invoked by the queue worker when a scheduled placement
// comes due. The local reservation committed at purchase time; a publish
// failure here lands the placement in failed, the compensating state, and the
// buyer keeps the option to delete for a full refund.
func (s *placementService) PublishScheduled(ctx context.Context, placementID int64) (err error) {
	placement, found, err := s.pl.GetByID(ctx, placementID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "placement not found")
	}
	if placement.Status != models.PlacementStatusScheduled {
		return nil
	}

	site, found, err := s.site.GetByID(ctx, placement.SiteID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "site not found")
	}

	project, found, err := s.proj.GetByID(ctx, placement.ProjectID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "project not found")
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

	if err = s.lock.AcquirePairLock(ctx, tx, placement.ProjectID, placement.SiteID); err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to acquire pair lock", err)
	}

	placement, err = s.pl.GetForUpdate(ctx, tx, placementID)
	if err != nil {
		return fmt.Errorf("error locking placement: %w", err)
	}
	if placement == nil || placement.Status != models.PlacementStatusScheduled {
		tx.Rollback()
		return nil
	}

	contents, err := s.plc.ListByPlacement(ctx, tx, placementID)
	if err != nil {
		return fmt.Errorf("error reading placement content: %w", err)
	}

	var articles []*models.ProjectArticle
	for _, pc := range contents {
		if !pc.ArticleID.Valid {
			continue
		}
		article, found, artErr := s.article.GetByID(ctx, pc.ArticleID.Int64)
		if artErr != nil {
			err = artErr
			return err
		}
		if found {
			articles = append(articles, article)
		}
	}
	if len(articles) == 0 {
		err = apperr.New(apperr.KindNotFound, "scheduled placement has no article")
		return err
	}

	_, pubErr := s.publishArticles(ctx, tx, placementID, site, articles)
	if pubErr != nil {
		if apperr.KindOf(pubErr) != apperr.KindPublishFailure {
			err = pubErr
			return err
		}
		// Compensating state: keep the reservation, mark the placement failed.
		if err = s.pl.UpdateStatus(ctx, tx, placementID, models.PlacementStatusFailed); err != nil {
			return fmt.Errorf("error marking placement failed: %w", err)
		}
		slog.Error(pubErr.Error())
	}

	if err = tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to commit transaction", err)
	}

	s.invalidateCaches(ctx, project.UserID, site.ID)
	return nil
}

// Expire flips a placed link placement past its expiry to expired. Quota and
// usage stay reserved until the placement is deleted.
func (s *placementService) Expire(ctx context.Context, placementID int64) (err error) {
	placement, found, err := s.pl.GetByID(ctx, placementID)
	if err != nil {
		return err
	}
	if !found {
		return nil
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

	if err = s.lock.AcquirePairLock(ctx, tx, placement.ProjectID, placement.SiteID); err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to acquire pair lock", err)
	}

	placement, err = s.pl.GetForUpdate(ctx, tx, placementID)
	if err != nil {
		return fmt.Errorf("error locking placement: %w", err)
	}
	if placement == nil || placement.Status != models.PlacementStatusPlaced {
		tx.Rollback()
		return nil
	}

	if err = s.pl.UpdateStatus(ctx, tx, placementID, models.PlacementStatusExpired); err != nil {
		return fmt.Errorf("error expiring placement: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindTransient, "failed to commit transaction", err)
	}
	return nil
}

func (s *placementService) List(ctx context.Context, userID int64) ([]*models.Placement, error) {
	placements, err := s.pl.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing placements: %w", err)
	}
	return placements, nil
}

func (s *placementService) invalidateCaches(ctx context.Context, userID, siteID int64) {
	if err := s.inv.Invalidate(ctx, cache.UserPlacementsPattern(userID)); err != nil {
		slog.Info(err.Error())
	}
	if err := s.inv.Invalidate(ctx, cache.SiteContentPattern(siteID)); err != nil {
		slog.Info(err.Error())
	}
}
