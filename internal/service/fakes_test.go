package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
	"github.com/linkplace/placeflow/internal/transfer"
)

// In-memory repository fakes. They ignore the tx parameter; transaction
// boundaries are asserted through the sqlmock connection instead.

type fakeLockRepo struct {
	mu   sync.Mutex
	keys []int64
}

func (f *fakeLockRepo) AcquirePairLock(ctx context.Context, tx *sql.Tx, projectID, siteID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, repository.PairLockKey(projectID, siteID))
	return nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	u, ok := f.users[id]
	return u, ok, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeUserRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	user.ID = int64(len(f.users) + 1)
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserRepo) UpdateBalance(ctx context.Context, tx *sql.Tx, id, balance, totalSpent int64) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	u.Balance = balance
	u.TotalSpent = totalSpent
	return nil
}

func (f *fakeUserRepo) UpdateDiscount(ctx context.Context, tx *sql.Tx, id int64, discount int) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	u.CurrentDiscount = discount
	return nil
}

type fakeTransactionRepo struct {
	entries []*models.Transaction
}

func (f *fakeTransactionRepo) Create(ctx context.Context, tx *sql.Tx, t *models.Transaction) (int64, error) {
	t.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, t)
	return t.ID, nil
}

func (f *fakeTransactionRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, t := range f.entries {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeSiteRepo struct {
	sites map[int64]*models.Site
}

func (f *fakeSiteRepo) GetByID(ctx context.Context, id int64) (*models.Site, bool, error) {
	s, ok := f.sites[id]
	return s, ok, nil
}

func (f *fakeSiteRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Site, error) {
	return f.sites[id], nil
}

func (f *fakeSiteRepo) Create(ctx context.Context, site *models.Site) (int64, error) {
	site.ID = int64(len(f.sites) + 1)
	f.sites[site.ID] = site
	return site.ID, nil
}

func (f *fakeSiteRepo) ListByOwner(ctx context.Context, userID int64) ([]*models.Site, error) {
	var out []*models.Site
	for _, s := range f.sites {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSiteRepo) AddUsage(ctx context.Context, tx *sql.Tx, id int64, links, articles int) error {
	s, ok := f.sites[id]
	if !ok {
		return fmt.Errorf("site %d not found", id)
	}
	s.UsedLinks += links
	if s.UsedLinks < 0 {
		s.UsedLinks = 0
	}
	s.UsedArticles += articles
	if s.UsedArticles < 0 {
		s.UsedArticles = 0
	}
	return nil
}

func (f *fakeSiteRepo) ZeroUsage(ctx context.Context, tx *sql.Tx, id int64) error {
	s, ok := f.sites[id]
	if !ok {
		return fmt.Errorf("site %d not found", id)
	}
	s.UsedLinks = 0
	s.UsedArticles = 0
	return nil
}

func (f *fakeSiteRepo) Remove(ctx context.Context, tx *sql.Tx, id int64) error {
	delete(f.sites, id)
	return nil
}

type fakeLinkRepo struct {
	links map[int64]*models.ProjectLink
}

func (f *fakeLinkRepo) GetByID(ctx context.Context, id int64) (*models.ProjectLink, bool, error) {
	l, ok := f.links[id]
	return l, ok, nil
}

func (f *fakeLinkRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.ProjectLink, error) {
	return f.links[id], nil
}

func (f *fakeLinkRepo) Create(ctx context.Context, link *models.ProjectLink) (int64, error) {
	link.ID = int64(len(f.links) + 1)
	f.links[link.ID] = link
	return link.ID, nil
}

func (f *fakeLinkRepo) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectLink, error) {
	var out []*models.ProjectLink
	for _, l := range f.links {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) AddUsage(ctx context.Context, tx *sql.Tx, id int64, delta int) error {
	l, ok := f.links[id]
	if !ok {
		return fmt.Errorf("link %d not found", id)
	}
	l.UsageCount += delta
	if l.UsageCount < 0 {
		l.UsageCount = 0
	}
	if l.UsageCount >= l.UsageLimit {
		l.Status = models.ContentStatusExhausted
	} else {
		l.Status = models.ContentStatusActive
	}
	return nil
}

type fakeArticleRepo struct {
	articles map[int64]*models.ProjectArticle
}

func (f *fakeArticleRepo) GetByID(ctx context.Context, id int64) (*models.ProjectArticle, bool, error) {
	a, ok := f.articles[id]
	return a, ok, nil
}

func (f *fakeArticleRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.ProjectArticle, error) {
	return f.articles[id], nil
}

func (f *fakeArticleRepo) Create(ctx context.Context, article *models.ProjectArticle) (int64, error) {
	article.ID = int64(len(f.articles) + 1)
	f.articles[article.ID] = article
	return article.ID, nil
}

func (f *fakeArticleRepo) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectArticle, error) {
	var out []*models.ProjectArticle
	for _, a := range f.articles {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticleRepo) AddUsage(ctx context.Context, tx *sql.Tx, id int64, delta int) error {
	a, ok := f.articles[id]
	if !ok {
		return fmt.Errorf("article %d not found", id)
	}
	a.UsageCount += delta
	if a.UsageCount < 0 {
		a.UsageCount = 0
	}
	if a.UsageCount >= a.UsageLimit {
		a.Status = models.ContentStatusExhausted
	} else {
		a.Status = models.ContentStatusActive
	}
	return nil
}

type fakePlacementRepo struct {
	placements map[int64]*models.Placement
	nextID     int64
}

func (f *fakePlacementRepo) GetByID(ctx context.Context, id int64) (*models.Placement, bool, error) {
	p, ok := f.placements[id]
	return p, ok, nil
}

func (f *fakePlacementRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Placement, error) {
	return f.placements[id], nil
}

func (f *fakePlacementRepo) FindByPair(ctx context.Context, tx *sql.Tx, projectID, siteID int64) (*models.Placement, error) {
	for _, p := range f.placements {
		if p.ProjectID == projectID && p.SiteID == siteID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlacementRepo) Create(ctx context.Context, tx *sql.Tx, placement *models.Placement) (int64, error) {
	f.nextID++
	placement.ID = f.nextID
	placement.PurchasedAt = time.Now()
	f.placements[placement.ID] = placement
	return placement.ID, nil
}

func (f *fakePlacementRepo) UpdatePricing(ctx context.Context, tx *sql.Tx, id, original int64, discount int, final int64) error {
	p, ok := f.placements[id]
	if !ok {
		return fmt.Errorf("placement %d not found", id)
	}
	p.OriginalPrice = original
	p.DiscountApplied = discount
	p.FinalPrice = final
	return nil
}

func (f *fakePlacementRepo) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status string) error {
	p, ok := f.placements[id]
	if !ok {
		return fmt.Errorf("placement %d not found", id)
	}
	p.Status = status
	return nil
}

func (f *fakePlacementRepo) MarkPlaced(ctx context.Context, tx *sql.Tx, id int64, remotePostID sql.NullString, expiresAt sql.NullTime) error {
	p, ok := f.placements[id]
	if !ok {
		return fmt.Errorf("placement %d not found", id)
	}
	p.Status = models.PlacementStatusPlaced
	p.RemotePostID = remotePostID
	p.ExpiresAt = expiresAt
	p.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	return nil
}

func (f *fakePlacementRepo) Renew(ctx context.Context, tx *sql.Tx, id int64, expiresAt time.Time) error {
	p, ok := f.placements[id]
	if !ok {
		return fmt.Errorf("placement %d not found", id)
	}
	p.ExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
	p.LastRenewedAt = sql.NullTime{Time: time.Now(), Valid: true}
	p.RenewalCount++
	return nil
}

func (f *fakePlacementRepo) Remove(ctx context.Context, tx *sql.Tx, id int64) error {
	delete(f.placements, id)
	return nil
}

func (f *fakePlacementRepo) ListBySite(ctx context.Context, tx *sql.Tx, siteID int64) ([]*models.Placement, error) {
	var out []*models.Placement
	for _, p := range f.placements {
		if p.SiteID == siteID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlacementRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Placement, error) {
	return nil, nil
}

func (f *fakePlacementRepo) ListExpired(ctx context.Context, now time.Time) ([]*models.Placement, error) {
	var out []*models.Placement
	for _, p := range f.placements {
		if p.Type == models.PlacementTypeLink && p.Status == models.PlacementStatusPlaced &&
			p.ExpiresAt.Valid && !p.ExpiresAt.Time.After(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePlacementContentRepo struct {
	rows       []*models.PlacementContent
	placements *fakePlacementRepo
}

func (f *fakePlacementContentRepo) CountByPair(ctx context.Context, tx *sql.Tx, projectID, siteID int64) (int, error) {
	count := 0
	for _, row := range f.rows {
		p, ok := f.placements.placements[row.PlacementID]
		if ok && p.ProjectID == projectID && p.SiteID == siteID {
			count++
		}
	}
	return count, nil
}

func (f *fakePlacementContentRepo) ListByPlacement(ctx context.Context, tx *sql.Tx, placementID int64) ([]*models.PlacementContent, error) {
	var out []*models.PlacementContent
	for _, row := range f.rows {
		if row.PlacementID == placementID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakePlacementContentRepo) Exists(ctx context.Context, tx *sql.Tx, placementID int64, linkID, articleID sql.NullInt64) (bool, error) {
	for _, row := range f.rows {
		if row.PlacementID == placementID && row.LinkID == linkID && row.ArticleID == articleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePlacementContentRepo) Attach(ctx context.Context, tx *sql.Tx, pc *models.PlacementContent) error {
	f.rows = append(f.rows, pc)
	return nil
}

type fakeProjectRepo struct {
	projects map[int64]*models.Project
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id int64) (*models.Project, bool, error) {
	p, ok := f.projects[id]
	return p, ok, nil
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *models.Project) (int64, error) {
	project.ID = int64(len(f.projects) + 1)
	f.projects[project.ID] = project
	return project.ID, nil
}

func (f *fakeProjectRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Project, error) {
	var out []*models.Project
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) CheckByUserID(ctx context.Context, projectID, userID int64) (bool, error) {
	p, ok := f.projects[projectID]
	return ok && p.UserID == userID, nil
}

type fakeAuditRepo struct {
	audits []*models.SiteDeletionAudit
}

func (f *fakeAuditRepo) Create(ctx context.Context, tx *sql.Tx, audit *models.SiteDeletionAudit) (int64, error) {
	audit.ID = int64(len(f.audits) + 1)
	f.audits = append(f.audits, audit)
	return audit.ID, nil
}

type fakeGateway struct {
	publishErr error
	deleteErr  error
	published  []*transfer.RemotePost
	deleted    []string
	nextID     int
}

func (f *fakeGateway) Publish(ctx context.Context, siteBaseURL, credential string, post *transfer.RemotePost) (string, error) {
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.published = append(f.published, post)
	f.nextID++
	return fmt.Sprintf("remote-%d", f.nextID), nil
}

func (f *fakeGateway) Delete(ctx context.Context, siteBaseURL, credential, remotePostID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, remotePostID)
	return nil
}

type fakeInvalidator struct {
	patterns []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, keyPattern string) error {
	f.patterns = append(f.patterns, keyPattern)
	return nil
}
