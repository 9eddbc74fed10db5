package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkplace/placeflow/internal/apperr"
	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/transfer"
)

func TestRegisterSite(t *testing.T) {
	f := newFixture(t)

	siteID, err := f.siteSvc.Register(context.Background(), siteOwnerID, &transfer.SiteRegistration{
		BaseURL:      "http://203.0.113.20/",
		Kind:         models.SiteKindCMS,
		Credential:   "editor:app-password",
		MaxLinks:     5,
		MaxArticles:  2,
		LinkPrice:    700,
		ArticlePrice: 3000,
	})
	require.NoError(t, err)

	site := f.sites.sites[siteID]
	require.NotNil(t, site)
	assert.Equal(t, "http://203.0.113.20", site.BaseURL)
	// Credentials never land in the database as plaintext.
	assert.NotEqual(t, "editor:app-password", site.Credential)
	assert.NotEmpty(t, site.Credential)
}

func TestRegisterSite_Validation(t *testing.T) {
	testCases := []struct {
		name string
		sr   *transfer.SiteRegistration
	}{
		{name: "missing base URL", sr: &transfer.SiteRegistration{Kind: models.SiteKindCMS, Credential: "x"}},
		{name: "unknown kind", sr: &transfer.SiteRegistration{BaseURL: "http://203.0.113.20", Kind: "wiki"}},
		{name: "cms without credential", sr: &transfer.SiteRegistration{BaseURL: "http://203.0.113.20", Kind: models.SiteKindCMS}},
		{name: "loopback host", sr: &transfer.SiteRegistration{BaseURL: "http://127.0.0.1:8080", Kind: models.SiteKindStatic}},
		{name: "private host", sr: &transfer.SiteRegistration{BaseURL: "http://10.0.0.5", Kind: models.SiteKindStatic}},
		{name: "bad scheme", sr: &transfer.SiteRegistration{BaseURL: "ftp://203.0.113.20", Kind: models.SiteKindStatic}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.siteSvc.Register(context.Background(), siteOwnerID, tc.sr)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

// secondBuyer gives the cascade a second affected account.
func addSecondBuyer(f *fixture) (userID, projID, artID int64) {
	userID = int64(4)
	projID = int64(11)
	artID = int64(201)
	f.users.users[userID] = &models.User{ID: userID, Email: "second@example.com", Role: models.RoleUser, Balance: 50000}
	f.projects.projects[projID] = &models.Project{ID: projID, UserID: userID, Name: "other campaign"}
	f.articles.articles[artID] = &models.ProjectArticle{
		ID: artID, ProjectID: projID, Title: "Review", Body: "body",
		UsageLimit: 1, Status: models.ContentStatusActive,
	}
	return userID, projID, artID
}

func TestRemoveSite_Cascade(t *testing.T) {
	f := newFixture(t)
	secondBuyer, secondProject, secondArticle := addSecondBuyer(f)

	f.expectTxCommit()
	linkResult, err := f.placements.Create(context.Background(), buyerID, linkCreation())
	require.NoError(t, err)

	f.expectTxCommit()
	articleResult, err := f.placements.Create(context.Background(), secondBuyer, &transfer.PlacementCreation{
		SiteID: cmsSiteID, ProjectID: secondProject, ArticleIDs: []int64{secondArticle},
	})
	require.NoError(t, err)
	remoteID := f.pl.placements[articleResult.PlacementID].RemotePostID.String

	f.expectTxCommit()
	require.NoError(t, f.siteSvc.Remove(context.Background(), siteOwnerID, cmsSiteID))

	// Both buyers are made whole.
	assert.Equal(t, int64(100000), f.users.users[buyerID].Balance)
	assert.Equal(t, int64(50000), f.users.users[secondBuyer].Balance)
	assert.Equal(t, int64(0), f.users.users[buyerID].TotalSpent)
	assert.Equal(t, int64(0), f.users.users[secondBuyer].TotalSpent)

	// Content usage is released, the placements and the site are gone.
	assert.Equal(t, 0, f.links.links[linkID].UsageCount)
	assert.Equal(t, 0, f.articles.articles[secondArticle].UsageCount)
	assert.Equal(t, models.ContentStatusActive, f.articles.articles[secondArticle].Status)
	assert.Empty(t, f.pl.placements)
	assert.NotContains(t, f.sites.sites, cmsSiteID)

	// The published article was deleted from the CMS.
	assert.Equal(t, []string{remoteID}, f.gateway.deleted)

	require.Len(t, f.audits.audits, 1)
	audit := f.audits.audits[0]
	assert.Equal(t, 2, audit.PlacementsRemoved)
	assert.Equal(t, linkResult.FinalPrice+articleResult.FinalPrice, audit.AmountRefunded)
	assert.Equal(t, 0, audit.RemoteDeleteFailures)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRemoveSite_RemoteDeleteFailureDoesNotAbort(t *testing.T) {
	f := newFixture(t)

	f.expectTxCommit()
	result, err := f.placements.Create(context.Background(), buyerID, articleCreation())
	require.NoError(t, err)

	f.gateway.deleteErr = errors.New("cms unreachable")
	f.expectTxCommit()
	require.NoError(t, f.siteSvc.Remove(context.Background(), siteOwnerID, cmsSiteID))

	// The local ledger is authoritative: refund and deletion still happen.
	assert.Equal(t, int64(100000), f.users.users[buyerID].Balance)
	assert.NotContains(t, f.pl.placements, result.PlacementID)
	assert.NotContains(t, f.sites.sites, cmsSiteID)

	require.Len(t, f.audits.audits, 1)
	assert.Equal(t, 1, f.audits.audits[0].RemoteDeleteFailures)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRemoveSite_Authorization(t *testing.T) {
	f := newFixture(t)

	err := f.siteSvc.Remove(context.Background(), buyerID, cmsSiteID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	f.expectTxCommit()
	require.NoError(t, f.siteSvc.Remove(context.Background(), adminID, cmsSiteID))
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRemoveSite_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.siteSvc.Remove(context.Background(), siteOwnerID, int64(99))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestTierChangeCountedInAudit(t *testing.T) {
	f := newFixture(t)

	// Just over the Bronze threshold: the refund drops the buyer back below it.
	f.users.users[buyerID].TotalSpent = 9600
	f.users.users[buyerID].CurrentDiscount = 0

	f.expectTxCommit()
	_, err := f.placements.Create(context.Background(), buyerID, linkCreation())
	require.NoError(t, err)
	assert.Equal(t, 5, f.users.users[buyerID].CurrentDiscount)

	f.expectTxCommit()
	require.NoError(t, f.siteSvc.Remove(context.Background(), siteOwnerID, cmsSiteID))

	assert.Equal(t, 0, f.users.users[buyerID].CurrentDiscount)
	require.Len(t, f.audits.audits, 1)
	assert.Equal(t, 1, f.audits.audits[0].TierChanges)
	require.NoError(t, f.mock.ExpectationsWereMet())
}
