package service

import (
	"context"

	"github.com/linkplace/placeflow/internal/transfer"
)

// PublishingGateway pushes content to a partner CMS. Implementations must
// bound their own timeouts; the engine treats any error as a publish failure.
type PublishingGateway interface {
	Publish(ctx context.Context, siteBaseURL, credential string, post *transfer.RemotePost) (string, error)
	// Delete removes a remote post. Deleting an already-removed post is not an
	// error.
	Delete(ctx context.Context, siteBaseURL, credential, remotePostID string) error
}

// CacheInvalidator drops cached listings after a commit. Invalidation is
// fire-and-forget; failures are logged, never propagated.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keyPattern string) error
}
