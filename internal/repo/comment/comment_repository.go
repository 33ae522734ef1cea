// Package comment persists mediafile comments.
package comment

import (
	"context"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/store"
)

// Repository provides comment access with read-through caching.
type Repository struct {
	cache *cache.Cache
	log   logging.Logger
}

func NewRepository(c *cache.Cache) *Repository {
	return &Repository{
		cache: c,
		log:   logging.GetLogger("repo.comment.comment_repository"),
	}
}

// Insert stores a new comment.
func (r *Repository) Insert(ctx context.Context, q store.Querier, comment *domain.Comment) error {
	return store.Insert(ctx, q, comment)
}

// Select returns the comment by id, or nil when absent.
func (r *Repository) Select(ctx context.Context, q store.Querier, commentID int64) (*domain.Comment, error) {
	var cached domain.Comment

	hit, err := r.cache.Get(ctx, (&domain.Comment{}).Table(), commentID, &cached)
	if err != nil {
		r.log.WarnContext(ctx, "cache read failed", "id", commentID, "error", err)
	} else if hit {
		return &cached, nil
	}

	comment, err := store.SelectByID[domain.Comment](ctx, q, commentID)
	if err != nil || comment == nil {
		return comment, err
	}

	if err := r.cache.Set(ctx, comment); err != nil {
		r.log.WarnContext(ctx, "cache write failed", "id", commentID, "error", err)
	}

	return comment, nil
}

// SelectAll returns the comments matching the filters.
func (r *Repository) SelectAll(
	ctx context.Context,
	q store.Querier,
	opts store.ListOptions,
	filters ...store.Filter,
) ([]*domain.Comment, error) {
	return store.SelectAll[domain.Comment](ctx, q, opts, filters...)
}

// Update writes the comment back to its row.
func (r *Repository) Update(ctx context.Context, q store.Querier, comment *domain.Comment) error {
	return store.Update(ctx, q, comment)
}

// Delete removes the comment.
func (r *Repository) Delete(ctx context.Context, q store.Querier, comment *domain.Comment) error {
	return store.Delete(ctx, q, comment)
}

// DeleteAllFor removes every comment of a mediafile in batches and returns
// the number deleted.
func (r *Repository) DeleteAllFor(
	ctx context.Context,
	q store.Querier,
	batchSize int,
	mediafileID int64,
) (int, error) {
	return store.DeleteAll[domain.Comment](ctx, q, batchSize,
		store.Where("mediafile_id", store.OpEq, mediafileID))
}

// CountAll returns the number of comments matching the filters.
func (r *Repository) CountAll(ctx context.Context, q store.Querier, filters ...store.Filter) (int64, error) {
	return store.CountAll(ctx, q, &domain.Comment{}, filters...)
}

// Invalidate drops one comment's cache entry. Call after commit.
func (r *Repository) Invalidate(ctx context.Context, comment *domain.Comment) {
	if err := r.cache.Delete(ctx, comment); err != nil {
		r.log.WarnContext(ctx, "cache invalidation failed", "id", comment.ID, "error", err)
	}
}

// InvalidateAll drops every cached comment. Used after bulk deletes where
// enumerating affected ids would cost more than the flush.
func (r *Repository) InvalidateAll(ctx context.Context) {
	if err := r.cache.DeleteAll(ctx, (&domain.Comment{}).Table()); err != nil {
		r.log.WarnContext(ctx, "cache flush failed", "error", err)
	}
}
