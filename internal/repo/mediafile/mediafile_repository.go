// Package mediafile persists mediafile records together with their derived
// rows (metadata, colorset, tags). Reads assemble the full view through
// explicit joins and cache it as one snapshot.
package mediafile

import (
	"context"
	"fmt"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/repo/tag"
	"github.com/mkrupp/homegallery/internal/store"
)

// Repository provides mediafile access with read-through caching of the
// assembled view. Mutators only touch the database; cache invalidation
// happens after the surrounding transaction commits.
type Repository struct {
	cache *cache.Cache
	tags  *tag.Repository
	log   logging.Logger
}

func NewRepository(c *cache.Cache, tags *tag.Repository) *Repository {
	return &Repository{
		cache: c,
		tags:  tags,
		log:   logging.GetLogger("repo.mediafile.mediafile_repository"),
	}
}

// Insert stores a new mediafile row.
func (r *Repository) Insert(ctx context.Context, q store.Querier, mediafile *domain.Mediafile) error {
	return store.Insert(ctx, q, mediafile)
}

// Select returns the mediafile with metadata, colorset and tags loaded, or
// nil when absent.
func (r *Repository) Select(ctx context.Context, q store.Querier, mediafileID int64) (*domain.Mediafile, error) {
	var cached domain.Mediafile

	hit, err := r.cache.Get(ctx, (&domain.Mediafile{}).Table(), mediafileID, &cached)
	if err != nil {
		r.log.WarnContext(ctx, "cache read failed", "id", mediafileID, "error", err)
	} else if hit {
		return &cached, nil
	}

	mediafile, err := store.SelectByID[domain.Mediafile](ctx, q, mediafileID)
	if err != nil || mediafile == nil {
		return mediafile, err
	}

	if err := r.loadView(ctx, q, mediafile); err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, mediafile); err != nil {
		r.log.WarnContext(ctx, "cache write failed", "id", mediafileID, "error", err)
	}

	return mediafile, nil
}

// SelectAll returns the mediafiles matching the filters with their views
// loaded.
func (r *Repository) SelectAll(
	ctx context.Context,
	q store.Querier,
	opts store.ListOptions,
	filters ...store.Filter,
) ([]*domain.Mediafile, error) {
	mediafiles, err := store.SelectAll[domain.Mediafile](ctx, q, opts, filters...)
	if err != nil {
		return nil, err
	}

	for _, mediafile := range mediafiles {
		if err := r.loadView(ctx, q, mediafile); err != nil {
			return nil, err
		}
	}

	return mediafiles, nil
}

func (r *Repository) loadView(ctx context.Context, q store.Querier, mediafile *domain.Mediafile) error {
	byMediafile := store.Where("mediafile_id", store.OpEq, mediafile.ID)

	rows, err := store.SelectAll[domain.Metadata](ctx, q, store.ListOptions{}, byMediafile)
	if err != nil {
		return fmt.Errorf("select metadata: %w", err)
	}

	mediafile.Metadata = make(map[string]string, len(rows))
	for _, row := range rows {
		mediafile.Metadata[row.Key] = row.Value
	}

	colorset, err := store.SelectBy[domain.Colorset](ctx, q, byMediafile)
	if err != nil {
		return fmt.Errorf("select colorset: %w", err)
	}

	mediafile.Colorset = colorset

	tags, err := r.tags.ValuesFor(ctx, q, mediafile.ID)
	if err != nil {
		return fmt.Errorf("select tags: %w", err)
	}

	mediafile.Tags = tags

	return nil
}

// Update writes the mediafile row back and re-syncs its tag set from the
// description.
func (r *Repository) Update(ctx context.Context, q store.Querier, mediafile *domain.Mediafile) error {
	if err := store.Update(ctx, q, mediafile); err != nil {
		return err
	}

	if err := r.tags.Sync(ctx, q, mediafile.ID, mediafile.Description); err != nil {
		return fmt.Errorf("sync tags: %w", err)
	}

	return nil
}

// Delete removes the mediafile row and its derived rows. Stored files are
// the caller's concern.
func (r *Repository) Delete(ctx context.Context, q store.Querier, mediafile *domain.Mediafile) error {
	byMediafile := store.Where("mediafile_id", store.OpEq, mediafile.ID)

	if _, err := store.DeleteAll[domain.Metadata](ctx, q, 0, byMediafile); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}

	if _, err := store.DeleteAll[domain.Colorset](ctx, q, 0, byMediafile); err != nil {
		return fmt.Errorf("delete colorset: %w", err)
	}

	if err := r.tags.DeleteFor(ctx, q, mediafile.ID); err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}

	return store.Delete(ctx, q, mediafile)
}

// CountAll returns the number of mediafiles matching the filters.
func (r *Repository) CountAll(ctx context.Context, q store.Querier, filters ...store.Filter) (int64, error) {
	return store.CountAll(ctx, q, &domain.Mediafile{}, filters...)
}

// SumFilesize returns the total byte size of the mediafiles matching the
// filters.
func (r *Repository) SumFilesize(ctx context.Context, q store.Querier, filters ...store.Filter) (int64, error) {
	return store.SumAll(ctx, q, &domain.Mediafile{}, "filesize", filters...)
}

// RefreshComments recomputes the mediafile's comment counter from the
// comments table under the whole-table lock and writes it back.
func (r *Repository) RefreshComments(ctx context.Context, tx *store.Tx, mediafileID int64) error {
	if err := tx.LockAll(ctx, &domain.Comment{}); err != nil {
		return fmt.Errorf("lock comments: %w", err)
	}

	mediafile, err := store.SelectByID[domain.Mediafile](ctx, tx, mediafileID)
	if err != nil {
		return fmt.Errorf("select mediafile: %w", err)
	}

	if mediafile == nil {
		return fmt.Errorf("select mediafile %d: %w", mediafileID, domain.ErrNotFound)
	}

	count, err := store.CountAll(ctx, tx, &domain.Comment{},
		store.Where("mediafile_id", store.OpEq, mediafileID))
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}

	mediafile.CommentsCount = count

	if err := store.Update(ctx, tx, mediafile); err != nil {
		return fmt.Errorf("update mediafile: %w", err)
	}

	r.log.DebugContext(ctx, "comment counter refreshed",
		logging.Group("mediafile", "id", mediafileID, "count", count))

	return nil
}

// Invalidate drops the mediafile's cache entry. Call after commit.
func (r *Repository) Invalidate(ctx context.Context, mediafile *domain.Mediafile) {
	if err := r.cache.Delete(ctx, mediafile); err != nil {
		r.log.WarnContext(ctx, "cache invalidation failed", "id", mediafile.ID, "error", err)
	}
}
