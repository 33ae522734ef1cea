// Package album persists albums and keeps their denormalized mediafile
// counters consistent.
package album

import (
	"context"
	"fmt"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/store"
)

// Repository provides album access with read-through caching. Mutators only
// touch the database; cache invalidation happens after the surrounding
// transaction commits.
type Repository struct {
	cache *cache.Cache
	log   logging.Logger
}

func NewRepository(c *cache.Cache) *Repository {
	return &Repository{
		cache: c,
		log:   logging.GetLogger("repo.album.album_repository"),
	}
}

// Insert stores a new album.
func (r *Repository) Insert(ctx context.Context, q store.Querier, album *domain.Album) error {
	return store.Insert(ctx, q, album)
}

// Select returns the album by id, or nil when absent. Cache hits skip the
// database entirely.
func (r *Repository) Select(ctx context.Context, q store.Querier, albumID int64) (*domain.Album, error) {
	var cached domain.Album

	hit, err := r.cache.Get(ctx, (&domain.Album{}).Table(), albumID, &cached)
	if err != nil {
		r.log.WarnContext(ctx, "cache read failed", "id", albumID, "error", err)
	} else if hit {
		return &cached, nil
	}

	album, err := store.SelectByID[domain.Album](ctx, q, albumID)
	if err != nil || album == nil {
		return album, err
	}

	if err := r.cache.Set(ctx, album); err != nil {
		r.log.WarnContext(ctx, "cache write failed", "id", albumID, "error", err)
	}

	return album, nil
}

// SelectAll returns the albums matching the filters.
func (r *Repository) SelectAll(
	ctx context.Context,
	q store.Querier,
	opts store.ListOptions,
	filters ...store.Filter,
) ([]*domain.Album, error) {
	return store.SelectAll[domain.Album](ctx, q, opts, filters...)
}

// Update writes the album back to its row.
func (r *Repository) Update(ctx context.Context, q store.Querier, album *domain.Album) error {
	return store.Update(ctx, q, album)
}

// Delete removes the album. Albums still holding mediafiles refuse deletion
// with ErrValueLocked.
func (r *Repository) Delete(ctx context.Context, q store.Querier, album *domain.Album) error {
	return store.Delete(ctx, q, album)
}

// CountAll returns the number of albums matching the filters.
func (r *Repository) CountAll(ctx context.Context, q store.Querier, filters ...store.Filter) (int64, error) {
	return store.CountAll(ctx, q, &domain.Album{}, filters...)
}

// Refresh recomputes the album's mediafile count and size from the
// mediafiles table and writes them back. It takes the whole-table lock so
// concurrent uploads cannot interleave between recount and write-back.
func (r *Repository) Refresh(ctx context.Context, tx *store.Tx, albumID int64) error {
	if err := tx.LockAll(ctx, &domain.Mediafile{}); err != nil {
		return fmt.Errorf("lock mediafiles: %w", err)
	}

	album, err := store.SelectByID[domain.Album](ctx, tx, albumID)
	if err != nil {
		return fmt.Errorf("select album: %w", err)
	}

	if album == nil {
		return fmt.Errorf("select album %d: %w", albumID, domain.ErrNotFound)
	}

	byAlbum := store.Where("album_id", store.OpEq, albumID)

	count, err := store.CountAll(ctx, tx, &domain.Mediafile{}, byAlbum)
	if err != nil {
		return fmt.Errorf("count mediafiles: %w", err)
	}

	size, err := store.SumAll(ctx, tx, &domain.Mediafile{}, "filesize", byAlbum)
	if err != nil {
		return fmt.Errorf("sum mediafiles: %w", err)
	}

	album.MediafilesCount = count
	album.MediafilesSize = size

	if err := store.Update(ctx, tx, album); err != nil {
		return fmt.Errorf("update album: %w", err)
	}

	r.log.DebugContext(ctx, "album counters refreshed",
		logging.Group("album", "id", albumID, "count", count, "size", size))

	return nil
}

// Invalidate drops the album's cache entry. Call after commit.
func (r *Repository) Invalidate(ctx context.Context, album *domain.Album) {
	if err := r.cache.Delete(ctx, album); err != nil {
		r.log.WarnContext(ctx, "cache invalidation failed", "id", album.ID, "error", err)
	}
}
