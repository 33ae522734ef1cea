// Package favorite persists per-user mediafile favorites.
package favorite

import (
	"context"

	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/store"
)

// Repository provides favorite access. Favorites are tiny rows keyed by the
// user and mediafile pair; they are never cached.
type Repository struct {
	log logging.Logger
}

func NewRepository() *Repository {
	return &Repository{
		log: logging.GetLogger("repo.favorite.favorite_repository"),
	}
}

func byPair(userID, mediafileID int64) []store.Filter {
	return []store.Filter{
		store.Where("user_id", store.OpEq, userID),
		store.Where("mediafile_id", store.OpEq, mediafileID),
	}
}

// Insert marks a mediafile as favorite for a user. Marking twice is a no-op.
func (r *Repository) Insert(ctx context.Context, q store.Querier, userID, mediafileID int64) error {
	exists, err := store.Exists(ctx, q, &domain.Favorite{}, byPair(userID, mediafileID)...)
	if err != nil || exists {
		return err
	}

	return store.Insert(ctx, q, domain.NewFavorite(userID, mediafileID))
}

// Exists reports whether the user has favorited the mediafile.
func (r *Repository) Exists(ctx context.Context, q store.Querier, userID, mediafileID int64) (bool, error) {
	return store.Exists(ctx, q, &domain.Favorite{}, byPair(userID, mediafileID)...)
}

// Delete removes the user's favorite mark. Removing an absent mark is a
// no-op.
func (r *Repository) Delete(ctx context.Context, q store.Querier, userID, mediafileID int64) error {
	favorite, err := store.SelectBy[domain.Favorite](ctx, q, byPair(userID, mediafileID)...)
	if err != nil || favorite == nil {
		return err
	}

	return store.Delete(ctx, q, favorite)
}

// DeleteAllFor removes every favorite of a mediafile.
func (r *Repository) DeleteAllFor(ctx context.Context, q store.Querier, batchSize int, mediafileID int64) (int, error) {
	return store.DeleteAll[domain.Favorite](ctx, q, batchSize,
		store.Where("mediafile_id", store.OpEq, mediafileID))
}

// SelectAllFor returns the mediafile ids the user has favorited.
func (r *Repository) SelectAllFor(ctx context.Context, q store.Querier, userID int64) ([]int64, error) {
	favorites, err := store.SelectAll[domain.Favorite](ctx, q, store.ListOptions{
		OrderBy: "id",
		Order:   store.Asc,
	}, store.Where("user_id", store.OpEq, userID))
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(favorites))
	for _, favorite := range favorites {
		ids = append(ids, favorite.MediafileID)
	}

	return ids, nil
}
