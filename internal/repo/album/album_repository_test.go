package album_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/repo/album"
	"github.com/mkrupp/homegallery/internal/store"
)

func setupAlbumTest(t *testing.T) (*store.Store, *album.Repository, *domain.User) {
	t.Helper()

	s, err := store.Open(store.Config{DatabasePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	mr := miniredis.RunT(t)

	c, err := cache.Open(context.Background(), cache.Config{Addr: mr.Addr(), TTL: 60})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	user := domain.NewUser("alice", "Alice", "Smith")
	require.NoError(t, store.Insert(context.Background(), s.DB(), user))

	return s, album.NewRepository(c), user
}

func insertMediafile(t *testing.T, s *store.Store, userID, albumID, filesize int64, name string) {
	t.Helper()

	require.NoError(t, store.Insert(context.Background(), s.DB(), &domain.Mediafile{
		UserID:            userID,
		AlbumID:           albumID,
		MIMEType:          "image/jpeg",
		Filesize:          filesize,
		OriginalFilename:  name + ".jpg",
		MediafileFilename: name,
		ThumbnailFilename: name + "_thumb",
	}))
}

func TestRepository_Select_CacheAside(t *testing.T) {
	t.Parallel()

	s, repo, user := setupAlbumTest(t)
	ctx := context.Background()

	a := domain.NewAlbum(user.ID, false, "holiday", "beach pics")
	require.NoError(t, repo.Insert(ctx, s.DB(), a))

	first, err := repo.Select(ctx, s.DB(), a.ID)
	require.NoError(t, err)
	require.Equal(t, "holiday", first.Name)

	// A second select is served from the cache; a direct row change stays
	// invisible until the entry is invalidated.
	a.Name = "renamed"
	require.NoError(t, store.Update(ctx, s.DB(), a))

	stale, err := repo.Select(ctx, s.DB(), a.ID)
	require.NoError(t, err)
	require.Equal(t, "holiday", stale.Name)

	repo.Invalidate(ctx, a)

	fresh, err := repo.Select(ctx, s.DB(), a.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", fresh.Name)
}

func TestRepository_Select_Absent(t *testing.T) {
	t.Parallel()

	s, repo, _ := setupAlbumTest(t)

	a, err := repo.Select(context.Background(), s.DB(), 12345)
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestRepository_Refresh(t *testing.T) {
	t.Parallel()

	s, repo, user := setupAlbumTest(t)
	ctx := context.Background()

	a := domain.NewAlbum(user.ID, false, "holiday", "")
	require.NoError(t, repo.Insert(ctx, s.DB(), a))

	insertMediafile(t, s, user.ID, a.ID, 100, "one")
	insertMediafile(t, s, user.ID, a.ID, 250, "two")

	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return repo.Refresh(ctx, tx, a.ID)
	}))

	refreshed, err := store.SelectByID[domain.Album](ctx, s.DB(), a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, refreshed.MediafilesCount)
	require.EqualValues(t, 350, refreshed.MediafilesSize)
}

func TestRepository_Refresh_EmptyAlbum(t *testing.T) {
	t.Parallel()

	s, repo, user := setupAlbumTest(t)
	ctx := context.Background()

	a := domain.NewAlbum(user.ID, false, "holiday", "")
	a.MediafilesCount = 99
	a.MediafilesSize = 9999
	require.NoError(t, repo.Insert(ctx, s.DB(), a))

	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return repo.Refresh(ctx, tx, a.ID)
	}))

	refreshed, err := store.SelectByID[domain.Album](ctx, s.DB(), a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, refreshed.MediafilesCount)
	require.EqualValues(t, 0, refreshed.MediafilesSize)
}

func TestRepository_Refresh_AbsentAlbum(t *testing.T) {
	t.Parallel()

	s, repo, _ := setupAlbumTest(t)

	err := s.WithTx(context.Background(), func(ctx context.Context, tx *store.Tx) error {
		return repo.Refresh(ctx, tx, 777)
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_Delete_LockedByMediafiles(t *testing.T) {
	t.Parallel()

	s, repo, user := setupAlbumTest(t)
	ctx := context.Background()

	a := domain.NewAlbum(user.ID, false, "holiday", "")
	require.NoError(t, repo.Insert(ctx, s.DB(), a))

	insertMediafile(t, s, user.ID, a.ID, 10, "one")

	err := repo.Delete(ctx, s.DB(), a)
	require.ErrorIs(t, err, domain.ErrValueLocked)
}
