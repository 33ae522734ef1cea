package mediafile_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/repo/mediafile"
	"github.com/mkrupp/homegallery/internal/repo/tag"
	"github.com/mkrupp/homegallery/internal/store"
)

type fixture struct {
	store *store.Store
	repo  *mediafile.Repository
	user  *domain.User
	album *domain.Album
}

func setupMediafileTest(t *testing.T) fixture {
	t.Helper()

	s, err := store.Open(store.Config{DatabasePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	mr := miniredis.RunT(t)

	c, err := cache.Open(context.Background(), cache.Config{Addr: mr.Addr(), TTL: 60})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()

	user := domain.NewUser("alice", "Alice", "Smith")
	require.NoError(t, store.Insert(ctx, s.DB(), user))

	album := domain.NewAlbum(user.ID, false, "holiday", "")
	require.NoError(t, store.Insert(ctx, s.DB(), album))

	return fixture{
		store: s,
		repo:  mediafile.NewRepository(c, tag.NewRepository()),
		user:  user,
		album: album,
	}
}

func (f fixture) insert(t *testing.T, name, description string) *domain.Mediafile {
	t.Helper()

	m := &domain.Mediafile{
		UserID:            f.user.ID,
		AlbumID:           f.album.ID,
		MIMEType:          "image/jpeg",
		Filesize:          100,
		Width:             640,
		Height:            480,
		Format:            "jpeg",
		Mode:              "RGB",
		OriginalFilename:  name + ".jpg",
		MediafileFilename: name,
		ThumbnailFilename: name + "_thumb",
		Description:       description,
	}
	require.NoError(t, f.repo.Insert(context.Background(), f.store.DB(), m))

	return m
}

func TestRepository_Select_LoadsView(t *testing.T) {
	t.Parallel()

	f := setupMediafileTest(t)
	ctx := context.Background()

	m := f.insert(t, "one", "city trip #city #Night")

	require.NoError(t, tag.NewRepository().Apply(ctx, f.store.DB(), m.ID, m.Description))
	require.NoError(t, store.Insert(ctx, f.store.DB(), domain.NewMetadata(m.ID, "Model", "NIKON D90")))
	require.NoError(t, store.Insert(ctx, f.store.DB(), domain.NewColorset(m.ID, map[string]float64{
		"red":  60,
		"blue": 40,
	})))

	got, err := f.repo.Select(ctx, f.store.DB(), m.ID)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"Model": "NIKON D90"}, got.Metadata)
	require.Equal(t, []string{"city", "night"}, got.Tags)
	require.NotNil(t, got.Colorset)
	require.InDelta(t, 60, got.Colorset.Percentages()["red"], 1e-9)
	require.InDelta(t, 40, got.Colorset.Percentages()["blue"], 1e-9)
}

func TestRepository_Select_CachesSnapshot(t *testing.T) {
	t.Parallel()

	f := setupMediafileTest(t)
	ctx := context.Background()

	m := f.insert(t, "one", "#snap")
	require.NoError(t, tag.NewRepository().Apply(ctx, f.store.DB(), m.ID, m.Description))

	first, err := f.repo.Select(ctx, f.store.DB(), m.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"snap"}, first.Tags)

	// Derived rows travel with the cached snapshot; dropping them from the
	// database does not affect cached reads.
	require.NoError(t, tag.NewRepository().DeleteFor(ctx, f.store.DB(), m.ID))

	cached, err := f.repo.Select(ctx, f.store.DB(), m.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"snap"}, cached.Tags)

	f.repo.Invalidate(ctx, m)

	fresh, err := f.repo.Select(ctx, f.store.DB(), m.ID)
	require.NoError(t, err)
	require.Empty(t, fresh.Tags)
}

func TestRepository_Delete_RemovesDerivedRows(t *testing.T) {
	t.Parallel()

	f := setupMediafileTest(t)
	ctx := context.Background()

	m := f.insert(t, "one", "#gone")
	require.NoError(t, tag.NewRepository().Apply(ctx, f.store.DB(), m.ID, m.Description))
	require.NoError(t, store.Insert(ctx, f.store.DB(), domain.NewMetadata(m.ID, "Model", "X")))
	require.NoError(t, store.Insert(ctx, f.store.DB(), domain.NewColorset(m.ID, nil)))

	require.NoError(t, f.repo.Delete(ctx, f.store.DB(), m))

	for probe, name := range map[store.Entity]string{
		&domain.Mediafile{}:    "mediafiles",
		&domain.Metadata{}:     "metadata",
		&domain.Colorset{}:     "colorsets",
		&domain.Tag{}:          "tags",
		&domain.MediafileTag{}: "mediafile tags",
	} {
		count, err := store.CountAll(ctx, f.store.DB(), probe)
		require.NoError(t, err)
		require.Zero(t, count, name)
	}
}

func TestRepository_Update_SyncsTags(t *testing.T) {
	t.Parallel()

	f := setupMediafileTest(t)
	ctx := context.Background()

	m := f.insert(t, "one", "#old")
	require.NoError(t, tag.NewRepository().Apply(ctx, f.store.DB(), m.ID, m.Description))

	m.Description = "#new #old"
	require.NoError(t, f.repo.Update(ctx, f.store.DB(), m))

	got, err := f.repo.Select(ctx, f.store.DB(), m.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"new", "old"}, got.Tags)
}

func TestRepository_RefreshComments(t *testing.T) {
	t.Parallel()

	f := setupMediafileTest(t)
	ctx := context.Background()

	m := f.insert(t, "one", "")

	for range 3 {
		require.NoError(t, store.Insert(ctx, f.store.DB(), domain.NewComment(f.user.ID, m.ID, "nice")))
	}

	require.NoError(t, f.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return f.repo.RefreshComments(ctx, tx, m.ID)
	}))

	got, err := store.SelectByID[domain.Mediafile](ctx, f.store.DB(), m.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, got.CommentsCount)
}
