package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/domain"
)

func setupCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)

	c, err := cache.Open(context.Background(), cache.Config{
		Addr: srv.Addr(),
		TTL:  60,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, srv
}

func sampleAlbum() *domain.Album {
	album := domain.NewAlbum(7, true, "holiday", "summer 2025")
	album.ID = 42
	album.CreatedAt = 1700000000
	album.MediafilesCount = 3
	album.MediafilesSize = 60

	return album
}

func TestSetGet_RoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	album := sampleAlbum()

	require.NoError(t, c.Set(context.Background(), album))

	var got domain.Album
	ok, err := c.Get(context.Background(), album.Table(), album.ID, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, *album, got)
}

func TestGet_NeverSetKeyMisses(t *testing.T) {
	c, _ := setupCache(t)

	var got domain.Album
	ok, err := c.Get(context.Background(), "albums", 9999, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGet_ExpiredKeyMisses(t *testing.T) {
	c, srv := setupCache(t)
	album := sampleAlbum()

	require.NoError(t, c.Set(context.Background(), album))
	srv.FastForward(61 * time.Second)

	var got domain.Album
	ok, err := c.Get(context.Background(), album.Table(), album.ID, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	c, _ := setupCache(t)
	album := sampleAlbum()

	require.NoError(t, c.Set(context.Background(), album))
	require.NoError(t, c.Delete(context.Background(), album))

	var got domain.Album
	ok, err := c.Get(context.Background(), album.Table(), album.ID, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is not an error.
	require.NoError(t, c.Delete(context.Background(), album))
}

func TestDeleteAll_OnlyDropsOneKind(t *testing.T) {
	c, _ := setupCache(t)
	album := sampleAlbum()

	comment := domain.NewComment(7, 42, "nice shot")
	comment.ID = 1

	require.NoError(t, c.Set(context.Background(), album))
	require.NoError(t, c.Set(context.Background(), comment))

	require.NoError(t, c.DeleteAll(context.Background(), comment.Table()))

	var gotComment domain.Comment
	ok, err := c.Get(context.Background(), comment.Table(), comment.ID, &gotComment)
	require.NoError(t, err)
	assert.False(t, ok)

	var gotAlbum domain.Album
	ok, err = c.Get(context.Background(), album.Table(), album.ID, &gotAlbum)
	require.NoError(t, err)
	assert.True(t, ok, "other kinds must survive")
}

func TestSet_MediafileSnapshotKeepsDerivedRows(t *testing.T) {
	c, _ := setupCache(t)

	mf := &domain.Mediafile{
		UserID: 7, AlbumID: 42,
		MIMEType: "image/jpeg", Filesize: 1234,
		Width: 64, Height: 48, Format: "JPEG", Mode: "RGB",
		OriginalFilename:  "sunset.jpg",
		MediafileFilename: "opaque-original",
		ThumbnailFilename: "opaque-thumb",
		Description:       "golden hour #sunset",
		Metadata:          map[string]string{"Model": "X100"},
		Colorset:          domain.NewColorset(5, map[string]float64{"orange": 80, "black": 20}),
		Tags:              []string{"sunset"},
	}
	mf.ID = 5

	require.NoError(t, c.Set(context.Background(), mf))

	var got domain.Mediafile
	ok, err := c.Get(context.Background(), mf.Table(), mf.ID, &got)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, mf.Metadata, got.Metadata)
	assert.Equal(t, mf.Tags, got.Tags)
	require.NotNil(t, got.Colorset)
	assert.InDelta(t, 80, got.Colorset.Orange, 0.001)
}
