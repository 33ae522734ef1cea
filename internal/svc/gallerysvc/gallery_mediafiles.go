package gallerysvc

import (
	"context"
	"fmt"
	"io"

	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/store"
	"github.com/mkrupp/homegallery/internal/util/cryptox"
)

// UploadMediafile implements GalleryService.UploadMediafile.
func (svc *StoreGalleryService) UploadMediafile(
	ctx context.Context,
	userID, albumID int64,
	originalFilename string,
	content io.Reader,
	description string,
) (m *domain.Mediafile, err error) {
	defer svc.logged(ctx, "mediafile uploaded", &err, "user", userID, "album", albumID)()

	a, err := svc.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	if a.IsLocked {
		return nil, fmt.Errorf("album %d is locked: %w", albumID, domain.ErrValueLocked)
	}

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		if m, err = svc.ingest(ctx, tx, userID, albumID, originalFilename, content, description); err != nil {
			return err
		}

		return svc.albums.Refresh(ctx, tx, albumID)
	}); err != nil {
		return nil, err
	}

	svc.albums.Invalidate(ctx, a)

	return m, nil
}

// GetMediafile implements GalleryService.GetMediafile.
func (svc *StoreGalleryService) GetMediafile(ctx context.Context, mediafileID int64) (*domain.Mediafile, error) {
	m, err := svc.mediafiles.Select(ctx, svc.store.DB(), mediafileID)
	if err != nil {
		return nil, fmt.Errorf("select mediafile: %w", err)
	}

	if m == nil {
		return nil, fmt.Errorf("select mediafile %d: %w", mediafileID, domain.ErrNotFound)
	}

	return m, nil
}

// ListMediafiles implements GalleryService.ListMediafiles.
func (svc *StoreGalleryService) ListMediafiles(
	ctx context.Context,
	opts store.ListOptions,
	filters ...store.Filter,
) ([]*domain.Mediafile, error) {
	return svc.mediafiles.SelectAll(ctx, svc.store.DB(), opts, filters...)
}

// DownloadMediafile implements GalleryService.DownloadMediafile.
func (svc *StoreGalleryService) DownloadMediafile(
	ctx context.Context,
	mediafileID int64,
) (m *domain.Mediafile, data []byte, err error) {
	defer svc.logged(ctx, "mediafile downloaded", &err, "mediafile", mediafileID)()

	if m, err = svc.GetMediafile(ctx, mediafileID); err != nil {
		return nil, nil, err
	}

	data, err = cryptox.DecryptFile(svc.originals.Path(m.MediafileFilename), svc.key)
	if err != nil {
		return nil, nil, fmt.Errorf("decrypt original: %w", err)
	}

	return m, data, nil
}

// DownloadThumbnail implements GalleryService.DownloadThumbnail.
func (svc *StoreGalleryService) DownloadThumbnail(
	ctx context.Context,
	mediafileID int64,
) (m *domain.Mediafile, data []byte, err error) {
	if m, err = svc.GetMediafile(ctx, mediafileID); err != nil {
		return nil, nil, err
	}

	data, err = svc.thumbnails.Read(ctx, m.ThumbnailFilename)
	if err != nil {
		return nil, nil, fmt.Errorf("read thumbnail: %w", err)
	}

	return m, data, nil
}

// UpdateMediafile implements GalleryService.UpdateMediafile.
func (svc *StoreGalleryService) UpdateMediafile(
	ctx context.Context,
	mediafileID, albumID int64,
	originalFilename, description string,
) (m *domain.Mediafile, err error) {
	defer svc.logged(ctx, "mediafile updated", &err, "mediafile", mediafileID)()

	if m, err = svc.GetMediafile(ctx, mediafileID); err != nil {
		return nil, err
	}

	target, err := svc.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	if target.IsLocked {
		return nil, fmt.Errorf("album %d is locked: %w", albumID, domain.ErrValueLocked)
	}

	outdatedAlbumID := int64(0)
	if m.AlbumID != albumID {
		outdatedAlbumID = m.AlbumID
	}

	m.AlbumID = albumID
	m.OriginalFilename = originalFilename
	m.Description = description

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		if err := svc.mediafiles.Update(ctx, tx, m); err != nil {
			return fmt.Errorf("update mediafile: %w", err)
		}

		// Moves recount both the losing and the gaining album.
		if outdatedAlbumID != 0 {
			if err := svc.albums.Refresh(ctx, tx, outdatedAlbumID); err != nil {
				return err
			}

			if err := svc.albums.Refresh(ctx, tx, albumID); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return nil, err
	}

	svc.mediafiles.Invalidate(ctx, m)
	svc.albums.Invalidate(ctx, target)

	if outdatedAlbumID != 0 {
		svc.albums.Invalidate(ctx, &domain.Album{Base: domain.Base{ID: outdatedAlbumID}})
	}

	return m, nil
}

// DeleteMediafile implements GalleryService.DeleteMediafile.
func (svc *StoreGalleryService) DeleteMediafile(ctx context.Context, mediafileID int64) (err error) {
	defer svc.logged(ctx, "mediafile deleted", &err, "mediafile", mediafileID)()

	m, err := svc.GetMediafile(ctx, mediafileID)
	if err != nil {
		return err
	}

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		if _, err := svc.comments.DeleteAllFor(ctx, tx, svc.store.DeleteBatchSize(), mediafileID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}

		if _, err := svc.favorites.DeleteAllFor(ctx, tx, svc.store.DeleteBatchSize(), mediafileID); err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}

		if err := svc.mediafiles.Delete(ctx, tx, m); err != nil {
			return fmt.Errorf("delete mediafile: %w", err)
		}

		return svc.albums.Refresh(ctx, tx, m.AlbumID)
	}); err != nil {
		return err
	}

	// Stored files go last; a crash between commit and removal leaves
	// orphaned files, never dangling rows.
	if err := svc.originals.Delete(ctx, m.MediafileFilename); err != nil {
		svc.log.ErrorContext(ctx, "original removal failed", "name", m.MediafileFilename, "error", err)
	}

	if err := svc.thumbnails.Delete(ctx, m.ThumbnailFilename); err != nil {
		svc.log.ErrorContext(ctx, "thumbnail removal failed", "name", m.ThumbnailFilename, "error", err)
	}

	svc.mediafiles.Invalidate(ctx, m)
	svc.comments.InvalidateAll(ctx)
	svc.albums.Invalidate(ctx, &domain.Album{Base: domain.Base{ID: m.AlbumID}})

	return nil
}
