package gallerysvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/store"
	"github.com/mkrupp/homegallery/internal/util/cryptox"
	"github.com/mkrupp/homegallery/internal/util/imaging"
)

// sniffSize is how many leading bytes content sniffing looks at.
const sniffSize = 512

// ingest runs the upload pipeline inside the given transaction. On success
// the mediafile row and its derived rows exist (uncommitted), the original
// is stored encrypted and the thumbnail is written. On failure every file
// written so far is removed; undoing the rows is the rollback's job.
func (svc *StoreGalleryService) ingest(
	ctx context.Context,
	tx *store.Tx,
	userID, albumID int64,
	originalFilename string,
	content io.Reader,
	description string,
) (m *domain.Mediafile, err error) {
	mediafileName := uuid.NewString()
	thumbnailName := uuid.NewString() + ".jpg"

	log := svc.log.With(logging.Group("upload",
		"filename", originalFilename,
		"mediafile", mediafileName,
	))

	defer func() {
		if err == nil {
			return
		}

		log.ErrorContext(ctx, "upload pipeline failed", "error", err)

		if cleanupErr := svc.originals.Delete(ctx, mediafileName); cleanupErr != nil {
			log.ErrorContext(ctx, "original cleanup failed", "error", cleanupErr)
		}

		if cleanupErr := svc.thumbnails.Delete(ctx, thumbnailName); cleanupErr != nil {
			log.ErrorContext(ctx, "thumbnail cleanup failed", "error", cleanupErr)
		}
	}()

	// Persist the upload before anything looks at it.
	if _, err := svc.originals.Write(ctx, mediafileName, content); err != nil {
		return nil, fmt.Errorf("write original: %w", err)
	}

	// Mimetype and size are independent; probe them concurrently.
	var (
		mimeType string
		filesize int64
	)

	group := new(errgroup.Group)

	group.Go(func() error {
		head, err := readHead(svc.originals.Path(mediafileName))
		if err != nil {
			return fmt.Errorf("read head: %w", err)
		}

		if mimeType, err = imaging.DetectMIMEType(head); err != nil {
			return err
		}

		return nil
	})

	group.Go(func() error {
		size, err := svc.originals.Size(mediafileName)
		if err != nil {
			return fmt.Errorf("stat original: %w", err)
		}

		filesize = size

		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if filesize > svc.cfg.MaxSize {
		return nil, fmt.Errorf("%w: %d exceeds %d", domain.ErrMediaTooLarge, filesize, svc.cfg.MaxSize)
	}

	data, err := svc.originals.Read(ctx, mediafileName)
	if err != nil {
		return nil, fmt.Errorf("read original: %w", err)
	}

	info, err := imaging.Probe(data)
	if err != nil {
		return nil, fmt.Errorf("probe image: %w", err)
	}

	m = &domain.Mediafile{
		UserID:            userID,
		AlbumID:           albumID,
		MIMEType:          mimeType,
		Filesize:          filesize,
		Width:             int64(info.Width),
		Height:            int64(info.Height),
		Format:            info.Format,
		Mode:              info.Mode,
		OriginalFilename:  originalFilename,
		MediafileFilename: mediafileName,
		ThumbnailFilename: thumbnailName,
		Description:       description,
	}

	// The row gets its id here; it persists only if the caller commits.
	if err := svc.mediafiles.Insert(ctx, tx, m); err != nil {
		return nil, fmt.Errorf("insert mediafile: %w", err)
	}

	// Derivation fan-out. Thumbnail and tags decide the upload's fate;
	// colorset and metadata are nice-to-have and only log their failures.
	group = new(errgroup.Group)

	group.Go(func() error {
		thumbnail, err := svc.thumbnailFn(data)
		if err != nil {
			return fmt.Errorf("make thumbnail: %w", err)
		}

		if _, err := svc.thumbnails.Write(ctx, thumbnailName, bytes.NewReader(thumbnail)); err != nil {
			return fmt.Errorf("write thumbnail: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		percentages, err := imaging.Colors(data)
		if err != nil {
			log.WarnContext(ctx, "colorset skipped", "error", err)

			return nil
		}

		if err := store.Insert(ctx, tx, domain.NewColorset(m.ID, percentages)); err != nil {
			log.WarnContext(ctx, "colorset skipped", "error", err)
		}

		return nil
	})

	group.Go(func() error {
		fields, err := imaging.ExtractMetadata(data)
		if err != nil {
			log.WarnContext(ctx, "metadata skipped", "error", err)

			return nil
		}

		for key, value := range fields {
			if err := store.Insert(ctx, tx, domain.NewMetadata(m.ID, key, value)); err != nil {
				log.WarnContext(ctx, "metadata skipped", "key", key, "error", err)
			}
		}

		return nil
	})

	group.Go(func() error {
		if err := svc.tags.Apply(ctx, tx, m.ID, description); err != nil {
			return fmt.Errorf("apply tags: %w", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Encrypt last, once nothing needs the plaintext anymore.
	if err := cryptox.EncryptFile(svc.originals.Path(mediafileName), svc.key); err != nil {
		return nil, fmt.Errorf("encrypt original: %w", err)
	}

	log.DebugContext(ctx, "upload pipeline finished",
		"id", m.ID, "type", mimeType, "size", filesize)

	return m, nil
}

func (svc *StoreGalleryService) makeThumbnail(data []byte) ([]byte, error) {
	return imaging.Thumbnail(
		data,
		svc.cfg.ThumbnailWidth,
		svc.cfg.ThumbnailHeight,
		svc.cfg.ThumbnailQuality,
		svc.cfg.Interpolator,
	)
}

func readHead(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	head := make([]byte, sniffSize)

	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return head[:n], nil
}
