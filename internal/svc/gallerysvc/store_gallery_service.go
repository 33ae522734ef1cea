package gallerysvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/repo/album"
	"github.com/mkrupp/homegallery/internal/repo/comment"
	"github.com/mkrupp/homegallery/internal/repo/favorite"
	"github.com/mkrupp/homegallery/internal/repo/files"
	"github.com/mkrupp/homegallery/internal/repo/mediafile"
	"github.com/mkrupp/homegallery/internal/repo/tag"
	"github.com/mkrupp/homegallery/internal/repo/user"
	"github.com/mkrupp/homegallery/internal/store"
	"github.com/mkrupp/homegallery/internal/util/cryptox"
)

// StoreGalleryService implements GalleryService on top of the relational
// store, the cache and three filesystem stores (originals, thumbnails,
// userpics). Originals are encrypted at rest; thumbnails are not.
type StoreGalleryService struct {
	store *store.Store

	users      *user.Repository
	albums     *album.Repository
	mediafiles *mediafile.Repository
	comments   *comment.Repository
	favorites  *favorite.Repository
	tags       *tag.Repository

	originals  *files.Store
	thumbnails *files.Store

	cfg GalleryConfig
	key []byte
	log logging.Logger

	// thumbnailFn is swapped out in tests to fail the thumbnail stage.
	thumbnailFn func(data []byte) ([]byte, error)
}

var _ GalleryService = (*StoreGalleryService)(nil)

// NewStoreGalleryService creates a StoreGalleryService with the given
// configuration, wiring the repositories and filesystem stores.
func NewStoreGalleryService(
	ctx context.Context,
	s *store.Store,
	c *cache.Cache,
	storeFactory files.StoreFactory,
	cfg GalleryConfig,
	userpicCfg user.UserpicConfig,
) (*StoreGalleryService, error) {
	log := logging.GetLogger("svc.gallerysvc.store_gallery_service")

	originals, err := storeFactory(ctx, "originals")
	if err != nil {
		return nil, fmt.Errorf("new originals store: %w", err)
	}

	thumbnails, err := storeFactory(ctx, "thumbnails")
	if err != nil {
		return nil, fmt.Errorf("new thumbnails store: %w", err)
	}

	userpics, err := storeFactory(ctx, "userpics")
	if err != nil {
		return nil, fmt.Errorf("new userpics store: %w", err)
	}

	tags := tag.NewRepository()

	svc := &StoreGalleryService{
		store:      s,
		users:      user.NewRepository(c, userpics, userpicCfg),
		albums:     album.NewRepository(c),
		mediafiles: mediafile.NewRepository(c, tags),
		comments:   comment.NewRepository(c),
		favorites:  favorite.NewRepository(),
		tags:       tags,
		originals:  originals,
		thumbnails: thumbnails,
		cfg:        cfg,
		key:        cryptox.DeriveKey([]byte(cfg.EncryptionSecret), []byte(cfg.EncryptionSalt)),
		log:        log,
	}
	svc.thumbnailFn = svc.makeThumbnail

	return svc, nil
}

// CreateUser implements GalleryService.CreateUser.
func (svc *StoreGalleryService) CreateUser(
	ctx context.Context,
	login, firstName, lastName string,
) (u *domain.User, err error) {
	defer svc.logged(ctx, "user created", &err, "login", login)()

	u = domain.NewUser(login, firstName, lastName)

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.users.Insert(ctx, tx, u)
	}); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

// GetUser implements GalleryService.GetUser.
func (svc *StoreGalleryService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := svc.users.Select(ctx, svc.store.DB(), userID)
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	if u == nil {
		return nil, fmt.Errorf("select user %d: %w", userID, domain.ErrNotFound)
	}

	return u, nil
}

// UploadUserpic implements GalleryService.UploadUserpic.
func (svc *StoreGalleryService) UploadUserpic(
	ctx context.Context,
	userID int64,
	image []byte,
) (u *domain.User, err error) {
	defer svc.logged(ctx, "userpic uploaded", &err, "user", userID)()

	if u, err = svc.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.users.UploadUserpic(ctx, tx, u, image)
	}); err != nil {
		return nil, fmt.Errorf("upload userpic: %w", err)
	}

	svc.users.Invalidate(ctx, u)

	return u, nil
}

// DeleteUserpic implements GalleryService.DeleteUserpic.
func (svc *StoreGalleryService) DeleteUserpic(ctx context.Context, userID int64) (u *domain.User, err error) {
	defer svc.logged(ctx, "userpic deleted", &err, "user", userID)()

	if u, err = svc.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.users.DeleteUserpic(ctx, tx, u)
	}); err != nil {
		return nil, fmt.Errorf("delete userpic: %w", err)
	}

	svc.users.Invalidate(ctx, u)

	return u, nil
}

// CreateAlbum implements GalleryService.CreateAlbum.
func (svc *StoreGalleryService) CreateAlbum(
	ctx context.Context,
	userID int64,
	isLocked bool,
	name, description string,
) (a *domain.Album, err error) {
	defer svc.logged(ctx, "album created", &err, "user", userID, "name", name)()

	a = domain.NewAlbum(userID, isLocked, name, description)

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.albums.Insert(ctx, tx, a)
	}); err != nil {
		return nil, fmt.Errorf("insert album: %w", err)
	}

	return a, nil
}

// GetAlbum implements GalleryService.GetAlbum.
func (svc *StoreGalleryService) GetAlbum(ctx context.Context, albumID int64) (*domain.Album, error) {
	a, err := svc.albums.Select(ctx, svc.store.DB(), albumID)
	if err != nil {
		return nil, fmt.Errorf("select album: %w", err)
	}

	if a == nil {
		return nil, fmt.Errorf("select album %d: %w", albumID, domain.ErrNotFound)
	}

	return a, nil
}

// ListAlbums implements GalleryService.ListAlbums.
func (svc *StoreGalleryService) ListAlbums(
	ctx context.Context,
	opts store.ListOptions,
	filters ...store.Filter,
) ([]*domain.Album, error) {
	return svc.albums.SelectAll(ctx, svc.store.DB(), opts, filters...)
}

// UpdateAlbum implements GalleryService.UpdateAlbum.
func (svc *StoreGalleryService) UpdateAlbum(
	ctx context.Context,
	albumID int64,
	isLocked bool,
	name, description string,
) (a *domain.Album, err error) {
	defer svc.logged(ctx, "album updated", &err, "album", albumID)()

	if a, err = svc.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}

	a.IsLocked = isLocked
	a.Name = name
	a.Description = description

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.albums.Update(ctx, tx, a)
	}); err != nil {
		return nil, fmt.Errorf("update album: %w", err)
	}

	svc.albums.Invalidate(ctx, a)

	return a, nil
}

// DeleteAlbum implements GalleryService.DeleteAlbum.
func (svc *StoreGalleryService) DeleteAlbum(ctx context.Context, albumID int64) (err error) {
	defer svc.logged(ctx, "album deleted", &err, "album", albumID)()

	a, err := svc.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.albums.Delete(ctx, tx, a)
	}); err != nil {
		return fmt.Errorf("delete album: %w", err)
	}

	svc.albums.Invalidate(ctx, a)

	return nil
}

// AddComment implements GalleryService.AddComment.
func (svc *StoreGalleryService) AddComment(
	ctx context.Context,
	userID, mediafileID int64,
	content string,
) (c *domain.Comment, err error) {
	defer svc.logged(ctx, "comment added", &err, "mediafile", mediafileID)()

	m, err := svc.GetMediafile(ctx, mediafileID)
	if err != nil {
		return nil, err
	}

	c = domain.NewComment(userID, mediafileID, content)

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		if err := svc.comments.Insert(ctx, tx, c); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}

		return svc.mediafiles.RefreshComments(ctx, tx, mediafileID)
	}); err != nil {
		return nil, err
	}

	svc.mediafiles.Invalidate(ctx, m)

	return c, nil
}

// GetComment implements GalleryService.GetComment.
func (svc *StoreGalleryService) GetComment(ctx context.Context, commentID int64) (*domain.Comment, error) {
	c, err := svc.comments.Select(ctx, svc.store.DB(), commentID)
	if err != nil {
		return nil, fmt.Errorf("select comment: %w", err)
	}

	if c == nil {
		return nil, fmt.Errorf("select comment %d: %w", commentID, domain.ErrNotFound)
	}

	return c, nil
}

// ListComments implements GalleryService.ListComments.
func (svc *StoreGalleryService) ListComments(
	ctx context.Context,
	mediafileID int64,
	opts store.ListOptions,
) ([]*domain.Comment, error) {
	if opts.OrderBy == "" {
		opts.OrderBy = "id"
		opts.Order = store.Asc
	}

	return svc.comments.SelectAll(ctx, svc.store.DB(), opts,
		store.Where("mediafile_id", store.OpEq, mediafileID))
}

// UpdateComment implements GalleryService.UpdateComment.
func (svc *StoreGalleryService) UpdateComment(
	ctx context.Context,
	commentID int64,
	content string,
) (c *domain.Comment, err error) {
	defer svc.logged(ctx, "comment updated", &err, "comment", commentID)()

	if c, err = svc.GetComment(ctx, commentID); err != nil {
		return nil, err
	}

	c.Content = content

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.comments.Update(ctx, tx, c)
	}); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	svc.comments.Invalidate(ctx, c)

	return c, nil
}

// DeleteComment implements GalleryService.DeleteComment.
func (svc *StoreGalleryService) DeleteComment(ctx context.Context, commentID int64) (err error) {
	defer svc.logged(ctx, "comment deleted", &err, "comment", commentID)()

	c, err := svc.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	if err := svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		if err := svc.comments.Delete(ctx, tx, c); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}

		return svc.mediafiles.RefreshComments(ctx, tx, c.MediafileID)
	}); err != nil {
		return err
	}

	svc.comments.Invalidate(ctx, c)
	svc.mediafiles.Invalidate(ctx, &domain.Mediafile{Base: domain.Base{ID: c.MediafileID}})

	return nil
}

// AddFavorite implements GalleryService.AddFavorite.
func (svc *StoreGalleryService) AddFavorite(ctx context.Context, userID, mediafileID int64) (err error) {
	defer svc.logged(ctx, "favorite added", &err, "user", userID, "mediafile", mediafileID)()

	if _, err := svc.GetMediafile(ctx, mediafileID); err != nil {
		return err
	}

	return svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.favorites.Insert(ctx, tx, userID, mediafileID)
	})
}

// RemoveFavorite implements GalleryService.RemoveFavorite.
func (svc *StoreGalleryService) RemoveFavorite(ctx context.Context, userID, mediafileID int64) (err error) {
	defer svc.logged(ctx, "favorite removed", &err, "user", userID, "mediafile", mediafileID)()

	return svc.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		return svc.favorites.Delete(ctx, tx, userID, mediafileID)
	})
}

// ListFavorites implements GalleryService.ListFavorites.
func (svc *StoreGalleryService) ListFavorites(ctx context.Context, userID int64) ([]int64, error) {
	return svc.favorites.SelectAllFor(ctx, svc.store.DB(), userID)
}

// logged returns a deferred closure reporting the operation's outcome.
func (svc *StoreGalleryService) logged(
	ctx context.Context,
	msg string,
	err *error,
	args ...any,
) func() {
	log := svc.log.With(args...)

	return func() {
		if *err != nil {
			log.ErrorContext(ctx, msg+" failed", "error", *err)
		} else {
			log.DebugContext(ctx, msg)
		}
	}
}
