package gallerysvc

import (
	"context"
	"io"

	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/store"
)

// GalleryService defines the interface for managing the media gallery:
// users and their albums, mediafile ingestion, comments and favorites.
type GalleryService interface {
	// CreateUser registers a gallery user.
	// Returns ErrValueExists if the login is taken.
	CreateUser(ctx context.Context, login, firstName, lastName string) (*domain.User, error)

	// GetUser retrieves a user by id.
	// Returns ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)

	// UploadUserpic replaces the user's avatar with the given image.
	UploadUserpic(ctx context.Context, userID int64, image []byte) (*domain.User, error)

	// DeleteUserpic removes the user's avatar.
	DeleteUserpic(ctx context.Context, userID int64) (*domain.User, error)

	// CreateAlbum creates an album owned by the given user.
	CreateAlbum(ctx context.Context, userID int64, isLocked bool, name, description string) (*domain.Album, error)

	// GetAlbum retrieves an album by id.
	// Returns ErrNotFound if the album does not exist.
	GetAlbum(ctx context.Context, albumID int64) (*domain.Album, error)

	// ListAlbums returns albums matching the filters.
	ListAlbums(ctx context.Context, opts store.ListOptions, filters ...store.Filter) ([]*domain.Album, error)

	// UpdateAlbum writes the album's mutable fields.
	UpdateAlbum(ctx context.Context, albumID int64, isLocked bool, name, description string) (*domain.Album, error)

	// DeleteAlbum removes an empty album.
	// Returns ErrValueLocked while mediafiles still reference it.
	DeleteAlbum(ctx context.Context, albumID int64) error

	// UploadMediafile ingests an uploaded image into an album: the file is
	// persisted, probed, thumbnailed, color-profiled, tagged and finally
	// encrypted at rest. Either every step lands or none do.
	// Returns ErrValueLocked when the album is locked.
	UploadMediafile(
		ctx context.Context,
		userID, albumID int64,
		originalFilename string,
		content io.Reader,
		description string,
	) (*domain.Mediafile, error)

	// GetMediafile retrieves a mediafile with its metadata, colorset and
	// tags loaded.
	// Returns ErrNotFound if the mediafile does not exist.
	GetMediafile(ctx context.Context, mediafileID int64) (*domain.Mediafile, error)

	// ListMediafiles returns mediafiles matching the filters.
	ListMediafiles(ctx context.Context, opts store.ListOptions, filters ...store.Filter) ([]*domain.Mediafile, error)

	// DownloadMediafile returns the decrypted original file content.
	DownloadMediafile(ctx context.Context, mediafileID int64) (*domain.Mediafile, []byte, error)

	// DownloadThumbnail returns the thumbnail content.
	DownloadThumbnail(ctx context.Context, mediafileID int64) (*domain.Mediafile, []byte, error)

	// UpdateMediafile moves a mediafile between albums and rewrites its
	// description, re-syncing tags. Both affected albums are recounted.
	// Returns ErrValueLocked when the target album is locked.
	UpdateMediafile(
		ctx context.Context,
		mediafileID, albumID int64,
		originalFilename, description string,
	) (*domain.Mediafile, error)

	// DeleteMediafile removes the mediafile, its derived rows, comments,
	// favorites and stored files, and recounts the album.
	DeleteMediafile(ctx context.Context, mediafileID int64) error

	// AddComment attaches a comment and bumps the mediafile's counter.
	AddComment(ctx context.Context, userID, mediafileID int64, content string) (*domain.Comment, error)

	// GetComment retrieves a comment by id.
	GetComment(ctx context.Context, commentID int64) (*domain.Comment, error)

	// ListComments returns the comments of a mediafile, oldest first.
	ListComments(ctx context.Context, mediafileID int64, opts store.ListOptions) ([]*domain.Comment, error)

	// UpdateComment rewrites a comment's content.
	UpdateComment(ctx context.Context, commentID int64, content string) (*domain.Comment, error)

	// DeleteComment removes a comment and recounts the mediafile.
	DeleteComment(ctx context.Context, commentID int64) error

	// AddFavorite marks a mediafile as the user's favorite. Idempotent.
	AddFavorite(ctx context.Context, userID, mediafileID int64) error

	// RemoveFavorite drops the user's favorite mark. Idempotent.
	RemoveFavorite(ctx context.Context, userID, mediafileID int64) error

	// ListFavorites returns the mediafile ids the user has favorited.
	ListFavorites(ctx context.Context, userID int64) ([]int64, error)
}
