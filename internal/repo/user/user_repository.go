// Package user persists gallery owner records and their avatar images.
package user

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/mkrupp/homegallery/internal/cache"
	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/repo/files"
	"github.com/mkrupp/homegallery/internal/store"
	"github.com/mkrupp/homegallery/internal/util/imaging"
)

// UserpicConfig holds configuration for avatar processing.
type UserpicConfig struct {
	// Width and Height are the fixed avatar dimensions; uploads are
	// cover-fitted and center-cropped to them.
	Width  int `env:"WIDTH" default:"100"`
	Height int `env:"HEIGHT" default:"100"`

	// Quality is the JPEG quality of the stored avatar.
	Quality int `env:"QUALITY" default:"80"`
}

// Repository provides user access with read-through caching and avatar
// storage.
type Repository struct {
	cache    *cache.Cache
	userpics *files.Store
	cfg      UserpicConfig
	log      logging.Logger
}

func NewRepository(c *cache.Cache, userpics *files.Store, cfg UserpicConfig) *Repository {
	return &Repository{
		cache:    c,
		userpics: userpics,
		cfg:      cfg,
		log:      logging.GetLogger("repo.user.user_repository"),
	}
}

// Insert stores a new user. Duplicate logins surface as ErrValueExists.
func (r *Repository) Insert(ctx context.Context, q store.Querier, user *domain.User) error {
	return store.Insert(ctx, q, user)
}

// Select returns the user by id, or nil when absent.
func (r *Repository) Select(ctx context.Context, q store.Querier, userID int64) (*domain.User, error) {
	var cached domain.User

	hit, err := r.cache.Get(ctx, (&domain.User{}).Table(), userID, &cached)
	if err != nil {
		r.log.WarnContext(ctx, "cache read failed", "id", userID, "error", err)
	} else if hit {
		return &cached, nil
	}

	user, err := store.SelectByID[domain.User](ctx, q, userID)
	if err != nil || user == nil {
		return user, err
	}

	if err := r.cache.Set(ctx, user); err != nil {
		r.log.WarnContext(ctx, "cache write failed", "id", userID, "error", err)
	}

	return user, nil
}

// SelectByLogin returns the user with the given login, or nil when absent.
func (r *Repository) SelectByLogin(ctx context.Context, q store.Querier, login string) (*domain.User, error) {
	return store.SelectBy[domain.User](ctx, q, store.Where("user_login", store.OpEq, login))
}

// Update writes the user back to its row.
func (r *Repository) Update(ctx context.Context, q store.Querier, user *domain.User) error {
	return store.Update(ctx, q, user)
}

// UploadUserpic replaces the user's avatar with a cover-fitted crop of the
// uploaded image and removes the previous avatar file.
func (r *Repository) UploadUserpic(ctx context.Context, q store.Querier, user *domain.User, data []byte) error {
	mimeType, err := imaging.DetectMIMEType(data)
	if err != nil {
		return fmt.Errorf("detect mimetype: %w", err)
	}

	avatar, err := r.coverFit(data)
	if err != nil {
		return fmt.Errorf("fit userpic: %w", err)
	}

	name := uuid.NewString() + ".jpg"
	if _, err := r.userpics.Write(ctx, name, bytes.NewReader(avatar)); err != nil {
		return fmt.Errorf("write userpic: %w", err)
	}

	if err := r.DeleteUserpic(ctx, q, user); err != nil {
		return err
	}

	user.Userpic = name

	if err := store.Update(ctx, q, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	r.log.DebugContext(ctx, "userpic uploaded",
		logging.Group("userpic", "user", user.ID, "type", mimeType, "name", name))

	return nil
}

// DeleteUserpic removes the user's avatar file and clears the reference.
// Users without an avatar are left untouched.
func (r *Repository) DeleteUserpic(ctx context.Context, q store.Querier, user *domain.User) error {
	if user.Userpic == "" {
		return nil
	}

	if err := r.userpics.Delete(ctx, user.Userpic); err != nil {
		return fmt.Errorf("delete userpic: %w", err)
	}

	user.Userpic = ""

	if err := store.Update(ctx, q, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// coverFit scales the image so it covers the avatar box, crops the center
// and encodes it as JPEG.
func (r *Repository) coverFit(data []byte) ([]byte, error) {
	original, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := original.Bounds()

	ratio := max(
		float64(r.cfg.Width)/float64(bounds.Dx()),
		float64(r.cfg.Height)/float64(bounds.Dy()),
	)

	scaled := resize.Resize(
		uint(float64(bounds.Dx())*ratio+0.5),
		uint(float64(bounds.Dy())*ratio+0.5),
		original,
		resize.Lanczos3,
	)

	offsetX := (scaled.Bounds().Dx() - r.cfg.Width) / 2
	offsetY := (scaled.Bounds().Dy() - r.cfg.Height) / 2

	cropped := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	for y := range r.cfg.Height {
		for x := range r.cfg.Width {
			cropped.Set(x, y, scaled.At(scaled.Bounds().Min.X+offsetX+x, scaled.Bounds().Min.Y+offsetY+y))
		}
	}

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, cropped, &jpeg.Options{Quality: r.cfg.Quality}); err != nil {
		return nil, fmt.Errorf("encode userpic: %w", err)
	}

	return buffer.Bytes(), nil
}

// Invalidate drops the user's cache entry. Call after commit.
func (r *Repository) Invalidate(ctx context.Context, user *domain.User) {
	if err := r.cache.Delete(ctx, user); err != nil {
		r.log.WarnContext(ctx, "cache invalidation failed", "id", user.ID, "error", err)
	}
}
