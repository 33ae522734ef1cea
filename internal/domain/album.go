package domain

// Album groups mediafiles owned by a single user. MediafilesCount and
// MediafilesSize are denormalized aggregates over the album's mediafiles and
// are only written by the recompute-under-lock path.
type Album struct {
	Base

	UserID      int64  `json:"user_id"`
	IsLocked    bool   `json:"is_locked"`
	Name        string `json:"album_name"`
	Description string `json:"album_description"`

	MediafilesCount int64 `json:"mediafiles_count"`
	MediafilesSize  int64 `json:"mediafiles_size"`
}

// NewAlbum creates an album with zeroed aggregates.
func NewAlbum(userID int64, isLocked bool, name, description string) *Album {
	return &Album{
		UserID:      userID,
		IsLocked:    isLocked,
		Name:        name,
		Description: description,
	}
}

func (a *Album) Table() string { return "albums" }

func (a *Album) Columns() []string {
	return append(baseColumns(),
		"user_id", "is_locked", "album_name", "album_description",
		"mediafiles_count", "mediafiles_size")
}

func (a *Album) Values() []any {
	return []any{
		a.ID, a.CreatedAt, a.UpdatedAt,
		a.UserID, a.IsLocked, a.Name, a.Description,
		a.MediafilesCount, a.MediafilesSize,
	}
}

func (a *Album) Pointers() []any {
	return []any{
		&a.ID, &a.CreatedAt, &a.UpdatedAt,
		&a.UserID, &a.IsLocked, &a.Name, &a.Description,
		&a.MediafilesCount, &a.MediafilesSize,
	}
}
