package domain

// Mediafile is a single uploaded image. MediafileFilename and
// ThumbnailFilename are opaque generated names inside the originals and
// thumbnails directories; the original file is encrypted at rest.
// CommentsCount is a denormalized aggregate maintained under lock.
type Mediafile struct {
	Base

	UserID  int64 `json:"user_id"`
	AlbumID int64 `json:"album_id"`

	MIMEType string `json:"mimetype"`
	Filesize int64  `json:"filesize"`
	Width    int64  `json:"width"`
	Height   int64  `json:"height"`
	Format   string `json:"format"`
	Mode     string `json:"mode"`

	OriginalFilename  string `json:"original_filename"`
	MediafileFilename string `json:"mediafile_filename"`
	ThumbnailFilename string `json:"thumbnail_filename"`
	Description       string `json:"mediafile_description"`
	CommentsCount     int64  `json:"comments_count"`

	// Derived snapshots loaded by explicit joins. Not columns; they travel
	// with the record through the cache.
	Metadata map[string]string `json:"mediafile_metadata,omitempty"`
	Colorset *Colorset         `json:"mediafile_colorset,omitempty"`
	Tags     []string          `json:"mediafile_tags,omitempty"`
}

func (m *Mediafile) Table() string { return "mediafiles" }

func (m *Mediafile) Columns() []string {
	return append(baseColumns(),
		"user_id", "album_id",
		"mimetype", "filesize", "width", "height", "format", "mode",
		"original_filename", "mediafile_filename", "thumbnail_filename",
		"mediafile_description", "comments_count")
}

func (m *Mediafile) Values() []any {
	return []any{
		m.ID, m.CreatedAt, m.UpdatedAt,
		m.UserID, m.AlbumID,
		m.MIMEType, m.Filesize, m.Width, m.Height, m.Format, m.Mode,
		m.OriginalFilename, m.MediafileFilename, m.ThumbnailFilename,
		m.Description, m.CommentsCount,
	}
}

func (m *Mediafile) Pointers() []any {
	return []any{
		&m.ID, &m.CreatedAt, &m.UpdatedAt,
		&m.UserID, &m.AlbumID,
		&m.MIMEType, &m.Filesize, &m.Width, &m.Height, &m.Format, &m.Mode,
		&m.OriginalFilename, &m.MediafileFilename, &m.ThumbnailFilename,
		&m.Description, &m.CommentsCount,
	}
}
