package gallerysvc

// GalleryConfig holds configuration parameters for the gallery service.
type GalleryConfig struct {
	// MaxSize is the maximum allowed upload size in bytes.
	MaxSize int64 `env:"MAX_SIZE" default:"104857600"`

	// ThumbnailWidth and ThumbnailHeight bound the thumbnail box; images are
	// scaled to fit inside it, preserving aspect ratio.
	ThumbnailWidth  int `env:"THUMBNAIL_WIDTH" default:"300"`
	ThumbnailHeight int `env:"THUMBNAIL_HEIGHT" default:"300"`

	// ThumbnailQuality is the JPEG quality of generated thumbnails.
	ThumbnailQuality int `env:"THUMBNAIL_QUALITY" default:"80"`

	// Interpolator specifies the image scaling algorithm to use.
	// Valid values are: "nearestneighbor", "catmullrom", "bilinear", "approxbilinear"
	Interpolator string `env:"INTERPOLATOR" default:"catmullrom"`

	// EncryptionSecret and EncryptionSalt feed the key derivation for the
	// at-rest encryption of original files.
	EncryptionSecret string `env:"ENCRYPTION_SECRET" default:""`
	EncryptionSalt   string `env:"ENCRYPTION_SALT" default:"homegallery"`
}
