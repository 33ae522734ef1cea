// Package imaging holds the pixel-level helpers behind media ingestion:
// content sniffing, dimension probing, thumbnail scaling, palette
// quantization and EXIF extraction.
package imaging

import (
	"bytes"
	"fmt"

	"github.com/mkrupp/homegallery/internal/domain"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
	MIMETypeGIF  = "image/gif"
	MIMETypeTIFF = "image/tiff"
	MIMETypeWebP = "image/webp"
)

//nolint:gochecknoglobals
var mimeTypeHeaders = map[string][]string{
	MIMETypeJPEG: {"\xFF\xD8"},
	MIMETypePNG:  {"\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"},
	MIMETypeGIF:  {"GIF87a", "GIF89a"},
	MIMETypeTIFF: {"\x49\x49\x2A\x00", "\x4D\x4D\x00\x2A"},
	MIMETypeWebP: {"RIFF"},
}

// DetectMIMEType identifies an image format from its leading bytes. The
// reported type comes from file content alone, never from the filename.
func DetectMIMEType(head []byte) (string, error) {
	for mimeType, headers := range mimeTypeHeaders {
		for _, header := range headers {
			if !bytes.HasPrefix(head, []byte(header)) {
				continue
			}

			// RIFF is a container; require the WEBP fourcc.
			if mimeType == MIMETypeWebP {
				if len(head) < 12 || string(head[8:12]) != "WEBP" {
					continue
				}
			}

			return mimeType, nil
		}
	}

	return "", fmt.Errorf("%w: unrecognized content", domain.ErrMediaTypeNotSupported)
}
