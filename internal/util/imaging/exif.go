package imaging

import (
	"bytes"
	"fmt"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

type exifCollector struct {
	fields map[string]string
}

var _ exif.Walker = (*exifCollector)(nil)

func (c *exifCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.fields[string(name)] = tag.String()

	return nil
}

// ExtractMetadata reads EXIF tags from an image and returns them as a flat
// string map. Images without EXIF data yield an empty map, not an error.
func ExtractMetadata(data []byte) (map[string]string, error) {
	fields, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		if exif.IsCriticalError(err) {
			return nil, fmt.Errorf("decode exif: %w", err)
		}

		return map[string]string{}, nil
	}

	collector := &exifCollector{fields: make(map[string]string)}
	if err := fields.Walk(collector); err != nil {
		return nil, fmt.Errorf("walk exif: %w", err)
	}

	return collector.fields, nil
}
