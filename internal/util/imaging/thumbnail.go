package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"golang.org/x/image/draw"
)

// ErrUnknownInterpolator is returned when an unsupported interpolation method
// is specified.
var ErrUnknownInterpolator = errors.New("unknown interpolator")

//nolint:gochecknoglobals
var (
	// interpolMap maps interpolator names to their implementations.
	// Supported values: "nearestneighbor", "catmullrom", "bilinear", "approxbilinear".
	interpolMap = map[string]draw.Interpolator{
		"nearestneighbor": draw.NearestNeighbor,
		"catmullrom":      draw.CatmullRom,
		"bilinear":        draw.BiLinear,
		"approxbilinear":  draw.ApproxBiLinear,
	}
)

func getInterpolatorByName(name string) (draw.Interpolator, error) {
	interpol, ok := interpolMap[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownInterpolator
	}

	return interpol, nil
}

// Thumbnail scales an image to fit within maxWidth by maxHeight, preserving
// aspect ratio and never upscaling, and encodes the result as JPEG.
func Thumbnail(data []byte, maxWidth, maxHeight, quality int, interpolator string) ([]byte, error) {
	original, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := original.Bounds()

	ratio := min(
		float64(maxWidth)/float64(bounds.Dx()),
		float64(maxHeight)/float64(bounds.Dy()),
		1.0,
	)

	width := int(float64(bounds.Dx()) * ratio)
	height := int(float64(bounds.Dy()) * ratio)

	bitmap := image.NewRGBA(image.Rect(0, 0, width, height))

	interpol, err := getInterpolatorByName(interpolator)
	if err != nil {
		return nil, fmt.Errorf("get interpolator: %w", err)
	}

	interpol.Scale(bitmap, bitmap.Bounds(), original, bounds, draw.Over, nil)

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, bitmap, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buffer.Bytes(), nil
}
