package imaging_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"github.com/mkrupp/homegallery/internal/domain"

	. "github.com/mkrupp/homegallery/internal/util/imaging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buffer.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	return buffer.Bytes()
}

func solidImage(width, height int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetRGBA(x, y, fill)
		}
	}

	return img
}

func TestDetectMIMEType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		head    []byte
		want    string
		wantErr bool
	}{
		{"jpeg", []byte("\xFF\xD8\xFF\xE0rest"), MIMETypeJPEG, false},
		{"png", []byte("\x89PNG\x0D\x0A\x1A\x0Arest"), MIMETypePNG, false},
		{"gif", []byte("GIF89arest"), MIMETypeGIF, false},
		{"tiff little endian", []byte("\x49\x49\x2A\x00rest"), MIMETypeTIFF, false},
		{"tiff big endian", []byte("\x4D\x4D\x00\x2Arest"), MIMETypeTIFF, false},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), MIMETypeWebP, false},
		{"riff but not webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), "", true},
		{"text", []byte("definitely not an image"), "", true},
		{"empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DetectMIMEType(tt.head)

			if tt.wantErr {
				if !errors.Is(err, domain.ErrMediaTypeNotSupported) {
					t.Fatalf("expected ErrMediaTypeNotSupported, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("mimetype mismatch: want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	data := encodeJPEG(t, solidImage(64, 48, color.RGBA{R: 10, G: 20, B: 30, A: 255}))

	info, err := Probe(data)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	if info.Width != 64 || info.Height != 48 {
		t.Errorf("dimensions mismatch: want 64x48, got %dx%d", info.Width, info.Height)
	}

	if info.Format != "jpeg" {
		t.Errorf("format mismatch: want jpeg, got %q", info.Format)
	}

	if info.Mode != "RGB" {
		t.Errorf("mode mismatch: want RGB, got %q", info.Mode)
	}
}

func TestProbe_NotAnImage(t *testing.T) {
	t.Parallel()

	if _, err := Probe([]byte("plain text")); !errors.Is(err, domain.ErrMediaTypeNotSupported) {
		t.Fatalf("expected ErrMediaTypeNotSupported, got %v", err)
	}
}

func TestThumbnail_ScalesToFit(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, solidImage(400, 200, color.RGBA{R: 200, G: 0, B: 0, A: 255}))

	thumb, err := Thumbnail(data, 100, 100, 90, "catmullrom")
	if err != nil {
		t.Fatalf("thumbnail failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}

	if format != "jpeg" {
		t.Errorf("thumbnail format mismatch: want jpeg, got %q", format)
	}

	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("thumbnail size mismatch: want 100x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestThumbnail_NeverUpscales(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, solidImage(40, 20, color.RGBA{R: 0, G: 200, B: 0, A: 255}))

	thumb, err := Thumbnail(data, 100, 100, 90, "catmullrom")
	if err != nil {
		t.Fatalf("thumbnail failed: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}

	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("thumbnail size mismatch: want 40x20, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestThumbnail_UnknownInterpolator(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, solidImage(10, 10, color.RGBA{A: 255}))

	if _, err := Thumbnail(data, 5, 5, 90, "bicubic"); !errors.Is(err, ErrUnknownInterpolator) {
		t.Fatalf("expected ErrUnknownInterpolator, got %v", err)
	}
}

func TestColors_SolidImage(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, solidImage(16, 16, color.RGBA{R: 255, A: 255}))

	colors, err := Colors(data)
	if err != nil {
		t.Fatalf("colors failed: %v", err)
	}

	if got := colors["red"]; math.Abs(got-100) > 1e-9 {
		t.Errorf("red share mismatch: want 100, got %f", got)
	}

	if len(colors) != 1 {
		t.Errorf("expected a single color, got %v", colors)
	}
}

func TestColors_SplitImage(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			if x < 8 {
				img.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}

	colors, err := Colors(encodePNG(t, img))
	if err != nil {
		t.Fatalf("colors failed: %v", err)
	}

	var total float64
	for _, share := range colors {
		total += share
	}

	if math.Abs(total-100) > 1e-9 {
		t.Errorf("shares do not sum to 100: got %f", total)
	}

	if math.Abs(colors["blue"]-50) > 1e-9 {
		t.Errorf("blue share mismatch: want 50, got %f", colors["blue"])
	}

	if math.Abs(colors["white"]-50) > 1e-9 {
		t.Errorf("white share mismatch: want 50, got %f", colors["white"])
	}
}

func TestColors_NearestMatch(t *testing.T) {
	t.Parallel()

	// Slightly off-red still lands on the red palette entry.
	data := encodePNG(t, solidImage(8, 8, color.RGBA{R: 240, G: 10, B: 10, A: 255}))

	colors, err := Colors(data)
	if err != nil {
		t.Fatalf("colors failed: %v", err)
	}

	if _, ok := colors["red"]; !ok {
		t.Errorf("expected red to dominate, got %v", colors)
	}
}

func TestExtractMetadata_NoExif(t *testing.T) {
	t.Parallel()

	// A bare JPEG without an EXIF segment must not panic; either an empty
	// map or a decode error is acceptable for the best-effort pipeline.
	data := encodeJPEG(t, solidImage(8, 8, color.RGBA{A: 255}))

	fields, err := ExtractMetadata(data)
	if err == nil && len(fields) != 0 {
		t.Errorf("expected no fields for plain jpeg, got %v", fields)
	}
}
