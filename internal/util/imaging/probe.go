package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	// Register decoders for the supported formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mkrupp/homegallery/internal/domain"
)

// Info describes the decoded properties of an image.
type Info struct {
	Width  int
	Height int
	Format string
	Mode   string
}

// Probe decodes image headers and reports dimensions, format and pixel mode
// without decoding the full bitmap.
func Probe(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", domain.ErrMediaTypeNotSupported, err)
	}

	return Info{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
		Mode:   colorMode(cfg.ColorModel),
	}, nil
}

func colorMode(model color.Model) string {
	switch model {
	case color.GrayModel, color.Gray16Model:
		return "L"
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model:
		return "RGBA"
	case color.CMYKModel:
		return "CMYK"
	}

	if _, ok := model.(color.Palette); ok {
		return "P"
	}

	// YCbCr and everything else decodes to plain RGB.
	return "RGB"
}
