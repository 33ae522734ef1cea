package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/mkrupp/homegallery/internal/domain"
)

//nolint:gochecknoglobals
var paletteColors = map[string]color.RGBA{
	"maroon":  {R: 128, G: 0, B: 0, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"olive":   {R: 128, G: 128, B: 0, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"lime":    {R: 0, G: 255, B: 0, A: 255},
	"teal":    {R: 0, G: 128, B: 128, A: 255},
	"aqua":    {R: 0, G: 255, B: 255, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"navy":    {R: 0, G: 0, B: 128, A: 255},
	"fuchsia": {R: 255, G: 0, B: 255, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"silver":  {R: 192, G: 192, B: 192, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
}

// Colors quantizes every pixel to its nearest palette color and returns the
// share of the image each color covers, in percent. Colors not present in
// the image are omitted from the result.
func Colors(data []byte) (map[string]float64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMediaTypeNotSupported, err)
	}

	bounds := img.Bounds()

	counts := make(map[string]int, len(paletteColors))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			counts[nearestColor(img.At(x, y))]++
		}
	}

	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrMediaTypeNotSupported)
	}

	percentages := make(map[string]float64, len(counts))
	for name, count := range counts {
		percentages[name] = float64(count) / (float64(total) / 100)
	}

	return percentages, nil
}

func nearestColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	r, g, b = r>>8, g>>8, b>>8

	var (
		best     string
		bestDist int64 = -1
	)

	for _, name := range domain.ColorNames {
		p := paletteColors[name]

		dr := int64(r) - int64(p.R)
		dg := int64(g) - int64(p.G)
		db := int64(b) - int64(p.B)

		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = name, dist
		}
	}

	return best
}
