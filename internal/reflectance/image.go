package reflectance

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Open decodes a PNG, JPEG, BMP, GIF or TIFF file.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return img, nil
}

// Resample resizes img to rows x cols with a linear filter. Downscaling
// widens the filter support, which acts as the anti-aliasing pass.
func Resample(img image.Image, rows, cols int) image.Image {
	b := img.Bounds()
	if b.Dy() == rows && b.Dx() == cols {
		return img
	}
	return imaging.Resize(img, cols, rows, imaging.Linear)
}

// FromImage converts img to a map in [0, 1]. Gray images give one channel,
// everything else three. Stored values are taken to be sRGB encoded.
func FromImage(img image.Image, space ColorSpace) *Map {
	b := img.Bounds()
	gray := isGray(img)
	channels := 3
	if gray {
		channels = 1
	}

	m := New(b.Dy(), b.Dx(), channels)
	decode := func(v uint32) float64 {
		f := float64(v) / 0xffff
		if space == Linear {
			return srgbToLinear(f)
		}
		return f
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := y - b.Min.Y
		for x := b.Min.X; x < b.Max.X; x++ {
			col := x - b.Min.X
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			if gray {
				m.Set(row, col, 0, decode(uint32(c.R)))
				continue
			}
			m.Set(row, col, 0, decode(uint32(c.R)))
			m.Set(row, col, 1, decode(uint32(c.G)))
			m.Set(row, col, 2, decode(uint32(c.B)))
		}
	}
	return m
}

func isGray(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	default:
		return false
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
