package texture

import (
	"image"
	"image/color"
	"math/rand/v2"
)

// Default checkerboard parameters.
const (
	DefaultResolution = 100 // Square size in pixels
	DefaultDivisions  = 8   // Squares per side
)

// Default checkerboard colors.
var (
	CheckerDark  = color.RGBA{R: 0, G: 100, B: 0, A: 255}   // dark green
	CheckerLight = color.RGBA{R: 34, G: 139, B: 34, A: 255} // forest green
)

// CheckerOptions configures GenerateChecker.
type CheckerOptions struct {
	Resolution int // Square size in pixels, DefaultResolution if <= 0
	Divisions  int // Squares per side, DefaultDivisions if <= 0

	A, B color.RGBA // Square colors, alpha is forced to 255

	// Rand, when set, replaces A and B with two colors sampled once.
	Rand *rand.Rand
}

// GenerateChecker returns a square checkerboard of
// (Divisions*Resolution)² pixels. Pixel (i, j) gets A when i/Resolution
// and j/Resolution differ in parity, B otherwise.
func GenerateChecker(opts CheckerOptions) *image.RGBA {
	res := opts.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	div := opts.Divisions
	if div <= 0 {
		div = DefaultDivisions
	}

	a, b := opts.A, opts.B
	if opts.Rand != nil {
		a = randomOpaque(opts.Rand)
		b = randomOpaque(opts.Rand)
	}
	a.A, b.A = 255, 255

	size := res * div
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			c := b
			if (i/res)%2 != (j/res)%2 {
				c = a
			}
			o := img.PixOffset(i, j)
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}

// DefaultChecker returns the 800x800 green fallback texture.
func DefaultChecker() *image.RGBA {
	return GenerateChecker(CheckerOptions{A: CheckerDark, B: CheckerLight})
}

func randomOpaque(r *rand.Rand) color.RGBA {
	return color.RGBA{R: uint8(r.IntN(256)), G: uint8(r.IntN(256)), B: uint8(r.IntN(256)), A: 255}
}
