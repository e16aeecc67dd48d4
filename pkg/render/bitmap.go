package render

import (
	"image"
	"image/png"
	"io"
	"math"
)

// Bitmap is a tightly packed row-major RGBA image, row 0 at the top. It is
// the core's sole image type: the orchestrator allocates one as the output
// framebuffer, and the loader decodes material textures into the same type
// so the rasterizer's sampling path never has to special-case the source.
type Bitmap struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height*4
}

// NewBitmap allocates a zeroed (transparent black) bitmap.
func NewBitmap(width, height int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, newRenderError(DimensionError, "width and height must be positive, got %dx%d", width, height)
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// Clear fills every pixel with the given RGBA byte quadruplet.
func (b *Bitmap) Clear(r, g, bl, a uint8) {
	if len(b.Pix) == 0 {
		return
	}
	b.Pix[0], b.Pix[1], b.Pix[2], b.Pix[3] = r, g, bl, a
	for filled := 4; filled < len(b.Pix); filled *= 2 {
		copy(b.Pix[filled:], b.Pix[:filled])
	}
}

// SetPixel writes a pixel. Out-of-bounds writes are a silent no-op.
func (b *Bitmap) SetPixel(x, y int, r, g, bl, a uint8) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = r, g, bl, a
}

// At returns the pixel at (x, y), or fully transparent black out of bounds.
func (b *Bitmap) At(x, y int) (r, g, bl, a uint8) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return 0, 0, 0, 0
	}
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// SampleNearest samples the bitmap as a texture at UV coordinates using
// nearest-neighbor lookup with CLAMP_TO_EDGE and no V-flip, returning
// components in [0,1]. A nil bitmap samples as opaque white.
func (b *Bitmap) SampleNearest(u, v float64) (r, g, bl, a float64) {
	if b == nil || b.Width == 0 || b.Height == 0 {
		return 1, 1, 1, 1
	}
	tx := clampInt(int(math.Floor(u*float64(b.Width-1))), 0, b.Width-1)
	ty := clampInt(int(math.Floor(v*float64(b.Height-1))), 0, b.Height-1)
	cr, cg, cb, ca := b.At(tx, ty)
	return float64(cr) / 255, float64(cg) / 255, float64(cb) / 255, float64(ca) / 255
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToImage wraps the bitmap's pixel buffer in a standard image.RGBA without
// copying.
func (b *Bitmap) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// EncodePNG writes the bitmap to w as a PNG, delegating quantization and
// framing entirely to the standard library encoder.
func (b *Bitmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, b.ToImage())
}

// BitmapFromImage decodes an arbitrary image.Image (as produced by
// image/png or image/jpeg decoders) into a Bitmap, used for loading
// material textures.
func BitmapFromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bmp := &Bitmap{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			bmp.SetPixel(x, y, uint8(r>>8), uint8(g>>8), uint8(bl>>8), uint8(a>>8))
		}
	}
	return bmp
}
