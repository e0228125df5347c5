package lunar

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is a persistent, DPR-aware offscreen image that holds a painted
// disc. Its backing store is ceil(size·dpr) pixels square while callers think
// in size logical pixels. A Surface is owned by the caller and is not
// recycled between frames.
type Surface struct {
	image *ebiten.Image
	size  float64
	dpr   float64
	px    int
}

// NewSurface allocates a surface of size logical pixels at the given device
// pixel ratio. A non-positive dpr is treated as 1.
func NewSurface(size, dpr float64) *Surface {
	s := &Surface{}
	s.Resize(size, dpr)
	return s
}

// Image returns the backing *ebiten.Image, or nil after Dispose.
func (s *Surface) Image() *ebiten.Image {
	if s == nil {
		return nil
	}
	return s.image
}

// Size returns the logical edge length.
func (s *Surface) Size() float64 {
	return s.size
}

// DPR returns the device pixel ratio of the backing store.
func (s *Surface) DPR() float64 {
	return s.dpr
}

// PixelSize returns the backing store edge length in device pixels.
func (s *Surface) PixelSize() int {
	return s.px
}

// Resize reallocates the backing store when the pixel size changes. The
// contents are lost.
func (s *Surface) Resize(size, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	n := pixelSize(size, dpr)
	s.size, s.dpr = size, dpr
	if s.image != nil && s.px == n {
		return
	}
	if s.image != nil {
		s.image.Deallocate()
	}
	s.image = ebiten.NewImage(n, n)
	s.px = n
}

// Upload copies a premultiplied RGBA image into the backing store. img must
// match PixelSize; anything else is ignored.
func (s *Surface) Upload(img *image.RGBA) {
	if s.image == nil || img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() != s.px || b.Dy() != s.px {
		return
	}
	if img.Stride == 4*s.px {
		s.image.WritePixels(img.Pix)
		return
	}
	pix := make([]byte, 4*s.px*s.px)
	for y := 0; y < s.px; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*4*s.px:(y+1)*4*s.px], img.Pix[off:off+4*s.px])
	}
	s.image.WritePixels(pix)
}

// DrawTo draws the surface onto dst with its top-left at (x, y) in dst pixels.
// dstScale is the destination's device pixels per logical pixel; the surface
// is scaled by dstScale/DPR so it covers Size logical pixels there.
func (s *Surface) DrawTo(dst *ebiten.Image, x, y, dstScale float64) {
	if s.image == nil || dst == nil {
		return
	}
	if dstScale <= 0 {
		dstScale = 1
	}
	var op ebiten.DrawImageOptions
	k := dstScale / s.dpr
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(s.image, &op)
}

// Dispose deallocates the backing image. Rendering into a disposed surface is
// a no-op.
func (s *Surface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}
