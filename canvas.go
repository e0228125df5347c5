package lunar

import (
	"image"
	"math"
)

// Paint yields a straight-alpha color for a point in logical coordinates.
// Color, LinearGradient and RadialGradient implement it.
type Paint interface {
	ColorAt(x, y float64) Color
}

// ColorAt makes a Color a flat Paint.
func (c Color) ColorAt(x, y float64) Color {
	return c
}

// ColorStop is one stop of a gradient. Offset is in [0, 1].
type ColorStop struct {
	Offset float64
	Color  Color
}

// LinearGradient varies along the line (X0, Y0) → (X1, Y1). Points beyond the
// ends take the first or last stop color.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

// ColorAt projects (x, y) onto the gradient line.
func (g LinearGradient) ColorAt(x, y float64) Color {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return ColorTransparent
	}
	t := ((x-g.X0)*dx + (y-g.Y0)*dy) / l2
	return sampleStops(g.Stops, t)
}

// RadialGradient is the two-circle cone gradient: the color at a point is
// taken from the largest ω for which the point lies on the circle
// interpolated between (X0, Y0, R0) at ω = 0 and (X1, Y1, R1) at ω = 1.
// Offsetting the start circle produces an off-center highlight.
type RadialGradient struct {
	X0, Y0, R0 float64
	X1, Y1, R1 float64
	Stops      []ColorStop
}

// ColorAt solves the cone equation for (x, y). Points the cone never covers
// are transparent.
func (g RadialGradient) ColorAt(x, y float64) Color {
	cdx, cdy := g.X1-g.X0, g.Y1-g.Y0
	dr := g.R1 - g.R0
	pdx, pdy := x-g.X0, y-g.Y0

	a := cdx*cdx + cdy*cdy - dr*dr
	b := pdx*cdx + pdy*cdy + g.R0*dr
	c := pdx*pdx + pdy*pdy - g.R0*g.R0

	var omega float64
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return ColorTransparent
		}
		omega = c / (2 * b)
		if g.R0+omega*dr < 0 {
			return ColorTransparent
		}
	} else {
		disc := b*b - a*c
		if disc < 0 {
			return ColorTransparent
		}
		sq := math.Sqrt(disc)
		w1 := (b + sq) / a
		w2 := (b - sq) / a
		if w1 < w2 {
			w1, w2 = w2, w1
		}
		switch {
		case g.R0+w1*dr >= 0:
			omega = w1
		case g.R0+w2*dr >= 0:
			omega = w2
		default:
			return ColorTransparent
		}
	}
	return sampleStops(g.Stops, omega)
}

// sampleStops interpolates stops at t, clamped to the end stops. Adjacent
// stops blend in premultiplied space so fades to transparent don't darken.
func sampleStops(stops []ColorStop, t float64) Color {
	switch len(stops) {
	case 0:
		return ColorTransparent
	case 1:
		return stops[0].Color
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		s0, s1 := stops[i-1], stops[i]
		if t > s1.Offset {
			continue
		}
		span := s1.Offset - s0.Offset
		if span <= 0 {
			return s1.Color
		}
		return lerpPremultiplied(s0.Color, s1.Color, (t-s0.Offset)/span)
	}
	return last.Color
}

func lerpPremultiplied(a, b Color, t float64) Color {
	alpha := a.A + (b.A-a.A)*t
	if alpha <= 0 {
		return ColorTransparent
	}
	r := (a.R*a.A + (b.R*b.A-a.R*a.A)*t) / alpha
	g := (a.G*a.A + (b.G*b.A-a.G*a.A)*t) / alpha
	bl := (a.B*a.A + (b.B*b.A-a.B*a.A)*t) / alpha
	return Color{R: r, G: g, B: bl, A: alpha}
}

// clipCircle is a circular clip region in logical coordinates.
type clipCircle struct {
	cx, cy, r float64
}

// Canvas paints onto a premultiplied *image.RGBA with source-over
// compositing. Callers work in logical units; every coordinate is multiplied
// by Scale before rasterizing, so a canvas over a 2x backing store draws the
// same picture at twice the resolution.
//
// Circle edges are anti-aliased with a one device pixel ramp.
type Canvas struct {
	img   *image.RGBA
	scale float64
	clip  *clipCircle
	alpha float64
}

// NewCanvas wraps img. A non-positive scale is treated as 1.
func NewCanvas(img *image.RGBA, scale float64) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	return &Canvas{img: img, scale: scale, alpha: 1}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Scale returns the device pixels per logical unit.
func (c *Canvas) Scale() float64 {
	return c.scale
}

// Clear sets every pixel to transparent black.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// SetGlobalAlpha multiplies the alpha of every subsequent fill.
func (c *Canvas) SetGlobalAlpha(a float64) {
	c.alpha = clamp01(a)
}

// GlobalAlpha returns the current global alpha.
func (c *Canvas) GlobalAlpha() float64 {
	return c.alpha
}

// SetClipCircle restricts subsequent fills to a circle.
func (c *Canvas) SetClipCircle(cx, cy, r float64) {
	c.clip = &clipCircle{cx: cx, cy: cy, r: r}
}

// ResetClip removes the clip region.
func (c *Canvas) ResetClip() {
	c.clip = nil
}

// FillCircle fills a circle centered at (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r float64, p Paint) {
	c.FillAnnulus(cx, cy, 0, r, p)
}

// FillAnnulus fills the ring between inner and outer radii. An inner radius of
// zero fills the whole circle.
func (c *Canvas) FillAnnulus(cx, cy, inner, outer float64, p Paint) {
	if outer <= 0 || outer <= inner {
		return
	}
	s := c.scale
	dcx, dcy := cx*s, cy*s
	dOuter, dInner := outer*s, inner*s

	bounds := c.deviceBounds(dcx-dOuter-1, dcy-dOuter-1, dcx+dOuter+1, dcy+dOuter+1)
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			fx, fy := float64(px)+0.5, float64(py)+0.5
			dist := math.Hypot(fx-dcx, fy-dcy)
			cov := edgeCoverage(dOuter - dist)
			if dInner > 0 {
				cov -= edgeCoverage(dInner - dist)
			}
			if cov <= 0 {
				continue
			}
			c.blend(px, py, fx/s, fy/s, cov, p)
		}
	}
}

// FillRect fills an axis-aligned rectangle. Partial pixel coverage at the edges
// is anti-aliased.
func (c *Canvas) FillRect(r Rect, p Paint) {
	if r.Empty() {
		return
	}
	s := c.scale
	x0, y0 := r.X*s, r.Y*s
	x1, y1 := (r.X+r.Width)*s, (r.Y+r.Height)*s

	bounds := c.deviceBounds(x0, y0, x1, y1)
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		covY := overlap(float64(py), float64(py)+1, y0, y1)
		if covY <= 0 {
			continue
		}
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			cov := covY * overlap(float64(px), float64(px)+1, x0, x1)
			if cov <= 0 {
				continue
			}
			fx, fy := float64(px)+0.5, float64(py)+0.5
			c.blend(px, py, fx/s, fy/s, cov, p)
		}
	}
}

// deviceBounds converts a device-space box into an integer pixel rectangle
// clipped to the image.
func (c *Canvas) deviceBounds(x0, y0, x1, y1 float64) image.Rectangle {
	r := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	)
	return r.Intersect(c.img.Rect)
}

// blend composites p at logical (lx, ly) onto device pixel (px, py) with the
// given shape coverage, applying the clip and global alpha.
func (c *Canvas) blend(px, py int, lx, ly, cov float64, p Paint) {
	if c.clip != nil {
		s := c.scale
		d := math.Hypot(lx*s-c.clip.cx*s, ly*s-c.clip.cy*s)
		cov *= edgeCoverage(c.clip.r*s - d)
		if cov <= 0 {
			return
		}
	}
	src := p.ColorAt(lx, ly)
	a := clamp01(src.A) * cov * c.alpha
	if a <= 0 {
		return
	}

	off := c.img.PixOffset(px, py)
	pix := c.img.Pix[off : off+4 : off+4]
	inv := 1 - a
	pix[0] = toByte(clamp01(src.R)*a + float64(pix[0])/255*inv)
	pix[1] = toByte(clamp01(src.G)*a + float64(pix[1])/255*inv)
	pix[2] = toByte(clamp01(src.B)*a + float64(pix[2])/255*inv)
	pix[3] = toByte(a + float64(pix[3])/255*inv)
}

// edgeCoverage maps a signed distance inside an edge (in device pixels) to a
// coverage in [0, 1] with a one pixel ramp centered on the edge.
func edgeCoverage(inside float64) float64 {
	return clamp01(inside + 0.5)
}

// overlap returns the length of [a0, a1] ∩ [b0, b1].
func overlap(a0, a1, b0, b1 float64) float64 {
	lo := math.Max(a0, b0)
	hi := math.Min(a1, b1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func toByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
