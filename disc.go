package lunar

import (
	"image"
	"math"
)

// DiscRadiusRatio is the disc radius as a fraction of the surface size. The
// remaining margin is room for the outer glow.
const DiscRadiusRatio = 0.42

const (
	defaultEarthshineIntensity = 0.15
	defaultTerminatorSoftness  = 0.3
	craterAlpha                = 0.2
	glowThreshold              = 0.3
)

// DiscConfig controls the look of the rendered Moon.
//
// Every field is optional: a zero field takes its value from
// DefaultDiscConfig.
type DiscConfig struct {
	MoonColor       Color
	ShadowColor     Color
	EarthshineColor Color

	// EarthshineIntensity is the alpha of the earthshine fill in [0, 1].
	// Zero means the default; use Off for no earthshine.
	EarthshineIntensity float64
	// TerminatorSoftness is the terminator blur half-width as a fraction of
	// the radius, in [0, 1]. Zero means the default; use Off for a hard edge.
	TerminatorSoftness float64

	HideCraters bool
	HideGlow    bool
}

// Off requests an explicit zero for a DiscConfig float field. Any negative
// value works the same way.
const Off = -1.0

// DefaultDiscConfig returns the stock palette and settings.
func DefaultDiscConfig() DiscConfig {
	return DiscConfig{
		MoonColor:           MustParseHexColor("#F4F1E8"),
		ShadowColor:         MustParseHexColor("#1B1E2B"),
		EarthshineColor:     MustParseHexColor("#3A4A6B"),
		EarthshineIntensity: defaultEarthshineIntensity,
		TerminatorSoftness:  defaultTerminatorSoftness,
	}
}

// withDefaults fills unset fields from DefaultDiscConfig and caps the
// fractional settings at 1. Disabled floats stay Off.
func (cfg DiscConfig) withDefaults() DiscConfig {
	def := DefaultDiscConfig()
	if cfg.MoonColor == (Color{}) {
		cfg.MoonColor = def.MoonColor
	}
	if cfg.ShadowColor == (Color{}) {
		cfg.ShadowColor = def.ShadowColor
	}
	if cfg.EarthshineColor == (Color{}) {
		cfg.EarthshineColor = def.EarthshineColor
	}
	if cfg.EarthshineIntensity == 0 {
		cfg.EarthshineIntensity = def.EarthshineIntensity
	}
	if cfg.TerminatorSoftness == 0 {
		cfg.TerminatorSoftness = def.TerminatorSoftness
	}
	cfg.EarthshineIntensity = resolveFraction(cfg.EarthshineIntensity)
	cfg.TerminatorSoftness = resolveFraction(cfg.TerminatorSoftness)
	return cfg
}

// resolveFraction caps v at 1 and folds negatives into Off, so a resolved
// config passes through withDefaults unchanged.
func resolveFraction(v float64) float64 {
	if v < 0 {
		return Off
	}
	return math.Min(v, 1)
}

// crater is a static dent, positioned and sized relative to the disc radius.
type crater struct {
	dx, dy, r float64
}

// craters is a fixed texture; it does not move with the phase.
var craters = [8]crater{
	{-0.35, -0.25, 0.12},
	{0.25, -0.40, 0.08},
	{0.40, 0.10, 0.15},
	{-0.15, 0.35, 0.10},
	{0.10, 0.05, 0.07},
	{-0.50, 0.15, 0.06},
	{0.30, 0.45, 0.09},
	{-0.05, -0.55, 0.05},
}

// DiscGeometry holds the derived layout of one paint pass, in logical units.
type DiscGeometry struct {
	CenterX, CenterY float64
	Radius           float64
	// TerminatorX is the terminator position in [-1, 1] across the disc.
	TerminatorX float64
	// TerminatorPx is TerminatorX mapped to a logical x coordinate.
	TerminatorPx float64
	// TerminatorWidth is the half-width of the terminator gradient.
	TerminatorWidth float64
	// ShadowRight is true when the shadow lies right of the terminator.
	ShadowRight bool
}

// TerminatorX places the terminator across the disc in [-1, 1].
//
// Waxing: -1 + 2·illumination, with the shadow to the right, so the lit
// width equals the illumination. Waning: 1 - 4·(illumination - 0.5), with
// the shadow to the left; this map reaches the right rim at half
// illumination and clamps there for the rest of the cycle.
func TerminatorX(illumination float64, waxing bool) float64 {
	var tx float64
	if waxing {
		tx = -1 + illumination*2
	} else {
		tx = 1 - (illumination-0.5)*4
	}
	return math.Max(-1, math.Min(1, tx))
}

// Geometry computes the paint layout for d on a size×size surface.
func (cfg DiscConfig) Geometry(d PhaseDescriptor, size float64) DiscGeometry {
	cfg = cfg.withDefaults()
	r := size * DiscRadiusRatio
	cx, cy := size/2, size/2
	tx := TerminatorX(d.Illumination, d.IsWaxing)
	return DiscGeometry{
		CenterX:         cx,
		CenterY:         cy,
		Radius:          r,
		TerminatorX:     tx,
		TerminatorPx:    cx + tx*r,
		TerminatorWidth: r * math.Max(cfg.TerminatorSoftness, 0),
		ShadowRight:     d.IsWaxing,
	}
}

// DiscRenderer paints Moon discs. It owns a reusable pixel buffer so repeated
// renders at the same size do not allocate.
type DiscRenderer struct {
	cfg    DiscConfig
	buf    *image.RGBA
	canvas *Canvas
}

// NewDiscRenderer creates a renderer with cfg (zero fields take defaults).
func NewDiscRenderer(cfg DiscConfig) *DiscRenderer {
	return &DiscRenderer{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration. Disabled floats read as Off.
func (r *DiscRenderer) Config() DiscConfig {
	return r.cfg
}

// SetConfig replaces the configuration. Takes effect on the next paint.
func (r *DiscRenderer) SetConfig(cfg DiscConfig) {
	r.cfg = cfg.withDefaults()
}

// Paint draws the disc for d onto c, covering a size×size logical square.
//
// Steps, each composited over the last: clear; base disc; spherical shading;
// craters; terminator mask; earthshine; outer glow. Shading through
// earthshine are clipped to the disc.
func (r *DiscRenderer) Paint(c *Canvas, d PhaseDescriptor, size float64) {
	cfg := r.cfg
	g := cfg.Geometry(d, size)
	cx, cy, rad := g.CenterX, g.CenterY, g.Radius

	c.ResetClip()
	c.SetGlobalAlpha(1)
	c.Clear()

	c.FillCircle(cx, cy, rad, cfg.MoonColor)

	c.SetClipCircle(cx, cy, rad)
	paintShading(c, cx, cy, rad)
	if !cfg.HideCraters {
		paintCraters(c, cx, cy, rad)
	}
	paintTerminator(c, g, cfg.ShadowColor)
	paintEarthshine(c, g, cfg)
	c.ResetClip()

	if !cfg.HideGlow && d.Illumination > glowThreshold {
		paintGlow(c, cx, cy, rad, size, math.Min(d.Illumination, 0.8)*0.3, cfg.MoonColor)
	}
}

func paintShading(c *Canvas, cx, cy, rad float64) {
	c.FillCircle(cx, cy, rad, RadialGradient{
		X0: cx - rad*0.3, Y0: cy - rad*0.3, R0: 0,
		X1: cx, Y1: cy, R1: rad,
		Stops: []ColorStop{
			{0, ColorWhite.WithAlpha(0.22)},
			{0.55, ColorWhite.WithAlpha(0)},
			{1, Color{A: 0.38}},
		},
	})
}

func paintCraters(c *Canvas, cx, cy, rad float64) {
	prev := c.GlobalAlpha()
	c.SetGlobalAlpha(craterAlpha)
	for _, cr := range craters {
		x, y, r := cx+cr.dx*rad, cy+cr.dy*rad, cr.r*rad
		c.FillCircle(x, y, r, RadialGradient{
			X0: x - r*0.2, Y0: y - r*0.2, R0: 0,
			X1: x, Y1: y, R1: r,
			Stops: []ColorStop{
				{0, Color{A: 0.7}},
				{0.7, Color{A: 0.35}},
				{1, Color{A: 0}},
			},
		})
	}
	c.SetGlobalAlpha(prev)
}

// paintTerminator fills the shadow half-plane with a gradient running from
// opaque shadow to transparent across ±TerminatorWidth of the terminator.
func paintTerminator(c *Canvas, g DiscGeometry, shadow Color) {
	top, height := g.CenterY-g.Radius, g.Radius*2
	x, w := g.TerminatorPx, g.TerminatorWidth

	if w < 1e-9 {
		if g.ShadowRight {
			c.FillRect(Rect{X: x, Y: top, Width: g.CenterX + g.Radius - x, Height: height}, shadow)
		} else {
			c.FillRect(Rect{X: g.CenterX - g.Radius, Y: top, Width: x - (g.CenterX - g.Radius), Height: height}, shadow)
		}
		return
	}

	stops := []ColorStop{{0, shadow}, {1, shadow.WithAlpha(0)}}
	if g.ShadowRight {
		left := x - w
		c.FillRect(Rect{X: left, Y: top, Width: g.CenterX + g.Radius - left, Height: height},
			LinearGradient{X0: x + w, Y0: 0, X1: x - w, Y1: 0, Stops: stops})
		return
	}
	right := x + w
	left := g.CenterX - g.Radius
	c.FillRect(Rect{X: left, Y: top, Width: right - left, Height: height},
		LinearGradient{X0: x - w, Y0: 0, X1: x + w, Y1: 0, Stops: stops})
}

// paintEarthshine tints the shadowed half-plane only.
func paintEarthshine(c *Canvas, g DiscGeometry, cfg DiscConfig) {
	if cfg.EarthshineIntensity <= 0 {
		return
	}
	top, height := g.CenterY-g.Radius, g.Radius*2
	var r Rect
	if g.ShadowRight {
		r = Rect{X: g.TerminatorPx, Y: top, Width: g.CenterX + g.Radius - g.TerminatorPx, Height: height}
	} else {
		left := g.CenterX - g.Radius
		r = Rect{X: left, Y: top, Width: g.TerminatorPx - left, Height: height}
	}
	prev := c.GlobalAlpha()
	c.SetGlobalAlpha(cfg.EarthshineIntensity)
	c.FillRect(r, cfg.EarthshineColor)
	c.SetGlobalAlpha(prev)
}

// paintGlow draws a halo in the margin around the disc.
func paintGlow(c *Canvas, cx, cy, rad, size, intensity float64, tint Color) {
	outer := size / 2
	c.FillAnnulus(cx, cy, rad, outer, RadialGradient{
		X0: cx, Y0: cy, R0: rad,
		X1: cx, Y1: cy, R1: outer,
		Stops: []ColorStop{
			{0, tint.WithAlpha(intensity)},
			{1, tint.WithAlpha(0)},
		},
	})
}

// Render paints d into dst. The surface is resized to size if needed. A nil or
// disposed surface makes this a no-op and returns false.
func (r *DiscRenderer) Render(dst *Surface, d PhaseDescriptor) bool {
	if dst == nil || dst.Image() == nil {
		return false
	}
	n := dst.PixelSize()
	if r.buf == nil || r.buf.Rect.Dx() != n {
		r.buf = image.NewRGBA(image.Rect(0, 0, n, n))
		r.canvas = nil
	}
	if r.canvas == nil || r.canvas.Scale() != dst.DPR() {
		r.canvas = NewCanvas(r.buf, dst.DPR())
	}
	r.Paint(r.canvas, d, dst.Size())
	dst.Upload(r.buf)
	return true
}

// Render paints d onto dst at size logical pixels using cfg. It is the
// one-shot form of DiscRenderer.Render and does nothing when dst is nil or
// disposed.
func Render(dst *Surface, d PhaseDescriptor, size float64, cfg DiscConfig) {
	if dst == nil || dst.Image() == nil {
		return
	}
	if dst.Size() != size {
		dst.Resize(size, dst.DPR())
	}
	NewDiscRenderer(cfg).Render(dst, d)
}

// RenderImage paints d headlessly into a new image of ceil(size·dpr) pixels.
func RenderImage(d PhaseDescriptor, size, dpr float64, cfg DiscConfig) *image.RGBA {
	if dpr <= 0 {
		dpr = 1
	}
	n := pixelSize(size, dpr)
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	NewDiscRenderer(cfg).Paint(NewCanvas(img, dpr), d, size)
	return img
}

func pixelSize(size, dpr float64) int {
	n := int(math.Ceil(size * dpr))
	if n < 1 {
		n = 1
	}
	return n
}
