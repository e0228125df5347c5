package lunar

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func newTestCanvas(w, h int, scale float64) *Canvas {
	return NewCanvas(image.NewRGBA(image.Rect(0, 0, w, h)), scale)
}

func rgbaAt(c *Canvas, x, y int) color.RGBA {
	return c.Image().RGBAAt(x, y)
}

func TestCanvas_FillRect(t *testing.T) {
	c := newTestCanvas(4, 4, 1)
	c.FillRect(Rect{Width: 2, Height: 2}, ColorWhite)

	if got := rgbaAt(c, 1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("inside = %v", got)
	}
	if got := rgbaAt(c, 2, 2); got.A != 0 {
		t.Errorf("outside = %v, want transparent", got)
	}
}

func TestCanvas_FillRectPartialCoverage(t *testing.T) {
	c := newTestCanvas(2, 1, 1)
	c.FillRect(Rect{Width: 0.5, Height: 1}, ColorWhite)
	if got := rgbaAt(c, 0, 0); got.A != 128 || got.R != 128 {
		t.Errorf("half-covered pixel = %v, want premultiplied 128", got)
	}
}

func TestCanvas_GlobalAlpha(t *testing.T) {
	c := newTestCanvas(1, 1, 1)
	c.SetGlobalAlpha(0.5)
	c.FillRect(Rect{Width: 1, Height: 1}, ColorWhite)
	if got := rgbaAt(c, 0, 0); got.A != 128 {
		t.Errorf("alpha = %d, want 128", got.A)
	}
	c.SetGlobalAlpha(3)
	if c.GlobalAlpha() != 1 {
		t.Errorf("GlobalAlpha = %v, want clamped to 1", c.GlobalAlpha())
	}
}

func TestCanvas_SourceOver(t *testing.T) {
	c := newTestCanvas(1, 1, 1)
	c.FillRect(Rect{Width: 1, Height: 1}, Color{0, 0, 1, 1})
	c.FillRect(Rect{Width: 1, Height: 1}, Color{1, 0, 0, 0.5})
	got := rgbaAt(c, 0, 0)
	if got.A != 255 || got.R != 128 || got.B != 128 {
		t.Errorf("composite = %v, want half red over blue", got)
	}
}

func TestCanvas_ClipCircle(t *testing.T) {
	c := newTestCanvas(10, 10, 1)
	c.SetClipCircle(5, 5, 2)
	c.FillRect(Rect{Width: 10, Height: 10}, ColorWhite)

	if got := rgbaAt(c, 4, 4); got.A != 255 {
		t.Errorf("center alpha = %d, want 255", got.A)
	}
	if got := rgbaAt(c, 0, 0); got.A != 0 {
		t.Errorf("corner alpha = %d, want 0", got.A)
	}

	c.ResetClip()
	c.FillRect(Rect{Width: 1, Height: 1}, ColorWhite)
	if got := rgbaAt(c, 0, 0); got.A != 255 {
		t.Errorf("after ResetClip corner alpha = %d, want 255", got.A)
	}
}

func TestCanvas_Scale(t *testing.T) {
	c := newTestCanvas(8, 8, 2)
	c.FillRect(Rect{Width: 2, Height: 2}, ColorWhite)
	if got := rgbaAt(c, 3, 3); got.A != 255 {
		t.Errorf("(3,3) alpha = %d, want 255 at 2x", got.A)
	}
	if got := rgbaAt(c, 4, 4); got.A != 0 {
		t.Errorf("(4,4) alpha = %d, want 0", got.A)
	}
	if NewCanvas(c.Image(), 0).Scale() != 1 {
		t.Error("non-positive scale not treated as 1")
	}
}

func TestCanvas_FillCircleAndAnnulus(t *testing.T) {
	c := newTestCanvas(20, 20, 1)
	c.FillCircle(10, 10, 5, ColorWhite)
	if got := rgbaAt(c, 10, 10); got.A != 255 {
		t.Errorf("circle center alpha = %d", got.A)
	}
	if got := rgbaAt(c, 0, 0); got.A != 0 {
		t.Errorf("circle corner alpha = %d", got.A)
	}

	c.Clear()
	c.FillAnnulus(10, 10, 3, 6, ColorWhite)
	if got := rgbaAt(c, 10, 10); got.A != 0 {
		t.Errorf("annulus hole alpha = %d, want 0", got.A)
	}
	if got := rgbaAt(c, 14, 10); got.A != 255 {
		t.Errorf("annulus ring alpha = %d, want 255", got.A)
	}

	c.Clear()
	c.FillAnnulus(10, 10, 6, 3, ColorWhite)
	for _, b := range c.Image().Pix {
		if b != 0 {
			t.Fatal("inverted annulus painted pixels")
		}
	}
}

func TestLinearGradient(t *testing.T) {
	g := LinearGradient{X1: 10, Stops: []ColorStop{{0, Color{0, 0, 0, 1}}, {1, ColorWhite}}}
	tests := []struct {
		x    float64
		want float64
	}{
		{-5, 0}, {0, 0}, {5, 0.5}, {10, 1}, {20, 1},
	}
	for _, tt := range tests {
		if got := g.ColorAt(tt.x, 3); math.Abs(got.R-tt.want) > 1e-12 {
			t.Errorf("ColorAt(%v) R = %v, want %v", tt.x, got.R, tt.want)
		}
	}
	if got := (LinearGradient{Stops: g.Stops}).ColorAt(1, 1); got != ColorTransparent {
		t.Errorf("zero-length gradient = %+v, want transparent", got)
	}
}

func TestRadialGradient(t *testing.T) {
	g := RadialGradient{R1: 10, Stops: []ColorStop{{0, ColorWhite}, {1, Color{0, 0, 0, 1}}}}
	if got := g.ColorAt(5, 0); math.Abs(got.R-0.5) > 1e-9 {
		t.Errorf("ColorAt(5, 0) R = %v, want 0.5", got.R)
	}
	if got := g.ColorAt(0, 0); got.R != 1 {
		t.Errorf("ColorAt(0, 0) R = %v, want 1", got.R)
	}
	if got := g.ColorAt(30, 0); got.R != 0 {
		t.Errorf("ColorAt beyond R1 = %v, want last stop", got.R)
	}

	degenerate := RadialGradient{R0: 5, R1: 5, Stops: g.Stops}
	if got := degenerate.ColorAt(1, 1); got != ColorTransparent {
		t.Errorf("degenerate gradient = %+v, want transparent", got)
	}
}

func TestSampleStops_FadeKeepsColor(t *testing.T) {
	stops := []ColorStop{{0, ColorWhite}, {1, ColorWhite.WithAlpha(0)}}
	got := sampleStops(stops, 0.5)
	if math.Abs(got.A-0.5) > 1e-12 || math.Abs(got.R-1) > 1e-12 {
		t.Errorf("mid fade = %+v, want white at alpha 0.5", got)
	}
	if sampleStops(nil, 0.5) != ColorTransparent {
		t.Error("no stops should be transparent")
	}
	red := Color{1, 0, 0, 1}
	if sampleStops([]ColorStop{{0.3, red}}, 0.9) != red {
		t.Error("single stop should be flat")
	}
}
