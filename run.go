package lunar

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws an FPS/TPS readout in the top-left corner.
	ShowFPS bool
	// Resizable lets the user resize the window; the widget relayouts.
	Resizable bool
}

// ErrQuit can be returned from an update func to close the window. Run then
// returns nil.
var ErrQuit = ebiten.Termination

// Run opens a window hosting w and blocks until it closes. The window follows
// the monitor's device scale factor so the disc stays sharp on high-density
// displays.
func Run(w *Widget, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = int(w.width), int(w.height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	g := &game{widget: w}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// game adapts a Widget to ebiten.Game with device-scale handling.
type game struct {
	widget *Widget
	fps    *fpsOverlay
}

func (g *game) Update() error {
	if g.fps != nil {
		g.fps.update(frameDelta())
	}
	return g.widget.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.widget.Draw(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.widget.SetDeviceScale(ebiten.Monitor().DeviceScaleFactor())
	return g.widget.Layout(outsideWidth, outsideHeight)
}

// fpsOverlay displays the current FPS and TPS, refreshed about twice a second.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float32
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	o := &fpsOverlay{img: ebiten.NewImage(100, 32)}
	o.redraw()
	return o
}

func (o *fpsOverlay) update(dt float32) {
	o.elapsed += dt
	if o.elapsed < 0.5 {
		return
	}
	o.elapsed = 0
	o.redraw()
}

func (o *fpsOverlay) redraw() {
	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
