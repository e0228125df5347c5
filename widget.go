package lunar

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	defaultWidgetWidth  = 480.0
	defaultWidgetHeight = 640.0
	minDiscSize         = 32.0

	timelineHeight = 72.0
	widgetMargin   = 16.0
	infoLineHeight = 16.0
	infoGap        = 8.0
)

// WidgetConfig configures a Widget. Every field is optional.
type WidgetConfig struct {
	// InitialDate is the first selected date. Zero means Now().
	InitialDate time.Time
	// TimeZone is the zone dates are shown and laid out in. Nil keeps the
	// location of whatever date is set. It never changes the phase.
	TimeZone *time.Location
	// Location is the observer position. It is carried for hosts and does
	// not change the phase.
	Location *Location
	// ShowDetails adds the terminator angle and next full/new moon to the
	// info panel.
	ShowDetails bool

	// Width and Height are the logical size. Zero uses 480×640.
	Width, Height float64
	// DiscSize is the disc edge in logical pixels. Zero fits the disc to the
	// space above the info panel.
	DiscSize float64

	Disc  DiscConfig
	Scrub ScrubConfig

	// Cache is the phase cache to read through. Nil creates a private one.
	Cache *PhaseCache

	// OnDateChange is called once per committed date change, after the
	// descriptor has been recomputed.
	OnDateChange func(date time.Time, d PhaseDescriptor)

	// Now is the clock. Nil uses time.Now.
	Now func() time.Time
}

// Widget is the lunar timeline: a disc, a text readout and a scrubber strip.
// It owns the selected date; every change flows scrubber → date → cache →
// descriptor → disc and info panel, and out through OnDateChange.
//
// The disc is repainted at most once per Draw no matter how many date changes
// arrived since the last frame, always from the latest one.
//
// Widget implements ebiten.Game, so it can be run directly, embedded in a
// larger game, or driven through Run for device-scale handling.
type Widget struct {
	// SnapshotDir is where Snapshot writes PNG files.
	SnapshotDir string
	// Background fills the screen at the start of Draw. A transparent
	// background leaves the screen untouched.
	Background Color

	cfg     WidgetConfig
	now     func() time.Time
	cache   *PhaseCache
	scrub   *Scrubber
	disc    *DiscRenderer
	surface *Surface
	input   *inputRouter
	tween   *DateTween
	runner  *ScriptRunner
	themes  chan DiscConfig

	updateFunc func() error

	date  time.Time
	phase PhaseDescriptor
	info  []string

	width, height float64
	discSize      float64
	scale         float64
	customBounds  bool

	dirty      bool
	paintCount int
	dateEvents int
	debug      bool
	disposed   bool
}

// NewWidget creates a widget. The initial date does not fire OnDateChange.
func NewWidget(cfg WidgetConfig) *Widget {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewPhaseCache(DefaultCacheCapacity, nil)
	}
	date := cfg.InitialDate
	if date.IsZero() {
		date = now()
	}
	if cfg.TimeZone != nil {
		date = date.In(cfg.TimeZone)
	}

	w := &Widget{
		SnapshotDir:  "snapshots",
		Background:   MustParseHexColor("#0E1018"),
		cfg:          cfg,
		now:          now,
		cache:        cache,
		disc:         NewDiscRenderer(cfg.Disc),
		input:        newInputRouter(),
		themes:       make(chan DiscConfig, 1),
		scale:        1,
		customBounds: !cfg.Scrub.Bounds.Empty(),
	}
	w.scrub = NewScrubber(cfg.Scrub, date)
	w.scrub.OnChange(w.onScrub)

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = defaultWidgetWidth
	}
	if height <= 0 {
		height = defaultWidgetHeight
	}
	w.Resize(width, height)
	w.applyDate(date, false)
	return w
}

// --- Date ---

// Date returns the selected date.
func (w *Widget) Date() time.Time {
	return w.date
}

// Phase returns the descriptor for the selected date, as served by the cache.
func (w *Widget) Phase() PhaseDescriptor {
	return w.phase
}

// PhaseOptions returns the observer options the widget was configured with.
func (w *Widget) PhaseOptions() PhaseOptions {
	return PhaseOptions{Location: w.cfg.Location, TimeZone: w.cfg.TimeZone}
}

// Info returns the current text readout.
func (w *Widget) Info() []string {
	return append([]string(nil), w.info...)
}

// SetDate selects t and reports it through OnDateChange. Setting the current
// date again does nothing. Any running JumpTo animation is stopped.
func (w *Widget) SetDate(t time.Time) {
	w.tween = nil
	if t.Equal(w.date) {
		return
	}
	w.applyDate(t, true)
}

// JumpTo animates the selected date to t over the given number of seconds.
// Each frame of the animation is a regular date change. A non-positive
// duration is the same as SetDate.
func (w *Widget) JumpTo(t time.Time, seconds float32) {
	if seconds <= 0 {
		w.SetDate(t)
		return
	}
	w.tween = NewDateTween(w.date, t, seconds, nil)
}

// Animating reports whether a JumpTo animation is running.
func (w *Widget) Animating() bool {
	return w.tween != nil
}

// onScrub is the scrubber's change callback. A drag overrides any animation.
func (w *Widget) onScrub(t time.Time) {
	w.tween = nil
	w.applyDate(t, true)
}

func (w *Widget) applyDate(t time.Time, emit bool) {
	if w.cfg.TimeZone != nil {
		t = t.In(w.cfg.TimeZone)
	}
	w.date = t
	// The strip lays out local days, so it must see the converted time.
	w.scrub.SetDate(t)
	w.phase = w.cache.Get(t)

	shown := w.phase
	shown.Instant = t
	w.info = FormatInfo(shown, w.cfg.ShowDetails)

	w.dirty = true
	w.dateEvents++
	if emit && w.cfg.OnDateChange != nil {
		w.cfg.OnDateChange(t, w.phase)
	}
}

func (w *Widget) location() *time.Location {
	if w.cfg.TimeZone != nil {
		return w.cfg.TimeZone
	}
	return w.date.Location()
}

// --- Configuration ---

// SetDiscConfig replaces the disc look. Must be called on the game goroutine;
// use QueueDiscConfig from elsewhere.
func (w *Widget) SetDiscConfig(cfg DiscConfig) {
	w.disc.SetConfig(cfg)
	w.dirty = true
}

// QueueDiscConfig hands a new disc look to the widget from any goroutine. It
// is applied on the next Update; a newer config replaces one still queued.
func (w *Widget) QueueDiscConfig(cfg DiscConfig) {
	for {
		select {
		case w.themes <- cfg:
			return
		default:
		}
		select {
		case <-w.themes:
		default:
		}
	}
}

func (w *Widget) drainThemes() {
	select {
	case cfg := <-w.themes:
		w.SetDiscConfig(cfg)
	default:
	}
}

// SetShowDetails toggles the detailed info lines.
func (w *Widget) SetShowDetails(on bool) {
	if w.cfg.ShowDetails == on {
		return
	}
	w.cfg.ShowDetails = on
	shown := w.phase
	shown.Instant = w.date
	w.info = FormatInfo(shown, on)
	if w.cfg.DiscSize <= 0 {
		w.discSize = w.fitDiscSize()
		w.syncSurface()
	}
}

// Scrubber returns the embedded scrubber.
func (w *Widget) Scrubber() *Scrubber {
	return w.scrub
}

// Cache returns the phase cache the widget reads through.
func (w *Widget) Cache() *PhaseCache {
	return w.cache
}

// --- Layout ---

// Resize sets the logical size and recomputes the layout. The disc is
// repainted on the next Draw if its size changed.
func (w *Widget) Resize(width, height float64) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height

	size := w.cfg.DiscSize
	if size <= 0 {
		size = w.fitDiscSize()
	}
	w.discSize = size
	if !w.customBounds {
		w.scrub.SetBounds(w.timelineRect())
	}
	w.syncSurface()
}

// SetDeviceScale sets the device pixels per logical pixel. The disc's backing
// store follows it.
func (w *Widget) SetDeviceScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	if scale == w.scale {
		return
	}
	w.scale = scale
	w.input.scale = scale
	w.syncSurface()
}

// Size returns the logical width and height.
func (w *Widget) Size() (width, height float64) {
	return w.width, w.height
}

// DiscSize returns the disc edge in logical pixels.
func (w *Widget) DiscSize() float64 {
	return w.discSize
}

// Layout implements ebiten.Game. The outside size is taken as the logical
// size; the returned screen is in device pixels.
func (w *Widget) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.Resize(float64(outsideWidth), float64(outsideHeight))
	return int(math.Ceil(float64(outsideWidth) * w.scale)),
		int(math.Ceil(float64(outsideHeight) * w.scale))
}

func (w *Widget) syncSurface() {
	if w.disposed {
		return
	}
	if w.surface == nil {
		w.surface = NewSurface(w.discSize, w.scale)
	} else {
		w.surface.Resize(w.discSize, w.scale)
	}
	w.dirty = true
}

func (w *Widget) infoHeight() float64 {
	lines := 4
	if w.cfg.ShowDetails {
		lines = 7
	}
	return infoGap + float64(lines)*infoLineHeight
}

func (w *Widget) fitDiscSize() float64 {
	avail := math.Min(w.width-2*widgetMargin, w.height-timelineHeight-w.infoHeight()-2*widgetMargin)
	return math.Max(minDiscSize, math.Floor(avail))
}

// DiscRect returns the disc's logical placement.
func (w *Widget) DiscRect() Rect {
	return Rect{X: (w.width - w.discSize) / 2, Y: widgetMargin, Width: w.discSize, Height: w.discSize}
}

func (w *Widget) timelineRect() Rect {
	return Rect{X: 0, Y: w.height - timelineHeight, Width: w.width, Height: timelineHeight}
}

// --- Frame ---

// SetUpdateFunc registers a callback run at the start of every Update, before
// input. A non-nil error stops the game loop.
func (w *Widget) SetUpdateFunc(fn func() error) {
	w.updateFunc = fn
}

// Update processes one frame: queued config, the update callback, scripted
// steps, pointer input and any running JumpTo animation.
func (w *Widget) Update() error {
	if w.disposed {
		return nil
	}
	w.drainThemes()
	if w.updateFunc != nil {
		if err := w.updateFunc(); err != nil {
			return err
		}
	}
	if w.runner != nil {
		w.runner.step(w)
	}
	w.input.process(w.scrub, w.now())

	if w.tween != nil {
		tw := w.tween
		t := tw.Update(frameDelta())
		if !t.Equal(w.date) {
			w.applyDate(t, true)
		}
		if tw.Done {
			w.tween = nil
		}
	}
	return nil
}

func frameDelta() float32 {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return float32(1.0 / float64(tps))
}

// Draw repaints the disc if the date, size or look changed since the last
// frame, then draws the disc, the info panel and the timeline strip.
func (w *Widget) Draw(screen *ebiten.Image) {
	if w.disposed {
		return
	}
	var stats debugStats
	if w.dirty {
		start := time.Now()
		if w.disc.Render(w.surface, w.phase) {
			w.paintCount++
			w.dirty = false
			stats.painted = true
		}
		stats.paintTime = time.Since(start)
	}

	if w.Background.A > 0 {
		screen.Fill(w.Background)
	}
	s := w.scale
	dr := w.DiscRect()
	w.surface.DrawTo(screen, dr.X*s, dr.Y*s, s)
	w.drawInfo(screen, dr.Y+dr.Height+infoGap)
	w.drawTimeline(screen)

	if w.debug {
		stats.dateEvents = w.dateEvents
		stats.cache = w.cache.Stats()
		stats.cacheLen = w.cache.Len()
		w.debugLog(stats)
	}
	w.dateEvents = 0
}

// PaintCount returns how many times the disc has been painted.
func (w *Widget) PaintCount() int {
	return w.paintCount
}

// Dispose releases the disc surface and ends any drag. The widget does
// nothing afterwards.
func (w *Widget) Dispose() {
	if w.disposed {
		return
	}
	w.input.cancel(w.scrub)
	w.tween = nil
	if w.surface != nil {
		w.surface.Dispose()
	}
	w.disposed = true
}

// --- Drawing ---

var (
	timelineFill    = MustParseHexColor("#161A26")
	timelineToday   = MustParseHexColor("#202638")
	tickColor       = MustParseHexColor("#5A6488")
	tickDayColor    = MustParseHexColor("#9AA3C7")
	centerLineColor = MustParseHexColor("#F4F1E8")
)

func (w *Widget) drawInfo(screen *ebiten.Image, top float64) {
	s := w.scale
	for i, line := range w.info {
		y := top + float64(i)*infoLineHeight
		ebitenutil.DebugPrintAt(screen, asciiInfo.Replace(line), int(widgetMargin*s), int(y*s))
	}
}

func (w *Widget) drawTimeline(screen *ebiten.Image) {
	s := w.scale
	tr := w.timelineRect()
	fillRect(screen, scaleRect(tr, s), timelineFill)

	for _, day := range w.scrub.Days(w.width) {
		if !day.Selected {
			continue
		}
		fillRect(screen, scaleRect(Rect{X: day.X, Y: tr.Y, Width: day.Width, Height: tr.Height}, s), timelineToday)
	}

	for _, tick := range w.scrub.Ticks(w.width) {
		h, c := tr.Height*0.2, tickColor
		switch tick.Kind {
		case TickHour:
			h = tr.Height * 0.4
		case TickDay:
			h, c = tr.Height, tickDayColor
		}
		fillRect(screen, scaleRect(Rect{X: tick.X, Y: tr.Y + tr.Height - h, Width: 1, Height: h}, s), c)
		if tick.Label != "" {
			ebitenutil.DebugPrintAt(screen, tick.Label, int((tick.X+3)*s), int((tr.Y+4)*s))
		}
	}

	fillRect(screen, scaleRect(Rect{X: w.width/2 - 1, Y: tr.Y, Width: 2, Height: tr.Height}, s), centerLineColor)
}

var whitePixelImage *ebiten.Image

// whitePixel is a 1x1 white image stretched and tinted for solid fills.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

func fillRect(dst *ebiten.Image, r Rect, c Color) {
	if r.Empty() {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(whitePixel(), &op)
}

func scaleRect(r Rect, s float64) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}
