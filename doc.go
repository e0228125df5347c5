// Package lunar is a moon-phase engine for [Ebitengine]: a phase calculator
// with a time-quantized cache, a procedural disc renderer, and a drag-driven
// time scrubber, composed into a timeline [Widget].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	w := lunar.NewWidget(lunar.WidgetConfig{
//		OnDateChange: func(t time.Time, d lunar.PhaseDescriptor) {
//			fmt.Println(t, d.Name, d.Illumination)
//		},
//	})
//	lunar.Run(w, lunar.RunConfig{Title: "Moon", Width: 480, Height: 640})
//
// [Widget] implements [ebiten.Game], so it can also be driven directly or
// embedded in a larger game by calling [Widget.Update], [Widget.Draw] and
// [Widget.Layout] from the host.
//
// # Phases
//
// [PhaseOf] is a pure function of the instant: a mean synodic month counted
// from the new moon of 2000-01-06 18:14 UTC. It is not an ephemeris.
// [PhaseAt] accepts an observer location and time zone but ignores them in
// this version.
//
//	d := lunar.PhaseOf(time.Now())
//	fmt.Printf("%s %.0f%%\n", d.Name, d.Illumination*100)
//
// [PhaseCache] memoizes the calculator over 5-minute buckets with a bounded,
// insertion-ordered store. Caches are ordinary values; create one per host or
// share one explicitly through [WidgetConfig].Cache.
//
// # Rendering
//
// [DiscRenderer] paints onto a CPU [Canvas] over an *image.RGBA and uploads the
// result into a DPR-aware [Surface]. [RenderImage] paints headlessly, which is
// what the CLI and tests use.
//
// # Scrubbing
//
// [Scrubber] converts horizontal drags into time: dragging left moves the date
// forward by pixels/[ScrubConfig].PixelsPerHour hours. Moves are applied
// incrementally, frame to frame. Mouse, touch and injected events share one
// path, and [ScriptRunner] replays JSON scrub scripts for automated checks.
//
// [Ebitengine]: https://ebitengine.org
package lunar
