package lunar

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// scriptStep represents a single action in a scrub script.
type scriptStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	FromX   float64 `json:"fromX,omitempty"`
	FromY   float64 `json:"fromY,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	Frames  int     `json:"frames,omitempty"`
	Date    string  `json:"date,omitempty"`
	Seconds float32 `json:"seconds,omitempty"`
}

// scrubScript is the top-level JSON structure for a scrub script.
type scrubScript struct {
	Steps []scriptStep `json:"steps"`
}

var knownActions = map[string]bool{
	"press": true, "move": true, "release": true, "drag": true,
	"jump": true, "wait": true, "snapshot": true,
}

// ScriptRunner replays scripted pointer input, date jumps and snapshots
// across frames. Attach to a Widget via SetScriptRunner.
//
// Example script:
//
//	{"steps": [
//	  {"action": "drag", "fromX": 300, "fromY": 600, "toX": 60, "toY": 600, "frames": 12},
//	  {"action": "wait", "frames": 2},
//	  {"action": "snapshot", "label": "after-drag"},
//	  {"action": "jump", "date": "2024-04-08T18:00:00Z", "seconds": 0.5}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScrubScript parses a JSON scrub script. Unknown actions and malformed
// jump dates are rejected up front.
func LoadScrubScript(jsonData []byte) (*ScriptRunner, error) {
	var script scrubScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse scrub script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse scrub script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse scrub script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "jump" {
			if _, err := ParseDate(st.Date, time.UTC); err != nil {
				return nil, fmt.Errorf("parse scrub script: step %d: %w", i, err)
			}
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the widget. The runner's step
// method is called from Widget.Update before input processing each frame.
func (w *Widget) SetScriptRunner(runner *ScriptRunner) {
	w.runner = runner
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Widget.Update.
func (r *ScriptRunner) step(w *Widget) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(w.input.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		w.InjectPress(st.X, st.Y)
	case "move":
		w.InjectMove(st.X, st.Y)
	case "release":
		w.InjectRelease(st.X, st.Y)
	case "drag":
		w.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "jump":
		if t, err := ParseDate(st.Date, w.location()); err == nil {
			w.JumpTo(t, st.Seconds)
		}
	case "snapshot":
		if _, err := w.Snapshot(st.Label); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[lunar] snapshot: %v\n", err)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(w.input.injectQueue) == 0 {
		r.done = true
	}
}

// dateLayouts are the forms ParseDate accepts, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseDate parses an RFC 3339 timestamp, a "YYYY-MM-DDTHH:MM" local time or
// a bare "YYYY-MM-DD" date. Forms without an offset are read in loc (UTC when
// nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: want RFC 3339 or YYYY-MM-DD", s)
}
