package lunar

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestLerpPhase_ShortestArc(t *testing.T) {
	a := PhaseDescriptor{PhaseFraction: 0.98, Instant: cacheBase}
	b := PhaseDescriptor{PhaseFraction: 0.02, Instant: cacheBase.Add(2 * time.Hour)}

	mid := LerpPhase(a, b, 0.5)
	if mid.PhaseFraction > 0.001 && mid.PhaseFraction < 0.999 {
		t.Errorf("PhaseFraction = %v, want near 0 (through new moon, not full)", mid.PhaseFraction)
	}
	if mid.Name != PhaseNew {
		t.Errorf("Name = %v, want New Moon", mid.Name)
	}
	if mid.Illumination > 1e-3 {
		t.Errorf("Illumination = %v, want ~0", mid.Illumination)
	}
	if want := cacheBase.Add(time.Hour); !mid.Instant.Equal(want) {
		t.Errorf("Instant = %v, want %v", mid.Instant, want)
	}
}

func TestLerpPhase_Endpoints(t *testing.T) {
	a := PhaseOf(daysAfter(ReferenceNewMoon, 3))
	b := PhaseOf(daysAfter(ReferenceNewMoon, 9))

	for _, tt := range []struct {
		t    float64
		want PhaseDescriptor
	}{
		{0, a}, {-1, a}, {1, b}, {2, b},
	} {
		got := LerpPhase(a, b, tt.t)
		if math.Abs(got.PhaseFraction-tt.want.PhaseFraction) > 1e-12 {
			t.Errorf("t=%v: PhaseFraction = %v, want %v", tt.t, got.PhaseFraction, tt.want.PhaseFraction)
		}
		if got.Name != tt.want.Name {
			t.Errorf("t=%v: Name = %v, want %v", tt.t, got.Name, tt.want.Name)
		}
	}
}

func TestLerpPhase_KeepsInvariants(t *testing.T) {
	a := PhaseOf(daysAfter(ReferenceNewMoon, 10))
	b := PhaseOf(daysAfter(ReferenceNewMoon, 20))
	for i := 0; i <= 10; i++ {
		d := LerpPhase(a, b, float64(i)/10)
		if d.Illumination != illuminationAt(d.PhaseFraction) {
			t.Errorf("step %d: illumination off the cosine law", i)
		}
		if d.IsWaxing != (d.PhaseFraction < 0.5) {
			t.Errorf("step %d: IsWaxing inconsistent", i)
		}
		if math.Abs(d.LunarAge-d.PhaseFraction*SynodicMonth) > 1e-9 {
			t.Errorf("step %d: LunarAge inconsistent", i)
		}
	}
}

func TestDateTween_Linear(t *testing.T) {
	from := cacheBase
	to := from.Add(10 * time.Hour)
	tw := NewDateTween(from, to, 1, ease.Linear)

	if got := tw.Update(0.5); !got.Equal(from.Add(5 * time.Hour)) {
		t.Errorf("halfway = %v, want %v", got, from.Add(5*time.Hour))
	}
	if tw.Done {
		t.Error("Done at halfway")
	}
	if got := tw.Update(0.5); !got.Equal(to) {
		t.Errorf("end = %v, want %v", got, to)
	}
	if !tw.Done {
		t.Error("not Done after full duration")
	}
	if got := tw.Update(1); !got.Equal(to) {
		t.Errorf("after Done = %v, want %v", got, to)
	}
}

func TestDateTween_DefaultEase(t *testing.T) {
	from := cacheBase
	to := from.Add(8 * time.Hour)
	tw := NewDateTween(from, to, 1, nil)
	got := tw.Update(0.5)
	// OutCubic at 0.5 is 0.875.
	if want := from.Add(7 * time.Hour); !got.Equal(want) {
		t.Errorf("Update(0.5) = %v, want %v", got, want)
	}
	if !tw.Current().Equal(got) {
		t.Errorf("Current = %v, want %v", tw.Current(), got)
	}
	if !tw.Target().Equal(to) {
		t.Errorf("Target = %v, want %v", tw.Target(), to)
	}
}

func TestDateTween_Backwards(t *testing.T) {
	from := cacheBase
	to := from.Add(-48 * time.Hour)
	tw := NewDateTween(from, to, 2, ease.Linear)
	if got, want := tw.Update(1), from.Add(-24*time.Hour); !got.Equal(want) {
		t.Errorf("Update(1) = %v, want %v", got, want)
	}
}

func TestDateTween_ZeroDuration(t *testing.T) {
	to := cacheBase.Add(time.Hour)
	tw := NewDateTween(cacheBase, to, 0, nil)
	if got := tw.Update(0); !got.Equal(to) || !tw.Done {
		t.Errorf("Update(0) = %v (Done=%v), want %v and done", got, tw.Done, to)
	}
}
