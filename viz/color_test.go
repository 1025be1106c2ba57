package viz

import (
	"testing"

	"github.com/ecomonitor/windflow/field"
)

func TestColorForDeterministic(t *testing.T) {
	w := field.Wind{Speed: 12, Direction: 45}

	a := ColorFor(w, 0.5, SchemeSpeed)
	b := ColorFor(w, 0.5, SchemeSpeed)
	if a != b {
		t.Errorf("expected identical colors, got %v and %v", a, b)
	}

	c := ColorFor(w, 0.5, SchemeDirection)
	d := ColorFor(w, 0.5, SchemeDirection)
	if c != d {
		t.Errorf("expected identical direction colors, got %v and %v", c, d)
	}
}

func TestColorForSpeedBands(t *testing.T) {
	calm := ColorFor(field.Wind{Speed: 0.1}, 1, SchemeSpeed)
	breeze := ColorFor(field.Wind{Speed: 4}, 1, SchemeSpeed)
	gale := ColorFor(field.Wind{Speed: 30}, 1, SchemeSpeed)

	if calm == breeze || breeze == gale || calm == gale {
		t.Errorf("expected distinct band colors, got %v, %v, %v", calm, breeze, gale)
	}

	// Same band yields the same color regardless of exact speed
	a := ColorFor(field.Wind{Speed: 11}, 1, SchemeSpeed)
	b := ColorFor(field.Wind{Speed: 13}, 1, SchemeSpeed)
	if a != b {
		t.Errorf("expected same band color for 11 and 13 m/s, got %v and %v", a, b)
	}
}

func TestColorForLifeFractionDrivesAlpha(t *testing.T) {
	w := field.Wind{Speed: 5}

	fresh := ColorFor(w, 1, SchemeSpeed)
	old := ColorFor(w, 0.25, SchemeSpeed)
	if fresh.A != 255 {
		t.Errorf("expected full alpha for fresh particle, got %d", fresh.A)
	}
	if old.A >= fresh.A {
		t.Errorf("expected fading alpha, got %d vs %d", old.A, fresh.A)
	}

	// Out-of-range fractions clamp instead of wrapping
	if c := ColorFor(w, -1, SchemeSpeed); c.A != 0 {
		t.Errorf("expected alpha 0 for negative fraction, got %d", c.A)
	}
	if c := ColorFor(w, 2, SchemeSpeed); c.A != 255 {
		t.Errorf("expected alpha 255 for fraction above 1, got %d", c.A)
	}
}

func TestColorForDirectionScheme(t *testing.T) {
	a := ColorFor(field.Wind{Speed: 5, Direction: 0}, 1, SchemeDirection)
	b := ColorFor(field.Wind{Speed: 5, Direction: 120}, 1, SchemeDirection)
	if a == b {
		t.Errorf("expected different hues for 0 and 120 degrees, got %v", a)
	}

	// Direction wraps: 0 and 360 are the same bearing
	c := ColorFor(field.Wind{Speed: 5, Direction: 360}, 1, SchemeDirection)
	if a != c {
		t.Errorf("expected 0 and 360 degrees to match, got %v and %v", a, c)
	}
}

func TestParseScheme(t *testing.T) {
	if ParseScheme("direction") != SchemeDirection {
		t.Error("expected direction scheme")
	}
	if ParseScheme("speed") != SchemeSpeed {
		t.Error("expected speed scheme")
	}
	if ParseScheme("") != SchemeSpeed {
		t.Error("expected fallback to speed scheme")
	}
}
