package viz

import (
	"math"
	"testing"

	"github.com/ecomonitor/windflow/components"
	"github.com/ecomonitor/windflow/field"
)

func uniformField(speed, direction float64) *field.Field {
	// A sample every 50px over a 200x200 area so every in-bounds query resolves
	var samples []field.Sample
	for x := 0.0; x <= 200; x += 50 {
		for y := 0.0; y <= 200; y += 50 {
			samples = append(samples, field.Sample{X: x, Y: y, Speed: speed, Direction: direction})
		}
	}
	return field.New(samples, field.Params{CellSize: 50, SearchRadius: 1, MaxNeighbors: 4, Epsilon: 1e-3})
}

func TestStepExpiresOnAge(t *testing.T) {
	pos := components.Position{X: 100, Y: 100}
	fl := components.Flow{}
	age := components.Age{Age: 10, MaxAge: 10}

	alive, cause := stepParticle(&pos, &fl, &age, uniformField(5, 90), 200, 200, 1)
	if alive {
		t.Error("expected particle at max age to expire")
	}
	if cause != causeAge {
		t.Errorf("expected age cause, got %v", cause)
	}
}

func TestStepExpiresOutOfBounds(t *testing.T) {
	cases := []components.Position{
		{X: -1, Y: 100},
		{X: 201, Y: 100},
		{X: 100, Y: -1},
		{X: 100, Y: 201},
	}
	for _, pos := range cases {
		p := pos
		fl := components.Flow{}
		age := components.Age{Age: 0, MaxAge: 100}

		alive, cause := stepParticle(&p, &fl, &age, uniformField(5, 90), 200, 200, 1)
		if alive {
			t.Errorf("expected particle at (%g, %g) to expire", pos.X, pos.Y)
		}
		if cause != causeBounds {
			t.Errorf("expected bounds cause at (%g, %g), got %v", pos.X, pos.Y, cause)
		}
	}
}

func TestStepExpiresOnNoData(t *testing.T) {
	empty := field.New(nil, field.Params{CellSize: 50})

	pos := components.Position{X: 100, Y: 100}
	fl := components.Flow{}
	age := components.Age{Age: 0, MaxAge: 100}

	alive, cause := stepParticle(&pos, &fl, &age, empty, 200, 200, 1)
	if alive {
		t.Error("expected particle with no field data to expire, not freeze")
	}
	if cause != causeNoData {
		t.Errorf("expected no-data cause, got %v", cause)
	}
}

func TestStepAdvectsDownwind(t *testing.T) {
	// Wind FROM 0 degrees: motion heading is 180, so dx = cos(180) * speed < 0
	pos := components.Position{X: 100, Y: 100}
	fl := components.Flow{}
	age := components.Age{Age: 0, MaxAge: 100}

	alive, _ := stepParticle(&pos, &fl, &age, uniformField(4, 0), 200, 200, 0.5)
	if !alive {
		t.Fatal("expected live step")
	}

	wantDX := math.Cos(math.Pi) * 4 * 0.5
	if math.Abs(float64(pos.X)-(100+wantDX)) > 1e-4 {
		t.Errorf("expected x near %g, got %g", 100+wantDX, pos.X)
	}
	if math.Abs(float64(pos.Y)-100) > 1e-4 {
		t.Errorf("expected y unchanged, got %g", pos.Y)
	}

	if age.Age != 1 {
		t.Errorf("expected age 1, got %d", age.Age)
	}
	if fl.Speed != 4 || fl.Direction != 0 {
		t.Errorf("expected cached wind (4, 0), got (%g, %g)", fl.Speed, fl.Direction)
	}
}

func TestStepCachesSampledWind(t *testing.T) {
	pos := components.Position{X: 75, Y: 75}
	fl := components.Flow{}
	age := components.Age{Age: 3, MaxAge: 100}

	alive, _ := stepParticle(&pos, &fl, &age, uniformField(7.5, 225), 200, 200, 0.25)
	if !alive {
		t.Fatal("expected live step")
	}
	if math.Abs(float64(fl.Speed)-7.5) > 1e-4 {
		t.Errorf("expected cached speed 7.5, got %g", fl.Speed)
	}
	if math.Abs(float64(fl.Direction)-225) > 1e-4 {
		t.Errorf("expected cached direction 225, got %g", fl.Direction)
	}
}
