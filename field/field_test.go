package field

import (
	"math"
	"testing"
)

func defaultParams() Params {
	return Params{CellSize: 50, SearchRadius: 1, MaxNeighbors: 4, Epsilon: 1e-3}
}

func TestEmptyFieldReturnsNoData(t *testing.T) {
	f := New(nil, defaultParams())

	if _, ok := f.Interpolate(10, 10); ok {
		t.Error("expected no data on an empty field")
	}
	if f.Count() != 0 {
		t.Errorf("expected count 0, got %d", f.Count())
	}
}

func TestNoSamplesWithinSearchRadius(t *testing.T) {
	samples := []Sample{
		{X: 0, Y: 0, Speed: 5, Direction: 90},
	}
	f := New(samples, defaultParams())

	// Query far outside the neighbor ring of the sample's cell
	if _, ok := f.Interpolate(1000, 1000); ok {
		t.Error("expected no data far away from all samples")
	}

	// But the sample's own neighborhood still resolves
	if _, ok := f.Interpolate(10, 10); !ok {
		t.Error("expected data near the sample")
	}
}

func TestSnapToNearestWithinEpsilon(t *testing.T) {
	samples := []Sample{
		{X: 10, Y: 10, Speed: 3, Direction: 45},
		{X: 40, Y: 10, Speed: 9, Direction: 270},
	}
	f := New(samples, defaultParams())

	w, ok := f.Interpolate(10, 10)
	if !ok {
		t.Fatal("expected data at sample position")
	}
	if w.Speed != 3 || w.Direction != 45 {
		t.Errorf("expected exact sample values (3, 45), got (%g, %g)", w.Speed, w.Direction)
	}
}

func TestCircularMeanAcrossNorth(t *testing.T) {
	// Two equally weighted samples at 350 and 10 degrees. A scalar mean would
	// report 180; the circular mean is 0.
	samples := []Sample{
		{X: 40, Y: 50, Speed: 5, Direction: 350},
		{X: 60, Y: 50, Speed: 5, Direction: 10},
	}
	f := New(samples, defaultParams())

	w, ok := f.Interpolate(50, 50)
	if !ok {
		t.Fatal("expected data between the samples")
	}

	if d := CircularDistance(w.Direction, 0); d > 0.01 {
		t.Errorf("expected direction near 0, got %g (circular distance %g)", w.Direction, d)
	}
	if math.Abs(w.Speed-5) > 1e-9 {
		t.Errorf("expected speed 5, got %g", w.Speed)
	}
}

func TestIDWMonotonicity(t *testing.T) {
	a := Sample{X: 0, Y: 0, Speed: 5, Direction: 45}
	b := Sample{X: 100, Y: 0, Speed: 5, Direction: 225}
	f := New([]Sample{a, b}, defaultParams())

	// Strictly closer to A than to B
	w, ok := f.Interpolate(30, 0)
	if !ok {
		t.Fatal("expected data between the samples")
	}

	toA := CircularDistance(w.Direction, a.Direction)
	toB := CircularDistance(w.Direction, b.Direction)
	if toA >= toB {
		t.Errorf("expected direction closer to A (45) than B (225); got %g (dA=%g, dB=%g)",
			w.Direction, toA, toB)
	}
}

func TestOpposingVectorsCancelTieBreak(t *testing.T) {
	// Equidistant samples at 0 and 180 with equal speed: the direction vectors
	// cancel exactly. The documented tie-break falls back to the nearest
	// sample's direction, with gather order deciding exact ties.
	samples := []Sample{
		{X: 0, Y: 0, Speed: 5, Direction: 0},
		{X: 100, Y: 0, Speed: 5, Direction: 180},
	}
	f := New(samples, Params{CellSize: 50, SearchRadius: 1, MaxNeighbors: 4, Epsilon: 1e-3})

	w, ok := f.Interpolate(50, 0)
	if !ok {
		t.Fatal("expected data at the midpoint")
	}

	if math.Abs(w.Speed-5) > 1e-9 {
		t.Errorf("expected speed 5, got %g", w.Speed)
	}
	if w.Direction != 0 && w.Direction != 180 {
		t.Errorf("expected tie-break to one of the input directions, got %g", w.Direction)
	}
}

func TestMaxNeighborsCap(t *testing.T) {
	// Five samples share a cell; only the four nearest may contribute. The
	// farthest sample has a wildly different direction, so the result must not
	// move toward it at all compared to a field without it.
	near := []Sample{
		{X: 48, Y: 50, Speed: 4, Direction: 90},
		{X: 52, Y: 50, Speed: 4, Direction: 90},
		{X: 50, Y: 48, Speed: 4, Direction: 90},
		{X: 50, Y: 52, Speed: 4, Direction: 90},
	}
	far := Sample{X: 70, Y: 70, Speed: 40, Direction: 270}

	withFar := New(append(append([]Sample{}, near...), far), defaultParams())
	withoutFar := New(near, defaultParams())

	w1, ok1 := withFar.Interpolate(50, 50)
	w2, ok2 := withoutFar.Interpolate(50, 50)
	if !ok1 || !ok2 {
		t.Fatal("expected data in both fields")
	}

	if w1.Speed != w2.Speed || w1.Direction != w2.Direction {
		t.Errorf("expected capped result to ignore 5th sample: got (%g, %g) vs (%g, %g)",
			w1.Speed, w1.Direction, w2.Speed, w2.Direction)
	}
}

func TestWeightingFavorsCloserSample(t *testing.T) {
	samples := []Sample{
		{X: 0, Y: 0, Speed: 2, Direction: 90},
		{X: 100, Y: 0, Speed: 10, Direction: 90},
	}
	f := New(samples, defaultParams())

	// 4x closer to the slow sample: weight ratio 16:1
	w, ok := f.Interpolate(20, 0)
	if !ok {
		t.Fatal("expected data")
	}

	want := (16.0*2 + 1.0*10) / 17.0
	if math.Abs(w.Speed-want) > 1e-9 {
		t.Errorf("expected speed %g, got %g", want, w.Speed)
	}
}

func TestNegativeCoordinates(t *testing.T) {
	// floor-based cell keys must behave across the origin
	samples := []Sample{
		{X: -10, Y: -10, Speed: 7, Direction: 180},
	}
	f := New(samples, defaultParams())

	w, ok := f.Interpolate(-12, -12)
	if !ok {
		t.Fatal("expected data near sample at negative coordinates")
	}
	if w.Speed != 7 || w.Direction != 180 {
		t.Errorf("expected (7, 180), got (%g, %g)", w.Speed, w.Direction)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-720, 0},
	}
	for _, c := range cases {
		if got := normalizeDegrees(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("normalizeDegrees(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestCircularDistance(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{350, 10, 20},
		{0, 180, 180},
		{90, 270, 180},
		{45, 315, 90},
	}
	for _, c := range cases {
		if got := CircularDistance(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("CircularDistance(%g, %g) = %g, want %g", c.a, c.b, got, c.want)
		}
	}
}
