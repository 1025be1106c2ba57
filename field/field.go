// Package field implements the wind field snapshot and its spatial interpolation.
package field

import (
	"math"
	"sort"
)

// Sample is a single wind measurement in screen space.
// Direction uses the meteorological convention: the bearing the wind blows FROM,
// in degrees [0, 360).
type Sample struct {
	X, Y      float64
	Speed     float64 // m/s, non-negative
	Direction float64
}

// Wind is an interpolated wind value.
type Wind struct {
	Speed     float64
	Direction float64
}

// Params tunes field construction and lookup.
type Params struct {
	CellSize     float64 // Grid cell size; samples are bucketed by floor(pos/CellSize)
	SearchRadius int     // Neighbor cell ring radius gathered per query
	MaxNeighbors int     // IDW blends at most this many nearest samples
	Epsilon      float64 // Query within this distance of a sample snaps to it exactly
}

type cellKey struct {
	col, row int
}

// Field is an immutable snapshot of wind samples bucketed into a uniform grid.
// Built once per fetch and replaced wholesale on the next; never mutated in place.
type Field struct {
	cellSize     float64
	searchRadius int
	maxNeighbors int
	epsilonSq    float64
	cells        map[cellKey][]Sample
	count        int
}

// New builds a field from the given samples. Cost is O(n) in sample count.
// Zero or negative Params fields fall back to usable defaults.
func New(samples []Sample, p Params) *Field {
	if p.CellSize <= 0 {
		p.CellSize = 50
	}
	if p.SearchRadius < 1 {
		p.SearchRadius = 1
	}
	if p.MaxNeighbors < 1 {
		p.MaxNeighbors = 4
	}
	if p.Epsilon <= 0 {
		p.Epsilon = 1e-3
	}

	f := &Field{
		cellSize:     p.CellSize,
		searchRadius: p.SearchRadius,
		maxNeighbors: p.MaxNeighbors,
		epsilonSq:    p.Epsilon * p.Epsilon,
		cells:        make(map[cellKey][]Sample, len(samples)),
		count:        len(samples),
	}

	for _, s := range samples {
		key := f.keyFor(s.X, s.Y)
		f.cells[key] = append(f.cells[key], s)
	}

	return f
}

// Count returns the number of samples in the field.
func (f *Field) Count() int {
	return f.count
}

func (f *Field) keyFor(x, y float64) cellKey {
	return cellKey{
		col: int(math.Floor(x / f.cellSize)),
		row: int(math.Floor(y / f.cellSize)),
	}
}

// candidate pairs a gathered sample with its squared distance to the query point.
type candidate struct {
	sample Sample
	distSq float64
	order  int // Gather order, for deterministic tie-breaking
}

// Interpolate returns the inverse-distance-weighted wind at (x, y).
// The second return value is false when no sample lies within the search
// neighborhood; callers must treat that as "no wind data here".
//
// Speed is blended as a scalar. Direction is a circular quantity and is
// blended through unit vectors and atan2; a naive scalar mean of 350 and 10
// would yield 180 instead of the correct 0.
func (f *Field) Interpolate(x, y float64) (Wind, bool) {
	center := f.keyFor(x, y)

	var cands []candidate
	order := 0
	for dc := -f.searchRadius; dc <= f.searchRadius; dc++ {
		for dr := -f.searchRadius; dr <= f.searchRadius; dr++ {
			key := cellKey{col: center.col + dc, row: center.row + dr}
			for _, s := range f.cells[key] {
				dx := s.X - x
				dy := s.Y - y
				cands = append(cands, candidate{
					sample: s,
					distSq: dx*dx + dy*dy,
					order:  order,
				})
				order++
			}
		}
	}

	if len(cands) == 0 {
		return Wind{}, false
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].distSq != cands[j].distSq {
			return cands[i].distSq < cands[j].distSq
		}
		return cands[i].order < cands[j].order
	})
	if len(cands) > f.maxNeighbors {
		cands = cands[:f.maxNeighbors]
	}

	// Snap rule: a query within epsilon of a sample takes that sample's values
	// exactly. Ties among several near-epsilon samples resolve to the single
	// nearest, earliest-gathered one rather than blending.
	nearest := cands[0]
	if nearest.distSq <= f.epsilonSq {
		return Wind{Speed: nearest.sample.Speed, Direction: nearest.sample.Direction}, true
	}

	var weightSum, speedSum, vx, vy float64
	for _, c := range cands {
		w := 1.0 / c.distSq
		rad := c.sample.Direction * math.Pi / 180
		weightSum += w
		speedSum += w * c.sample.Speed
		vx += w * math.Cos(rad)
		vy += w * math.Sin(rad)
	}

	speed := speedSum / weightSum

	// Degenerate cancellation (e.g. equal weights at 0 and 180): the resultant
	// vector vanishes and atan2 is meaningless. Fall back to the nearest
	// sample's direction.
	direction := nearest.sample.Direction
	if math.Hypot(vx, vy)/weightSum > 1e-9 {
		direction = normalizeDegrees(math.Atan2(vy, vx) * 180 / math.Pi)
	}

	return Wind{Speed: speed, Direction: direction}, true
}

// normalizeDegrees wraps an angle to [0, 360).
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// CircularDistance returns the smallest absolute angular difference between
// two directions in degrees, in [0, 180].
func CircularDistance(a, b float64) float64 {
	d := math.Abs(normalizeDegrees(a) - normalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
