package source

import (
	"context"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/ecomonitor/windflow/field"
	"github.com/ecomonitor/windflow/view"
)

// SyntheticSource generates a smoothly varying wind field from simplex noise.
// Used for demos, headless runs, and the development field server when no
// monitoring backend is available.
type SyntheticSource struct {
	gridSize int
	maxSpeed float64
	dirNoise opensimplex.Noise
	spdNoise opensimplex.Noise
}

// NewSyntheticSource creates a generator with the given grid density and
// top wind speed in m/s.
func NewSyntheticSource(seed int64, gridSize int, maxSpeed float64) *SyntheticSource {
	if gridSize < 2 {
		gridSize = 10
	}
	if maxSpeed <= 0 {
		maxSpeed = 15
	}
	return &SyntheticSource{
		gridSize: gridSize,
		maxSpeed: maxSpeed,
		dirNoise: opensimplex.NewNormalized(seed),
		spdNoise: opensimplex.NewNormalized(seed + 1),
	}
}

// FetchField generates vectors over the view bounds and projects them.
// The context is accepted for interface symmetry; generation is local and
// never blocks.
func (s *SyntheticSource) FetchField(_ context.Context, v *view.View) ([]field.Sample, error) {
	vectors := s.Vectors(v.MinLat, v.MaxLat, v.MinLon, v.MaxLon)
	return ProjectVectors(vectors, v), nil
}

// Vectors generates a (gridSize+1) x (gridSize+1) lattice of wind vectors over
// the given bounds. Direction and speed vary smoothly across the lattice.
func (s *SyntheticSource) Vectors(minLat, maxLat, minLon, maxLon float64) []Vector {
	latStep := (maxLat - minLat) / float64(s.gridSize)
	lonStep := (maxLon - minLon) / float64(s.gridSize)

	// Noise frequency chosen so a city-scale view spans a few features
	const freq = 2.5

	vectors := make([]Vector, 0, (s.gridSize+1)*(s.gridSize+1))
	for i := 0; i <= s.gridSize; i++ {
		for j := 0; j <= s.gridSize; j++ {
			ni := float64(i) / float64(s.gridSize) * freq
			nj := float64(j) / float64(s.gridSize) * freq

			vectors = append(vectors, Vector{
				Lat:       minLat + float64(i)*latStep,
				Lon:       minLon + float64(j)*lonStep,
				Speed:     s.spdNoise.Eval2(ni, nj) * s.maxSpeed,
				Direction: s.dirNoise.Eval2(ni, nj) * 360,
			})
		}
	}
	return vectors
}
