package viz

import (
	"math"

	"github.com/ecomonitor/windflow/components"
	"github.com/ecomonitor/windflow/field"
	"github.com/ecomonitor/windflow/telemetry"
)

// expireCause records why a particle left the pool this tick.
type expireCause uint8

const (
	causeNone expireCause = iota
	causeAge
	causeBounds
	causeNoData
)

func (c expireCause) label() telemetry.RespawnCause {
	switch c {
	case causeAge:
		return telemetry.CauseAge
	case causeBounds:
		return telemetry.CauseBounds
	case causeNoData:
		return telemetry.CauseNoData
	}
	return telemetry.CauseNone
}

// stepParticle advances one particle through the field snapshot. It returns
// false when the particle expired: aged out, left the viewport, or sits where
// the field has no data. A data gap expires the particle rather than freezing
// it in place, which would read as visual debris.
func stepParticle(
	pos *components.Position,
	fl *components.Flow,
	age *components.Age,
	f *field.Field,
	width, height, speedFactor float32,
) (bool, expireCause) {
	age.Age++
	if age.Age > age.MaxAge {
		return false, causeAge
	}

	if pos.X < 0 || pos.X > width || pos.Y < 0 || pos.Y > height {
		return false, causeBounds
	}

	w, ok := f.Interpolate(float64(pos.X), float64(pos.Y))
	if !ok {
		return false, causeNoData
	}

	// Meteorological direction is the bearing the wind blows FROM; the motion
	// heading is the opposite bearing.
	heading := (w.Direction + 180) * math.Pi / 180
	pos.X += float32(math.Cos(heading)*w.Speed) * speedFactor
	pos.Y += float32(math.Sin(heading)*w.Speed) * speedFactor

	fl.Speed = float32(w.Speed)
	fl.Direction = float32(w.Direction)

	return true, causeNone
}
