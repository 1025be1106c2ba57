// Package viz implements the wind-particle flow visualization engine: a fixed
// pool of particles advected through an interpolated wind field, drawn as
// fading trails.
package viz

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/ecomonitor/windflow/components"
	"github.com/ecomonitor/windflow/config"
	"github.com/ecomonitor/windflow/field"
	"github.com/ecomonitor/windflow/source"
	"github.com/ecomonitor/windflow/telemetry"
	"github.com/ecomonitor/windflow/view"
)

// Engine owns the particle pool, the current field snapshot, and the trail
// surface. One instance per wind layer; the host calls its lifecycle methods
// and drives Update/Draw once per display frame. The tick pass is synchronous
// and never overlaps itself.
type Engine struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Trail, components.Flow, components.Age]
	filter *ecs.Filter4[components.Position, components.Trail, components.Flow, components.Age]

	src    source.Source
	view   *view.View
	canvas Canvas
	rng    *rand.Rand

	fld      *field.Field
	active   bool
	tick     int64
	poolSize int

	// Tunables snapshotted from config at construction
	count       int
	maxAge      int32
	speedFactor float32
	lineWidth   float32
	fadeAlpha   uint8
	scheme      Scheme
	fieldParams field.Params

	// Optional collectors
	flow *telemetry.FlowCollector
	perf *telemetry.PerfCollector
}

// New creates an inactive engine. Nothing is fetched or spawned until Activate.
func New(src source.Source, v *view.View, canvas Canvas, cfg *config.Config, seed int64) *Engine {
	world := ecs.NewWorld()

	e := &Engine{
		world:       world,
		src:         src,
		view:        v,
		canvas:      canvas,
		rng:         rand.New(rand.NewSource(seed)),
		count:       cfg.Particles.Count,
		maxAge:      int32(cfg.Particles.MaxAge),
		speedFactor: float32(cfg.Particles.SpeedFactor),
		lineWidth:   cfg.Derived.LineWidth32,
		fadeAlpha:   cfg.Derived.FadeAlpha8,
		scheme:      ParseScheme(cfg.Particles.ColorScheme),
		fieldParams: field.Params{
			CellSize:     cfg.Field.CellSize,
			SearchRadius: cfg.Field.SearchRadius,
			MaxNeighbors: cfg.Field.MaxNeighbors,
			Epsilon:      cfg.Field.Epsilon,
		},
	}

	e.mapper = ecs.NewMap4[components.Position, components.Trail, components.Flow, components.Age](world)
	e.filter = ecs.NewFilter4[components.Position, components.Trail, components.Flow, components.Age](world)

	return e
}

// Tune adjusts the live-tunable parameters. Safe between ticks.
func (e *Engine) Tune(speedFactor float32, fadeAlpha uint8) {
	e.speedFactor = speedFactor
	e.fadeAlpha = fadeAlpha
}

// SpeedFactor returns the current pace multiplier.
func (e *Engine) SpeedFactor() float32 {
	return e.speedFactor
}

// FadeAlpha returns the current per-frame trail decay alpha.
func (e *Engine) FadeAlpha() uint8 {
	return e.fadeAlpha
}

// SetCollectors attaches optional telemetry collectors.
func (e *Engine) SetCollectors(flow *telemetry.FlowCollector, perf *telemetry.PerfCollector) {
	e.flow = flow
	e.perf = perf
}

// Active reports whether the wind layer is running.
func (e *Engine) Active() bool {
	return e.active
}

// PoolSize returns the current number of pooled particles.
func (e *Engine) PoolSize() int {
	return e.poolSize
}

// Tick returns the number of completed update passes since activation.
func (e *Engine) Tick() int64 {
	return e.tick
}

// Field returns the current field snapshot, or nil when inactive.
func (e *Engine) Field() *field.Field {
	return e.fld
}

// Activate fetches the wind field once and spawns the particle pool. A second
// call while active is a no-op. On fetch failure the engine stays inactive and
// the error is returned; the animation must not start without a field.
func (e *Engine) Activate(ctx context.Context) error {
	if e.active {
		return nil
	}

	samples, err := e.src.FetchField(ctx, e.view)
	if err != nil {
		return fmt.Errorf("activating wind layer: %w", err)
	}

	e.fld = field.New(samples, e.fieldParams)
	e.spawnPool()
	e.canvas.Clear(Background)
	e.tick = 0
	e.active = true

	slog.Info("wind layer activated",
		"samples", e.fld.Count(),
		"particles", e.poolSize,
		"viewport_w", e.view.Width,
		"viewport_h", e.view.Height,
	)
	return nil
}

// Deactivate stops the layer, releases the pool and field, and clears the
// trail surface. Calling it while already inactive is a no-op.
func (e *Engine) Deactivate() {
	if !e.active {
		return
	}

	e.active = false
	e.releasePool()
	e.fld = nil
	e.canvas.Clear(Background)

	slog.Info("wind layer deactivated")
}

// Resize handles a viewport size change as a controlled restart: the pool and
// field are discarded, the surface is recreated, and an active layer re-fetches
// and respawns for the new dimensions.
func (e *Engine) Resize(ctx context.Context, width, height int) error {
	wasActive := e.active
	if wasActive {
		e.Deactivate()
	}

	e.view.Resize(width, height)
	e.canvas.Resize(width, height)

	if wasActive {
		return e.Activate(ctx)
	}
	return nil
}

// spawnPool populates the pool at random positions with randomized initial
// ages so particles expire staggered instead of pulsing in sync.
func (e *Engine) spawnPool() {
	w := float32(e.view.Width)
	h := float32(e.view.Height)

	for i := 0; i < e.count; i++ {
		pos := components.Position{
			X: e.rng.Float32() * w,
			Y: e.rng.Float32() * h,
		}
		trail := components.Trail{PrevX: pos.X, PrevY: pos.Y}
		fl := components.Flow{}
		age := components.Age{
			Age:    int32(e.rng.Intn(int(e.maxAge))),
			MaxAge: e.maxAge,
		}
		e.mapper.NewEntity(&pos, &trail, &fl, &age)
	}
	e.poolSize = e.count
}

// releasePool removes every pooled entity.
func (e *Engine) releasePool() {
	// Collect first: the query iteration must complete before removal
	var toRemove []ecs.Entity
	query := e.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, ent := range toRemove {
		e.mapper.Remove(ent)
	}
	e.poolSize = 0
}

// respawn replaces an expired particle in place: same pool slot, fresh random
// position and age. The pool size never changes while active.
func (e *Engine) respawn(pos *components.Position, trail *components.Trail, fl *components.Flow, age *components.Age) {
	pos.X = e.rng.Float32() * float32(e.view.Width)
	pos.Y = e.rng.Float32() * float32(e.view.Height)
	trail.PrevX = pos.X
	trail.PrevY = pos.Y
	trail.Moved = false
	fl.Speed = 0
	fl.Direction = 0
	age.Age = int32(e.rng.Intn(int(e.maxAge)))
}

// Update runs one synchronous tick over the whole pool. A no-op while
// inactive, so a deactivation between frames silences the next scheduled tick.
func (e *Engine) Update() {
	if !e.active {
		return
	}

	if e.perf != nil {
		e.perf.StartTick()
		e.perf.StartPhase(telemetry.PhaseStep)
	}

	w := float32(e.view.Width)
	h := float32(e.view.Height)

	query := e.filter.Query()
	for query.Next() {
		pos, trail, fl, age := query.Get()

		trail.PrevX = pos.X
		trail.PrevY = pos.Y

		alive, cause := stepParticle(pos, fl, age, e.fld, w, h, e.speedFactor)
		if alive {
			trail.Moved = true
			if e.flow != nil {
				e.flow.RecordStep(float64(fl.Speed))
			}
		} else {
			e.respawn(pos, trail, fl, age)
			if e.flow != nil {
				e.flow.RecordRespawn(cause.label())
			}
		}
	}

	e.tick++
}

// Draw fades the trail surface and strokes one segment per live particle.
// Respawned particles skip their first frame so no segment spans the jump.
func (e *Engine) Draw() {
	if !e.active {
		return
	}

	if e.perf != nil {
		e.perf.StartPhase(telemetry.PhaseFade)
	}

	e.canvas.Fade(color.RGBA{R: Background.R, G: Background.G, B: Background.B, A: e.fadeAlpha})

	if e.perf != nil {
		e.perf.StartPhase(telemetry.PhaseDraw)
	}

	query := e.filter.Query()
	for query.Next() {
		pos, trail, fl, age := query.Get()

		if !trail.Moved {
			continue
		}

		lifeFrac := 1 - float64(age.Age)/float64(age.MaxAge)
		col := ColorFor(
			field.Wind{Speed: float64(fl.Speed), Direction: float64(fl.Direction)},
			lifeFrac,
			e.scheme,
		)
		e.canvas.Line(trail.PrevX, trail.PrevY, pos.X, pos.Y, e.lineWidth, col)
	}

	if e.perf != nil {
		e.perf.EndTick()
	}
}
