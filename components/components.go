// Package components defines ECS components for the particle pool.
package components

// Position is a particle's screen-space position.
type Position struct {
	X, Y float32
}

// Trail carries the previous position captured before the current step, used
// to stroke the frame's line segment. Moved is false on the tick a particle
// was respawned so no segment is drawn across the jump.
type Trail struct {
	PrevX, PrevY float32
	Moved        bool
}

// Flow caches the last-sampled wind at the particle's position. Used only for
// color derivation; the authoritative values live in the field snapshot.
type Flow struct {
	Speed     float32
	Direction float32
}

// Age tracks particle lifetime in frames. A particle whose Age exceeds MaxAge
// expires and is respawned in place.
type Age struct {
	Age    int32
	MaxAge int32
}
