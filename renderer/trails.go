// Package renderer provides the raylib-backed trail drawing surface.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TrailCanvas is a render-texture drawing surface for particle trails. Trails
// persist across frames; a translucent fade rectangle each frame decays them
// into the background, producing the continuous flow look.
//
// Draw calls batch into a single BeginTextureMode block that is closed when
// the texture is blitted to the screen.
type TrailCanvas struct {
	target  rl.RenderTexture2D
	width   int32
	height  int32
	drawing bool
}

// NewTrailCanvas creates a trail surface with the given pixel dimensions.
func NewTrailCanvas(width, height int) *TrailCanvas {
	c := &TrailCanvas{
		target: rl.LoadRenderTexture(int32(width), int32(height)),
		width:  int32(width),
		height: int32(height),
	}
	return c
}

func (c *TrailCanvas) begin() {
	if !c.drawing {
		rl.BeginTextureMode(c.target)
		c.drawing = true
	}
}

func (c *TrailCanvas) end() {
	if c.drawing {
		rl.EndTextureMode()
		c.drawing = false
	}
}

// Clear fills the surface opaquely.
func (c *TrailCanvas) Clear(col color.RGBA) {
	c.begin()
	rl.ClearBackground(toRaylib(col))
}

// Fade overlays the surface with a translucent fill.
func (c *TrailCanvas) Fade(col color.RGBA) {
	c.begin()
	rl.DrawRectangle(0, 0, c.width, c.height, toRaylib(col))
}

// Line strokes a trail segment.
func (c *TrailCanvas) Line(x1, y1, x2, y2, width float32, col color.RGBA) {
	c.begin()
	rl.DrawLineEx(
		rl.Vector2{X: x1, Y: y1},
		rl.Vector2{X: x2, Y: y2},
		width,
		toRaylib(col),
	)
}

// Resize recreates the render texture at new dimensions. Existing trails are
// discarded, matching the engine's restart-on-resize behavior.
func (c *TrailCanvas) Resize(width, height int) {
	c.end()
	rl.UnloadRenderTexture(c.target)
	c.target = rl.LoadRenderTexture(int32(width), int32(height))
	c.width = int32(width)
	c.height = int32(height)
}

// Blit closes the pending texture batch and draws the surface to the screen.
// Render textures are vertically flipped, hence the negative source height.
func (c *TrailCanvas) Blit() {
	c.end()
	rl.DrawTextureRec(
		c.target.Texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(c.width), Height: -float32(c.height)},
		rl.Vector2{},
		rl.White,
	)
}

// Unload releases the render texture.
func (c *TrailCanvas) Unload() {
	c.end()
	rl.UnloadRenderTexture(c.target)
}

func toRaylib(col color.RGBA) rl.Color {
	return rl.Color{R: col.R, G: col.G, B: col.B, A: col.A}
}
