// Package ui renders the wind layer control panel.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tunables are the live-adjustable visualization parameters.
type Tunables struct {
	SpeedFactor float32
	FadeAlpha   float32
}

// Panel is the overlay control panel for the wind layer.
type Panel struct {
	x, y    float32
	width   float32
	visible bool
}

// NewPanel creates a hidden panel anchored at the given position.
func NewPanel(x, y, width float32) *Panel {
	return &Panel{x: x, y: y, width: width}
}

// Toggle switches panel visibility and returns the new state.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool {
	return p.visible
}

// Draw renders the panel and applies slider changes to the tunables.
// Returns true when the wind layer toggle button was pressed.
func (p *Panel) Draw(active bool, particles int, tun *Tunables) bool {
	if !p.visible {
		return false
	}

	x, y := p.x, p.y
	rl.DrawRectangle(int32(x)-10, int32(y)-10, int32(p.width)+20, 150, rl.Color{R: 20, G: 26, B: 36, A: 220})

	rl.DrawText("Wind layer", int32(x), int32(y), 20, rl.RayWhite)
	y += 30

	label := "Enable"
	if active {
		label = "Disable"
	}
	toggled := gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 26}, label)
	rl.DrawText(fmt.Sprintf("%d particles", particles), int32(x)+135, int32(y)+6, 14, rl.Gray)
	y += 36

	rl.DrawText("Pace", int32(x), int32(y)+4, 14, rl.Gray)
	tun.SpeedFactor = gui.SliderBar(
		rl.Rectangle{X: x + 50, Y: y, Width: p.width - 50, Height: 18},
		"", fmt.Sprintf("%.2f", tun.SpeedFactor),
		tun.SpeedFactor, 0.05, 1.0,
	)
	y += 28

	rl.DrawText("Fade", int32(x), int32(y)+4, 14, rl.Gray)
	tun.FadeAlpha = gui.SliderBar(
		rl.Rectangle{X: x + 50, Y: y, Width: p.width - 50, Height: 18},
		"", fmt.Sprintf("%.0f", tun.FadeAlpha),
		tun.FadeAlpha, 4, 80,
	)

	return toggled
}
