// Package view provides the map viewport: geographic bounds, pixel dimensions,
// and the Web-Mercator projection between them.
package view

import "math"

// View is the host map viewport. The wind field is fetched for its geographic
// bounds and projected into its pixel space.
type View struct {
	// Geographic bounds in degrees
	MinLat, MaxLat float64
	MinLon, MaxLon float64

	// Viewport dimensions in pixels
	Width, Height int
}

// New creates a view over the given bounds and pixel size.
func New(minLat, maxLat, minLon, maxLon float64, width, height int) *View {
	return &View{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
		Width:  width,
		Height: height,
	}
}

// mercY maps latitude to the Web-Mercator vertical coordinate.
func mercY(latDeg float64) float64 {
	rad := latDeg * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4 + rad/2))
}

// Project converts geographic coordinates to screen pixels.
// X grows east, Y grows south (screen convention).
func (v *View) Project(lon, lat float64) (x, y float64) {
	x = (lon - v.MinLon) / (v.MaxLon - v.MinLon) * float64(v.Width)

	top := mercY(v.MaxLat)
	bottom := mercY(v.MinLat)
	y = (top - mercY(lat)) / (top - bottom) * float64(v.Height)
	return x, y
}

// Unproject converts screen pixels back to geographic coordinates.
func (v *View) Unproject(x, y float64) (lon, lat float64) {
	lon = v.MinLon + x/float64(v.Width)*(v.MaxLon-v.MinLon)

	top := mercY(v.MaxLat)
	bottom := mercY(v.MinLat)
	my := top - y/float64(v.Height)*(top-bottom)
	lat = (2*math.Atan(math.Exp(my)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

// Resize updates the pixel dimensions; geographic bounds are unchanged.
func (v *View) Resize(width, height int) {
	v.Width = width
	v.Height = height
}

// Zoom returns the web-map zoom level implied by the longitude span
// (zoom 0 shows the full 360 degrees).
func (v *View) Zoom() float64 {
	span := v.MaxLon - v.MinLon
	if span <= 0 {
		return 0
	}
	return math.Log2(360 / span)
}

// Contains reports whether a geographic point falls inside the view bounds.
func (v *View) Contains(lon, lat float64) bool {
	return lon >= v.MinLon && lon <= v.MaxLon && lat >= v.MinLat && lat <= v.MaxLat
}
