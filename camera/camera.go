// Package camera maps the toroidal world onto the screen.
package camera

import "math"

// Camera is a pan/zoom view centred on a world point. Every world point has
// exactly one screen position: the copy nearest the camera centre.
type Camera struct {
	// X, Y is the world point at the centre of the viewport.
	X, Y float32

	// Zoom is screen pixels per world unit.
	Zoom float32

	ViewportW, ViewportH float32
	WorldW, WorldH       float32

	MinZoom, MaxZoom float32
}

// New creates a camera that fits the whole world into the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		WorldW:  worldW,
		WorldH:  worldH,
		MaxZoom: 8,
	}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// Fit is the zoom at which the whole world just fits the viewport.
func (c *Camera) Fit() float32 {
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := delta(wx, c.X, c.WorldW)
	dy := delta(wy, c.Y, c.WorldH)
	return c.ViewportW/2 + dx*c.Zoom, c.ViewportH/2 + dy*c.Zoom
}

// ScreenToWorld converts screen coordinates to a wrapped world point.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = wrap(c.X+(sx-c.ViewportW/2)/c.Zoom, c.WorldW)
	wy = wrap(c.Y+(sy-c.ViewportH/2)/c.Zoom, c.WorldH)
	return wx, wy
}

// IsVisible reports whether a circle at (wx, wy) may overlap the viewport.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := delta(wx, c.X, c.WorldW)
	dy := delta(wy, c.Y, c.WorldH)
	return abs(dx) <= c.ViewportW/(2*c.Zoom)+radius &&
		abs(dy) <= c.ViewportH/(2*c.Zoom)+radius
}

// Resize sets the viewport and lowers the minimum zoom so the whole world
// can be shown.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.Fit()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by a screen-space delta.
func (c *Camera) Pan(dx, dy float32) {
	c.X = wrap(c.X+dx/c.Zoom, c.WorldW)
	c.Y = wrap(c.Y+dy/c.Zoom, c.WorldH)
}

// CenterOn moves the camera centre to a world point.
func (c *Camera) CenterOn(wx, wy float32) {
	c.X = wrap(wx, c.WorldW)
	c.Y = wrap(wy, c.WorldH)
}

// SetZoom sets the zoom, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = min(max(zoom, c.MinZoom), c.MaxZoom)
}

// ZoomBy multiplies the zoom by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centres the world and fits it to the viewport.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(c.Fit())
}

// VisibleWorldBounds returns the unwrapped world rectangle under the
// viewport. min may be negative or max beyond the world size when the view
// crosses a seam.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// delta is the shortest signed distance from 'from' to 'to' on a ring.
func delta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

func wrap(x, size float32) float32 {
	r := float32(math.Mod(float64(x), float64(size)))
	if r < 0 {
		r += size
	}
	return r
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
