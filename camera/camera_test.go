package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewFitsWorld(t *testing.T) {
	// Default world is 64x40 cells of 16 units on a 1280x800 window.
	cam := New(1280, 800, 1024, 640)

	if cam.X != 512 || cam.Y != 320 {
		t.Errorf("expected camera at (512, 320), got (%f, %f)", cam.X, cam.Y)
	}
	if !near(cam.Zoom, 1.25) || !near(cam.MinZoom, 1.25) {
		t.Errorf("expected zoom and min zoom 1.25, got %f and %f", cam.Zoom, cam.MinZoom)
	}
}

func TestFitUsesTighterAxis(t *testing.T) {
	cam := New(800, 600, 1600, 800)
	// min(800/1600, 600/800) = 0.5
	if !near(cam.Fit(), 0.5) {
		t.Errorf("expected fit 0.5, got %f", cam.Fit())
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}
	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestWorldToScreenAcrossSeam(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)
	cam.CenterOn(100, 720)

	// x=2500 is 160 units left of the camera across the seam.
	sx, _ := cam.WorldToScreen(2500, 720)
	if !near(sx, 640-160) {
		t.Errorf("expected x=%f, got %f", float32(640-160), sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)
	cam.X = 100

	cam.Pan(-200, 0)
	if !near(cam.X, 2460) {
		t.Errorf("expected X to wrap to 2460, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.SetZoom(0.1)
	if !near(cam.Zoom, 0.5) {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.ZoomBy(0.5)
	if cam.Zoom != cam.MaxZoom/2 {
		t.Errorf("ZoomBy(0.5) gave %f", cam.Zoom)
	}
}

func TestResizeRaisesZoom(t *testing.T) {
	cam := New(640, 400, 1024, 640)
	cam.Resize(2048, 1280)
	if !near(cam.Zoom, 2) {
		t.Errorf("expected zoom raised to the new fit 2, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)

	tests := []struct {
		name   string
		x, y   float32
		radius float32
		want   bool
	}{
		{"center", 1280, 720, 10, true},
		{"far corner", 2400, 1300, 10, false},
		{"edge with radius", 600, 720, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cam.IsVisible(tt.x, tt.y, tt.radius); got != tt.want {
				t.Errorf("IsVisible(%v, %v, %v) = %v", tt.x, tt.y, tt.radius, got)
			}
		})
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X, cam.Y = 500, 500
	cam.SetZoom(3)

	cam.Reset()
	if cam.X != 1280 || cam.Y != 720 || !near(cam.Zoom, 0.5) {
		t.Errorf("Reset left camera at (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}
