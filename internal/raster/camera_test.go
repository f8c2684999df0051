package raster

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func cubeCorners() []mgl32.Vec3 {
	var pts []mgl32.Vec3
	for _, x := range []float32{-1, 1} {
		for _, y := range []float32{-1, 1} {
			for _, z := range []float32{-1, 1} {
				pts = append(pts, mgl32.Vec3{x, y, z})
			}
		}
	}
	return pts
}

func TestFitViewCentering(t *testing.T) {
	v := fitView(cubeCorners(), 100, 10)
	// The corner cloud is symmetric about the origin, so the origin lands
	// dead center.
	px, py, pz := projectAll([]mgl32.Vec3{{0, 0, 0}}, v)
	if math.Abs(px[0]-50) > 1e-9 || math.Abs(py[0]-50) > 1e-9 {
		t.Errorf("Expected origin at (50,50), got (%g,%g)", px[0], py[0])
	}
	if math.Abs(pz[0]) > 1e-9 {
		t.Errorf("Expected zero depth at center, got %g", pz[0])
	}
}

func TestFitViewMargin(t *testing.T) {
	pts := cubeCorners()
	v := fitView(pts, 100, 10)
	px, py, _ := projectAll(pts, v)
	for i := range px {
		if px[i] < 10-1e-6 || px[i] > 90+1e-6 {
			t.Errorf("Corner %d x=%g outside margin", i, px[i])
		}
		if py[i] < 10-1e-6 || py[i] > 90+1e-6 {
			t.Errorf("Corner %d y=%g outside margin", i, py[i])
		}
	}
}

func TestFitViewEmpty(t *testing.T) {
	v := fitView(nil, 100, 10)
	if v.scale != 1 {
		t.Errorf("Expected unit scale for no points, got %g", v.scale)
	}
	px, py, pz := projectAll(nil, v)
	if len(px) != 0 || len(py) != 0 || len(pz) != 0 {
		t.Error("Expected empty projections")
	}
}

func TestFitViewSinglePoint(t *testing.T) {
	pts := []mgl32.Vec3{{3, 4, 5}}
	v := fitView(pts, 100, 10)
	px, py, _ := projectAll(pts, v)
	if math.Abs(px[0]-50) > 1e-6 || math.Abs(py[0]-50) > 1e-6 {
		t.Errorf("Expected lone point centered, got (%g,%g)", px[0], py[0])
	}
}
