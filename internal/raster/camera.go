package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot camera: models are Z-up, so the view rotates the model about
// Z for a three-quarter angle, pitches about X to look slightly down,
// and projects orthographically. Screen x follows view x, screen y
// follows view z (up), and view y becomes depth.
const (
	viewYawDeg   = 135.0
	viewPitchDeg = 25.0
)

type view struct {
	rot    mgl64.Mat3
	center mgl64.Vec3
	scale  float64
	size   int
}

// fitView computes the orbit rotation plus the centering and scaling
// that make the point cloud fill the frame minus margin on its longer
// screen axis.
func fitView(points []mgl32.Vec3, size, margin int) view {
	rot := mgl64.Rotate3DX(mgl64.DegToRad(viewPitchDeg)).
		Mul3(mgl64.Rotate3DZ(mgl64.DegToRad(viewYawDeg)))

	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		tv := rot.Mul3x1(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		for k := 0; k < 3; k++ {
			if tv[k] < min[k] {
				min[k] = tv[k]
			}
			if tv[k] > max[k] {
				max[k] = tv[k]
			}
		}
	}

	v := view{rot: rot, scale: 1, size: size}
	if len(points) == 0 {
		return v
	}
	v.center = min.Add(max).Mul(0.5)

	span := max[0] - min[0]
	if s := max[2] - min[2]; s > span {
		span = s
	}
	if span < 0.001 {
		span = 0.001
	}
	v.scale = float64(size-2*margin) / span
	return v
}

// projectAll maps points to screen x, screen y, and depth slices. Depth
// grows toward the camera, matching the z-buffer convention.
func projectAll(points []mgl32.Vec3, v view) (px, py, pz []float64) {
	n := len(points)
	px = make([]float64, n)
	py = make([]float64, n)
	pz = make([]float64, n)
	half := float64(v.size) / 2
	for i, p := range points {
		tv := v.rot.Mul3x1(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		tv = tv.Sub(v.center)
		px[i] = tv[0]*v.scale + half
		py[i] = half - tv[2]*v.scale
		pz[i] = -tv[1] * v.scale
	}
	return px, py, pz
}
