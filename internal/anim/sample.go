package anim

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/m2"
)

// slotKeys returns the keyframe data for one sequence slot, or nil when
// the track has nothing usable there.
func slotKeys[T any](seqs []m2.TrackSeq[T], slot int) *m2.TrackSeq[T] {
	if slot < 0 || slot >= len(seqs) {
		return nil
	}
	s := &seqs[slot]
	if len(s.Times) == 0 || len(s.Keys) == 0 {
		return nil
	}
	return s
}

// locate finds the bracketing keyframe pair for time t. Outside the key
// range it clamps to the first or last key with frac 0; inside, it binary
// searches the ascending timestamps and returns the blend fraction toward
// the next key.
func locate(times []uint32, t float64) (int, float32) {
	if t <= float64(times[0]) {
		return 0, 0
	}
	last := len(times) - 1
	if t >= float64(times[last]) {
		return last, 0
	}
	i := sort.Search(len(times), func(k int) bool {
		return float64(times[k]) > t
	}) - 1
	if i > last-1 {
		i = last - 1
	}
	if i < 0 {
		i = 0
	}
	t0 := float64(times[i])
	t1 := float64(times[i+1])
	if t1 == t0 {
		return i, 0
	}
	return i, float32((t - t0) / (t1 - t0))
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Slerp spherically interpolates two unit quaternions along the shorter
// arc. Nearly parallel inputs fall back to a normalized linear blend,
// which avoids dividing by a vanishing sine.
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	dot := float64(a.Dot(b))
	if dot < 0 {
		b = b.Scale(-1)
		dot = -dot
	}
	if dot > 0.9995 {
		return a.Scale(1 - t).Add(b.Scale(t)).Normalize()
	}
	if dot > 1 {
		dot = 1
	}
	theta0 := math.Acos(dot)
	theta := theta0 * float64(t)
	sin0 := math.Sin(theta0)
	s0 := math.Cos(theta) - dot*math.Sin(theta)/sin0
	s1 := math.Sin(theta) / sin0
	return a.Scale(float32(s0)).Add(b.Scale(float32(s1)))
}
