package anim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/m2"
)

// Contributions below this normalized weight are ignored.
const weightEpsilon = 0.001

// Skinner applies linear-blend skinning to a model's vertex pool. Output
// buffers are reused across calls, so results are valid until the next
// call on the same Skinner.
type Skinner struct {
	model   *m2.Model
	out     []mgl32.Vec3
	normals []mgl32.Vec3
}

func NewSkinner(m *m2.Model) *Skinner {
	return &Skinner{model: m, out: make([]mgl32.Vec3, len(m.Vertices))}
}

// Apply transforms every vertex position by its weighted bone matrices.
// Each of the four influences maps its bone index through the model's
// bone-lookup table; an out-of-range lookup or bone index drops that
// contribution. The homogeneous w accumulates alongside the position, so
// the final divide renormalizes partial weight sums. A vertex with no
// surviving contribution keeps its rest-pose position.
func (s *Skinner) Apply(world []mgl32.Mat4) []mgl32.Vec3 {
	verts := s.model.Vertices
	if len(s.out) != len(verts) {
		s.out = make([]mgl32.Vec3, len(verts))
	}
	lookup := s.model.BoneLookup
	for i := range verts {
		v := &verts[i]
		var acc mgl32.Vec4
		for k := 0; k < 4; k++ {
			w := float32(v.BoneWeights[k]) / 255
			if w <= weightEpsilon {
				continue
			}
			li := int(v.BoneIndices[k])
			if li >= len(lookup) {
				continue
			}
			bi := int(lookup[li])
			if bi >= len(world) {
				continue
			}
			p := world[bi].Mul4x1(v.Position.Vec4(1))
			acc = acc.Add(p.Mul(w))
		}
		if acc.W() <= weightEpsilon {
			s.out[i] = v.Position
			continue
		}
		s.out[i] = acc.Vec3().Mul(1 / acc.W())
	}
	return s.out
}

// Normals rotates every vertex normal by the same weighted blend, with
// translation dropped, and renormalizes. Degenerate results keep the
// rest-pose normal.
func (s *Skinner) Normals(world []mgl32.Mat4) []mgl32.Vec3 {
	verts := s.model.Vertices
	if len(s.normals) != len(verts) {
		s.normals = make([]mgl32.Vec3, len(verts))
	}
	lookup := s.model.BoneLookup
	for i := range verts {
		v := &verts[i]
		var acc mgl32.Vec3
		total := float32(0)
		for k := 0; k < 4; k++ {
			w := float32(v.BoneWeights[k]) / 255
			if w <= weightEpsilon {
				continue
			}
			li := int(v.BoneIndices[k])
			if li >= len(lookup) {
				continue
			}
			bi := int(lookup[li])
			if bi >= len(world) {
				continue
			}
			n := world[bi].Mul4x1(v.Normal.Vec4(0))
			acc = acc.Add(n.Vec3().Mul(w))
			total += w
		}
		if total <= weightEpsilon || acc.Len() < 1e-6 {
			s.normals[i] = v.Normal
			continue
		}
		s.normals[i] = acc.Normalize()
	}
	return s.normals
}
