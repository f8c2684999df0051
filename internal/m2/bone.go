package m2

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/binread"
)

// decodeBones reads the bone table. Unlike the plain array fields, a bone
// record running past the buffer truncates the table at that record
// instead of dropping the whole field. After reading, any bone whose
// parent index is not strictly smaller than its own loses the parent link,
// so array order always evaluates parent before child and a corrupt file
// cannot smuggle in a cycle.
func decodeBones(r *binread.Reader, lay headerLayout, c trackContext) []Bone {
	count := int(r.U32(lay.bones))
	base := int(r.U32(lay.bones + 4))
	if count <= 0 || count > maxBones {
		return nil
	}

	bones := make([]Bone, 0, count)
	for i := 0; i < count; i++ {
		off := base + i*lay.boneSize
		if !r.In(off, lay.boneSize) {
			break
		}
		b := Bone{
			KeyBoneID: r.I32(off),
			Flags:     r.U32(off + 4),
			Parent:    r.I16(off + 8),
			SubmeshID: r.U16(off + 10),
			Pivot:     mgl32.Vec3(r.F32x3(off + lay.bonePivot)),
		}
		b.Translation = decodeVec3Track(c, off+lay.boneTracks)
		b.Rotation = decodeQuatTrack(c, off+lay.boneTracks+lay.trackSize)
		b.Scale = decodeVec3Track(c, off+lay.boneTracks+2*lay.trackSize)
		bones = append(bones, b)
	}

	for i := range bones {
		if p := bones[i].Parent; p >= 0 && int(p) >= i {
			bones[i].Parent = -1
		}
	}
	return bones
}
