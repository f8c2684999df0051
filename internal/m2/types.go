// Package m2 decodes M2 skeletal models: header arrays, keyframe tracks,
// bones, and the companion skin (index/submesh/batch) data. Decoding is
// tolerant by construction; a truncated or over-declared field collapses to
// an empty collection and the rest of the model still loads.
package m2

import (
	"math"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one entry of the shared vertex pool. 48 bytes on disk:
// position f32x3, weights u8x4, bone indices u8x4, normal f32x3, uv f32x2.
// Bone indices go through the model's BoneLookup table, not straight into
// the bone array.
type Vertex struct {
	Position    mgl32.Vec3
	BoneWeights [4]uint8
	BoneIndices [4]uint8
	Normal      mgl32.Vec3
	UV          mgl32.Vec2
}

// Texture is a texture slot. Filename is only populated for type 0
// (hardcoded path); other types are resolved at runtime by the host from
// creature skin / character data and carry an empty name.
type Texture struct {
	Type     uint32
	Flags    uint32
	Filename string
}

// Sequence is one animation clip. Duration is stored directly in the
// current layout and as an end−start timestamp pair in the legacy one.
type Sequence struct {
	ID        uint16
	Variation uint16
	Duration  uint32 // ms
	MoveSpeed float32
	Flags     uint32
	Frequency int16
	ReplayMin uint32
	ReplayMax uint32
	BlendTime uint32
	Next      int16
}

// Material holds one render-flags record: u16 flags, u16 blend mode.
type Material struct {
	Flags     uint16
	BlendMode uint16
}

// Attachment is a named mount point (weapon, shield, effects) bound to a
// bone.
type Attachment struct {
	ID       uint32
	Bone     uint16
	Position mgl32.Vec3
}

// Collision is the simplified physics mesh: flat triangle indices over its
// own vertex pool plus one normal per face.
type Collision struct {
	Triangles   []uint16
	Vertices    []mgl32.Vec3
	FaceNormals []mgl32.Vec3
}

// TextureTransform animates a texture slot's UVs (flowing water, glow
// pulses). Only the current layout carries these.
type TextureTransform struct {
	Translation Track[mgl32.Vec3]
	Rotation    Track[mgl32.Quat]
	Scale       Track[mgl32.Vec3]
}

// Bone is one node of the transform hierarchy. Parent is an index into the
// same array or -1 for a root; decoding guarantees parent < own index so
// array order is evaluation order. Pivot is the local rotation origin.
type Bone struct {
	KeyBoneID   int32
	Flags       uint32
	Parent      int16
	SubmeshID   uint16
	Translation Track[mgl32.Vec3]
	Rotation    Track[mgl32.Quat]
	Scale       Track[mgl32.Vec3]
	Pivot       mgl32.Vec3
}

// Model is a fully decoded M2. Everything here is immutable after
// DecodeModel (plus any ApplyAnimFile calls made during loading) and safe
// to share across goroutines.
type Model struct {
	Version     uint32
	Name        string
	GlobalFlags uint32

	GlobalSequences []uint32
	Sequences       []Sequence
	Bones           []Bone
	BoneLookup      []uint16
	Vertices        []Vertex
	Textures        []Texture
	TextureLookup   []uint16

	Materials         []Material
	TextureUnitLookup []uint16
	// TextureWeights animates per-texture opacity, one float track per
	// record; a batch reaches its record through TransparencyLookup.
	TextureWeights         []Track[float32]
	TransparencyLookup     []uint16
	TextureTransforms      []TextureTransform
	TextureTransformLookup []int16

	Attachments      []Attachment
	AttachmentLookup []uint16
	Collision        Collision

	VertexBox      dvec3.Box
	VertexRadius   float32
	BoundingBox    dvec3.Box
	BoundingRadius float32

	// NumViews counts the skin profiles. The current layout stores them in
	// companion .skin files; the legacy layout embeds them at viewsOffset.
	NumViews    uint32
	viewsOffset uint32
}

// Legacy reports whether the model uses the old field-offset table and
// record sizes (final vanilla-era version and below).
func (m *Model) Legacy() bool {
	return m.Version <= LegacyMaxVersion
}

// SequenceExternal reports whether sequence i keeps its keyframes in a
// companion .anim file rather than in the model itself.
func (m *Model) SequenceExternal(i int) bool {
	if m.Legacy() || i < 0 || i >= len(m.Sequences) {
		return false
	}
	return m.Sequences[i].Flags&seqFlagEmbedded == 0
}

// Bounds returns the vertex-extent box from the header, falling back to a
// scan of the decoded vertices when the header box is degenerate. Returns
// a unit box for models with no geometry at all.
func (m *Model) Bounds() dvec3.Box {
	if boxValid(m.VertexBox) {
		return m.VertexBox
	}
	if len(m.Vertices) == 0 {
		if boxValid(m.BoundingBox) {
			return m.BoundingBox
		}
		return dvec3.Box{Min: dvec3.T{-1, -1, -1}, Max: dvec3.T{1, 1, 1}}
	}
	minX, minY, minZ := math.MaxFloat64, math.MaxFloat64, math.MaxFloat64
	maxX, maxY, maxZ := -math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		minX = math.Min(minX, float64(p[0]))
		minY = math.Min(minY, float64(p[1]))
		minZ = math.Min(minZ, float64(p[2]))
		maxX = math.Max(maxX, float64(p[0]))
		maxY = math.Max(maxY, float64(p[1]))
		maxZ = math.Max(maxZ, float64(p[2]))
	}
	return dvec3.Box{Min: dvec3.T{minX, minY, minZ}, Max: dvec3.T{maxX, maxY, maxZ}}
}

func boxValid(b dvec3.Box) bool {
	return b.Max[0] > b.Min[0] || b.Max[1] > b.Min[1] || b.Max[2] > b.Min[2]
}
