package m2

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/binread"
)

const skinMagic = "SKIN"

// embeddedViewSize is the on-disk size of one legacy view header: five
// (count, offset) pairs plus a bone count.
const embeddedViewSize = 44

// Submesh is a contiguous slice of the skin's vertex and index ranges,
// drawable as one unit.
type Submesh struct {
	ID             uint16
	Level          uint16
	VertexStart    uint16
	VertexCount    uint16
	IndexStart     uint16
	IndexCount     uint16
	BoneCount      uint16
	BoneFirst      uint16
	BoneInfluences uint16
	Center         mgl32.Vec3
}

// Batch binds one submesh to its render state. TextureCombo indexes the
// texture-combination table, which indirects through the model's
// TextureLookup to an actual texture slot.
type Batch struct {
	Flags            uint8
	Shader           uint16
	Submesh          uint16
	Material         uint16
	TextureCount     uint16
	TextureCombo     uint16
	TextureWeight    uint16
	TextureTransform uint16
}

// Skin is one view (level of detail) over the model's shared vertex pool:
// the vertex-lookup table, raw triangle indices into that table, the
// resolved index buffer, and the submesh/batch partitioning.
type Skin struct {
	VertexLookup []uint16
	Triangles    []uint16
	// Indices is Triangles resolved into model-vertex space; this, not
	// Triangles, is what gets drawn.
	Indices   []uint16
	Submeshes []Submesh
	Batches   []Batch
}

// DecodeSkin parses a standalone companion skin file. The 4-byte magic
// prefix is optional; array offsets are relative to the file start either
// way. Malformed fields decode as empty, so this never fails outright.
func DecodeSkin(data []byte, m *Model) *Skin {
	base := 0
	if len(data) >= 4 && string(data[:4]) == skinMagic {
		base = 4
	}
	return decodeSkinAt(binread.New(data), base, m)
}

// EmbeddedSkin decodes view index view from a legacy model's own buffer,
// where the header table lives at the offset recorded during DecodeModel.
// data must be the same bytes DecodeModel was given.
func EmbeddedSkin(data []byte, m *Model, view int) (*Skin, error) {
	if !m.Legacy() {
		return nil, fmt.Errorf("m2: version %d stores views in companion skin files", m.Version)
	}
	if view < 0 || view >= int(m.NumViews) {
		return nil, fmt.Errorf("m2: view %d out of range (model has %d)", view, m.NumViews)
	}
	r := binread.New(data)
	base := int(m.viewsOffset) + view*embeddedViewSize
	if m.viewsOffset == 0 || !r.In(base, embeddedViewSize) {
		return nil, fmt.Errorf("m2: embedded view table truncated")
	}
	return decodeSkinAt(r, base, m), nil
}

func decodeSkinAt(r *binread.Reader, base int, m *Model) *Skin {
	s := &Skin{}

	lc, lb := r.Array(base, 2, maxSkinIndices)
	s.VertexLookup = r.U16s(lb, lc)

	tc, tb := r.Array(base+8, 2, maxSkinTriangles)
	s.Triangles = r.U16s(tb, tc)

	s.Indices = resolveIndices(s.VertexLookup, s.Triangles, len(m.Vertices))

	subSize := layoutFor(m.Version).submeshSize
	sc, sb := r.Array(base+24, subSize, maxSubmeshes)
	if sc > 0 {
		s.Submeshes = make([]Submesh, sc)
		for i := range s.Submeshes {
			off := sb + i*subSize
			s.Submeshes[i] = Submesh{
				ID:             r.U16(off),
				Level:          r.U16(off + 2),
				VertexStart:    r.U16(off + 4),
				VertexCount:    r.U16(off + 6),
				IndexStart:     r.U16(off + 8),
				IndexCount:     r.U16(off + 10),
				BoneCount:      r.U16(off + 12),
				BoneFirst:      r.U16(off + 14),
				BoneInfluences: r.U16(off + 16),
				Center:         mgl32.Vec3(r.F32x3(off + 20)),
			}
		}
	}

	bc, bb := r.Array(base+32, 24, maxBatches)
	if bc > 0 {
		s.Batches = make([]Batch, bc)
		for i := range s.Batches {
			off := bb + i*24
			s.Batches[i] = Batch{
				Flags:            r.U8(off),
				Shader:           r.U16(off + 2),
				Submesh:          r.U16(off + 4),
				Material:         r.U16(off + 10),
				TextureCount:     r.U16(off + 14),
				TextureCombo:     r.U16(off + 16),
				TextureWeight:    r.U16(off + 20),
				TextureTransform: r.U16(off + 22),
			}
		}
	}
	return s
}

// resolveIndices flattens the two-level indirection: a triangle entry
// indexes vertexLookup, whose value indexes the model's vertex pool. An
// entry out of range on either level substitutes vertex 0.
func resolveIndices(lookup, tris []uint16, vertexCount int) []uint16 {
	if len(tris) == 0 {
		return nil
	}
	out := make([]uint16, len(tris))
	for i, t := range tris {
		if int(t) >= len(lookup) {
			continue
		}
		g := lookup[t]
		if int(g) >= vertexCount {
			continue
		}
		out[i] = g
	}
	return out
}

// BatchTexture resolves a batch to its texture slot: combo index →
// TextureLookup → Textures. Returns -1 when any hop is out of range.
func (m *Model) BatchTexture(b Batch) int {
	combo := int(b.TextureCombo)
	if combo < 0 || combo >= len(m.TextureLookup) {
		return -1
	}
	ti := int(m.TextureLookup[combo])
	if ti >= len(m.Textures) {
		return -1
	}
	return ti
}
