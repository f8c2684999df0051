package m2

import (
	"encoding/binary"
	"fmt"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/binread"
)

// DecodeModel parses an M2 model from raw file bytes. The only fatal
// failures are a missing magic or a file too short to carry one; every
// other defect (truncated arrays, over-declared counts, stray offsets)
// degrades to empty fields and the rest of the model still decodes.
func DecodeModel(data []byte) (*Model, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("m2: file too small (%d bytes)", len(data))
	}
	if string(data[:4]) != m2Magic {
		return nil, fmt.Errorf("m2: bad magic %q", data[:4])
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	lay := layoutFor(version)
	r := binread.New(data)

	m := &Model{Version: version, GlobalFlags: r.U32(16)}
	if n, b := r.Array(8, 1, maxNameLen); n > 0 {
		m.Name = r.String(b, n)
	}

	gc, gb := r.Array(lay.globalSequences, 4, maxGlobalSequences)
	m.GlobalSequences = r.U32s(gb, gc)

	m.Sequences = decodeSequences(r, lay)

	c := trackContext{r: r, legacy: m.Legacy(), seqFlags: sequenceFlags(m.Sequences)}
	m.Bones = decodeBones(r, lay, c)

	bc, bb := r.Array(lay.boneLookup, 2, maxLookup)
	m.BoneLookup = r.U16s(bb, bc)

	m.Vertices = decodeVertices(r, lay)
	m.Textures = decodeTextures(r, lay)

	tc, tb := r.Array(lay.textureLookup, 2, maxLookup)
	m.TextureLookup = r.U16s(tb, tc)
	uc, ub := r.Array(lay.textureUnitLookup, 2, maxLookup)
	m.TextureUnitLookup = r.U16s(ub, uc)
	wc, wb := r.Array(lay.transparencyLookup, 2, maxLookup)
	m.TransparencyLookup = r.U16s(wb, wc)
	xc, xb := r.Array(lay.textureTransformLookup, 2, maxLookup)
	m.TextureTransformLookup = r.I16s(xb, xc)

	m.Materials = decodeMaterials(r, lay)
	m.TextureWeights = decodeTextureWeights(r, lay, c)
	if !m.Legacy() {
		// Legacy texture transforms use a different track wrapper; the
		// original client generation ignored them too.
		m.TextureTransforms = decodeTextureTransforms(r, lay, c)
	}

	m.Attachments = decodeAttachments(r, lay)
	ac, ab := r.Array(lay.attachmentLookup, 2, maxLookup)
	m.AttachmentLookup = r.U16s(ab, ac)

	m.Collision = decodeCollision(r, lay)

	m.VertexBox = readBox(r, lay.vertexBox)
	m.VertexRadius = r.F32(lay.vertexBox + 24)
	m.BoundingBox = readBox(r, lay.boundingBox)
	m.BoundingRadius = r.F32(lay.boundingBox + 24)

	m.NumViews = r.U32(lay.views)
	if m.Legacy() {
		m.viewsOffset = r.U32(lay.views + 4)
	}
	return m, nil
}

func sequenceFlags(seqs []Sequence) []uint32 {
	if len(seqs) == 0 {
		return nil
	}
	flags := make([]uint32, len(seqs))
	for i := range seqs {
		flags[i] = seqs[i].Flags
	}
	return flags
}

func decodeSequences(r *binread.Reader, lay headerLayout) []Sequence {
	count, base := r.Array(lay.sequences, lay.sequenceSize, maxSequences)
	if count == 0 {
		return nil
	}
	seqs := make([]Sequence, count)
	for i := range seqs {
		off := base + i*lay.sequenceSize
		s := Sequence{
			ID:        r.U16(off),
			Variation: r.U16(off + 2),
			MoveSpeed: r.F32(off + lay.seqSpeed),
			Flags:     r.U32(off + lay.seqFlags),
			Frequency: r.I16(off + lay.seqFrequency),
			ReplayMin: r.U32(off + lay.seqReplay),
			ReplayMax: r.U32(off + lay.seqReplay + 4),
			BlendTime: r.U32(off + lay.seqBlend),
			Next:      r.I16(off + lay.seqNext),
		}
		if lay.seqDurationEnd < 0 {
			s.Duration = r.U32(off + lay.seqDuration)
		} else {
			start := r.U32(off + lay.seqDuration)
			end := r.U32(off + lay.seqDurationEnd)
			if end > start {
				s.Duration = end - start
			}
		}
		seqs[i] = s
	}
	return seqs
}

func decodeVertices(r *binread.Reader, lay headerLayout) []Vertex {
	count, base := r.Array(lay.vertices, 48, maxVertices)
	if count == 0 {
		return nil
	}
	verts := make([]Vertex, count)
	for i := range verts {
		off := base + i*48
		v := Vertex{
			Position: mgl32.Vec3(r.F32x3(off)),
			Normal:   mgl32.Vec3(r.F32x3(off + 20)),
			UV:       mgl32.Vec2(r.F32x2(off + 32)),
		}
		copy(v.BoneWeights[:], r.Bytes(off+12, 4))
		copy(v.BoneIndices[:], r.Bytes(off+16, 4))
		verts[i] = v
	}
	return verts
}

func decodeTextures(r *binread.Reader, lay headerLayout) []Texture {
	count, base := r.Array(lay.textures, 16, maxTextures)
	if count == 0 {
		return nil
	}
	texs := make([]Texture, count)
	for i := range texs {
		off := base + i*16
		t := Texture{Type: r.U32(off), Flags: r.U32(off + 4)}
		nameLen := r.U32(off + 8)
		nameOfs := r.U32(off + 12)
		if t.Type == 0 && nameLen > 1 {
			if n, b := r.Check(nameLen, nameOfs, 1, maxNameLen); n > 0 {
				t.Filename = r.String(b, n)
			}
		}
		texs[i] = t
	}
	return texs
}

func decodeMaterials(r *binread.Reader, lay headerLayout) []Material {
	count, base := r.Array(lay.materials, 4, maxMaterials)
	if count == 0 {
		return nil
	}
	mats := make([]Material, count)
	for i := range mats {
		off := base + i*4
		mats[i] = Material{Flags: r.U16(off), BlendMode: r.U16(off + 2)}
	}
	return mats
}

func decodeTextureWeights(r *binread.Reader, lay headerLayout, c trackContext) []Track[float32] {
	count, base := r.Array(lay.textureWeights, lay.trackSize, maxTexWeights)
	if count == 0 {
		return nil
	}
	// Each record is exactly one float track.
	weights := make([]Track[float32], count)
	for i := range weights {
		weights[i] = decodeFloatTrack(c, base+i*lay.trackSize)
	}
	return weights
}

func decodeTextureTransforms(r *binread.Reader, lay headerLayout, c trackContext) []TextureTransform {
	count, base := r.Array(lay.textureTransforms, lay.textureTransformSize, maxTexTransforms)
	if count == 0 {
		return nil
	}
	tts := make([]TextureTransform, count)
	for i := range tts {
		off := base + i*lay.textureTransformSize
		tts[i] = TextureTransform{
			Translation: decodeVec3Track(c, off),
			Rotation:    decodeQuatTrack(c, off+lay.trackSize),
			Scale:       decodeVec3Track(c, off+2*lay.trackSize),
		}
	}
	return tts
}

func decodeAttachments(r *binread.Reader, lay headerLayout) []Attachment {
	count, base := r.Array(lay.attachments, lay.attachmentSize, maxAttachments)
	if count == 0 {
		return nil
	}
	atts := make([]Attachment, count)
	for i := range atts {
		off := base + i*lay.attachmentSize
		atts[i] = Attachment{
			ID:       r.U32(off),
			Bone:     r.U16(off + 4),
			Position: mgl32.Vec3(r.F32x3(off + 8)),
		}
	}
	return atts
}

func decodeCollision(r *binread.Reader, lay headerLayout) Collision {
	var col Collision
	tc, tb := r.Array(lay.collisionTriangles, 2, maxCollision)
	col.Triangles = r.U16s(tb, tc)

	vc, vb := r.Array(lay.collisionVertices, 12, maxCollision)
	if vc > 0 {
		col.Vertices = make([]mgl32.Vec3, vc)
		for i := range col.Vertices {
			col.Vertices[i] = mgl32.Vec3(r.F32x3(vb + i*12))
		}
	}

	// Face normals are padded to 16 bytes on disk; the w component is
	// discarded.
	nc, nb := r.Array(lay.collisionNormals, 16, maxCollision)
	if nc > 0 {
		col.FaceNormals = make([]mgl32.Vec3, nc)
		for i := range col.FaceNormals {
			col.FaceNormals[i] = mgl32.Vec3(r.F32x3(nb + i*16))
		}
	}
	return col
}

func readBox(r *binread.Reader, off int) dvec3.Box {
	return dvec3.Box{
		Min: dvec3.T{float64(r.F32(off)), float64(r.F32(off + 4)), float64(r.F32(off + 8))},
		Max: dvec3.T{float64(r.F32(off + 12)), float64(r.F32(off + 16)), float64(r.F32(off + 20))},
	}
}
