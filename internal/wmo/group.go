package wmo

import (
	"fmt"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/binread"
)

// DecodeGroup decodes one group file. Geometry normally sits in sub-chunks
// inside a group-properties wrapper; when no wrapper is present the whole
// file is scanned as a flat chunk stream instead. Element counts come from
// chunk sizes, so a truncated chunk simply yields fewer elements.
func DecodeGroup(data []byte) (*Group, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("wmo: group file too small (%d bytes)", len(data))
	}
	g := &Group{}
	wrapped := false
	scanChunks(data, 0, len(data), func(tag string, payload []byte) {
		if tag != "MOGP" {
			return
		}
		wrapped = true
		if len(payload) < groupHeaderSize {
			return
		}
		decodeGroupHeader(g, binread.New(payload))
		scanChunks(payload, groupHeaderSize, len(payload), g.geometryChunk)
	})
	if !wrapped {
		scanChunks(data, 0, len(data), g.geometryChunk)
	}
	if len(g.Batches) == 0 && len(g.Indices) > 0 {
		g.Batches = append(g.Batches, defaultBatch(len(g.Indices)))
	}
	return g, nil
}

const groupHeaderSize = 68

func decodeGroupHeader(g *Group, r *binread.Reader) {
	g.Flags = r.U32(0)
	g.Bounds = dvec3.Box{
		Min: dvec3.T{float64(r.F32(4)), float64(r.F32(8)), float64(r.F32(12))},
		Max: dvec3.T{float64(r.F32(16)), float64(r.F32(20)), float64(r.F32(24))},
	}
	g.NameOffset = r.U32(28)
	g.PortalStart = r.U16(32)
	g.PortalCount = r.U16(34)
	g.TransBatchCount = r.U16(36)
	g.IntBatchCount = r.U16(38)
	g.ExtBatchCount = r.U16(40)
	for i := range g.FogIndices {
		g.FogIndices[i] = r.U32(44 + i*4)
	}
	g.LiquidType = r.U32(60)
}

func (g *Group) geometryChunk(tag string, payload []byte) {
	r := binread.New(payload)
	switch tag {
	case "MOVT":
		g.Positions = readVec3s(r)
	case "MONR":
		g.Normals = readVec3s(r)
	case "MOTV":
		n := r.Len() / 8
		g.UVs = make([]mgl32.Vec2, 0, n)
		for i := 0; i < n; i++ {
			g.UVs = append(g.UVs, mgl32.Vec2(r.F32x2(i*8)))
		}
	case "MOVI":
		g.Indices = r.U16s(0, r.Len()/2)
	case "MOCV":
		n := r.Len() / 4
		g.Colors = make([][4]uint8, 0, n)
		for i := 0; i < n; i++ {
			g.Colors = append(g.Colors, bgra(r.U32(i*4)))
		}
	case "MOBA":
		decodeBatches(g, r)
	}
}

func readVec3s(r *binread.Reader) []mgl32.Vec3 {
	n := r.Len() / 12
	out := make([]mgl32.Vec3, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, mgl32.Vec3(r.F32x3(i*12)))
	}
	return out
}

// decodeBatches reads 24-byte draw-batch records. The first 12 bytes of
// each record are a coarse culling box and are skipped.
func decodeBatches(g *Group, r *binread.Reader) {
	n := r.Len() / 24
	g.Batches = make([]Batch, 0, n)
	for i := 0; i < n; i++ {
		off := i * 24
		g.Batches = append(g.Batches, Batch{
			StartIndex:  r.U32(off + 12),
			IndexCount:  r.U16(off + 16),
			StartVertex: r.U16(off + 18),
			LastVertex:  r.U16(off + 20),
			Flags:       r.U8(off + 22),
			MaterialID:  r.U8(off + 23),
		})
	}
}

// defaultBatch covers the whole index array with material 0, for group
// files that carry geometry but no batch chunk.
func defaultBatch(indexCount int) Batch {
	if indexCount > 0xFFFF {
		indexCount = 0xFFFF
	}
	return Batch{IndexCount: uint16(indexCount)}
}
