// Package wmo decodes static world-object models: a root file carrying
// materials, texture names, and placement tables, plus numbered group
// files carrying the actual geometry. Both are chunk streams whose 4-byte
// tags appear in either byte order in the wild.
package wmo

import (
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/go-gl/mathgl/mgl32"
)

// Material is one 64-byte materials-chunk record. The three texture fields
// are byte offsets into the root's texture string table, not indices;
// resolve them with Root.TextureIndex.
type Material struct {
	Flags     uint32
	Shader    uint32
	BlendMode uint32
	Texture1  uint32
	Color1    uint32
	Texture2  uint32
	Color2    uint32
	Texture3  uint32
	Color3    uint32
}

// GroupInfo is one group-info record from the root file. Name is resolved
// from the group-name table when present.
type GroupInfo struct {
	Flags      uint32
	Bounds     dvec3.Box
	NameOffset int32
	Name       string
}

// DoodadSet selects a contiguous run of doodad definitions.
type DoodadSet struct {
	Name  string
	Start uint32
	Count uint32
}

// Doodad places one prop model inside the object. NameOffset is a byte
// offset into the doodad-name table.
type Doodad struct {
	NameOffset uint32
	Flags      uint8
	Position   mgl32.Vec3
	Rotation   mgl32.Quat
	Scale      float32
	Color      [4]uint8 // RGBA, converted from the stored BGRA
}

// Root is the decoded object-level file.
type Root struct {
	Version uint32

	TextureCount    uint32
	GroupCount      uint32
	PortalCount     uint32
	LightCount      uint32
	DoodadNameCount uint32
	DoodadDefCount  uint32
	DoodadSetCount  uint32
	AmbientColor    [4]uint8 // RGBA, converted from the stored BGRA
	ID              uint32
	Bounds          dvec3.Box
	Flags           uint16

	Textures    []string
	Materials   []Material
	GroupNames  map[uint32]string
	GroupInfo   []GroupInfo
	DoodadNames map[uint32]string
	DoodadSets  []DoodadSet
	Doodads     []Doodad

	textureIndex map[uint32]int
}

// TextureIndex maps a material's byte offset into the texture table to an
// index into Textures. Fields that don't land on a name are tried as a
// direct index; some files store one instead of an offset. Returns -1 when
// neither reading resolves.
func (r *Root) TextureIndex(off uint32) int {
	if i, ok := r.textureIndex[off]; ok {
		return i
	}
	if int(off) < len(r.Textures) {
		return int(off)
	}
	return -1
}

// TextureName resolves a material texture offset to its name, or "" when
// there is none.
func (r *Root) TextureName(off uint32) string {
	i := r.TextureIndex(off)
	if i < 0 {
		return ""
	}
	return r.Textures[i]
}

// Batch is a draw range: IndexCount consecutive entries of the group's
// index array starting at StartIndex, drawn with material MaterialID.
type Batch struct {
	StartIndex  uint32
	IndexCount  uint16
	StartVertex uint16
	LastVertex  uint16
	Flags       uint8
	MaterialID  uint8
}

// Group is one decoded group file: flat geometry arrays (no indirection,
// unlike skeletal-model skins) plus the draw batches.
type Group struct {
	Flags           uint32
	Bounds          dvec3.Box
	NameOffset      uint32
	PortalStart     uint16
	PortalCount     uint16
	TransBatchCount uint16
	IntBatchCount   uint16
	ExtBatchCount   uint16
	FogIndices      [4]uint32
	LiquidType      uint32

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint16
	Colors    [][4]uint8 // RGBA, converted from the stored BGRA
	Batches   []Batch
}
