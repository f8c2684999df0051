package wmo

import (
	"fmt"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/binread"
)

// DecodeRoot decodes an object-level file. Unknown chunks are skipped and
// chunk order is not assumed; the only fatal condition is a buffer too
// short to hold a single chunk header.
func DecodeRoot(data []byte) (*Root, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("wmo: file too small (%d bytes)", len(data))
	}
	root := &Root{
		GroupNames:   map[uint32]string{},
		DoodadNames:  map[uint32]string{},
		textureIndex: map[uint32]int{},
	}
	scanChunks(data, 0, len(data), func(tag string, payload []byte) {
		r := binread.New(payload)
		switch tag {
		case "MVER":
			root.Version = r.U32(0)
		case "MOHD":
			decodeHeader(root, r)
		case "MOTX":
			root.Textures, root.textureIndex = stringTable(payload)
		case "MOMT":
			decodeMaterials(root, r)
		case "MOGN":
			_, root.GroupNames = stringTableMap(payload)
		case "MOGI":
			decodeGroupInfo(root, r)
		case "MODN":
			_, root.DoodadNames = stringTableMap(payload)
		case "MODS":
			decodeDoodadSets(root, r)
		case "MODD":
			decodeDoodads(root, r)
		}
	})
	for i := range root.GroupInfo {
		gi := &root.GroupInfo[i]
		if gi.NameOffset >= 0 {
			gi.Name = root.GroupNames[uint32(gi.NameOffset)]
		}
	}
	return root, nil
}

func decodeHeader(root *Root, r *binread.Reader) {
	root.TextureCount = r.U32(0)
	root.GroupCount = r.U32(4)
	root.PortalCount = r.U32(8)
	root.LightCount = r.U32(12)
	root.DoodadNameCount = r.U32(16)
	root.DoodadDefCount = r.U32(20)
	root.DoodadSetCount = r.U32(24)
	root.AmbientColor = bgra(r.U32(28))
	root.ID = r.U32(32)
	root.Bounds = dvec3.Box{
		Min: dvec3.T{float64(r.F32(36)), float64(r.F32(40)), float64(r.F32(44))},
		Max: dvec3.T{float64(r.F32(48)), float64(r.F32(52)), float64(r.F32(56))},
	}
	root.Flags = r.U16(60)
}

// stringTable walks a block of NUL-terminated names, returning them in
// table order along with a byte-offset index. A run of NULs is padding
// between names, not an entry.
func stringTable(payload []byte) ([]string, map[uint32]int) {
	var names []string
	index := map[uint32]int{}
	off := 0
	for off < len(payload) {
		if payload[off] == 0 {
			off++
			continue
		}
		end := off
		for end < len(payload) && payload[end] != 0 {
			end++
		}
		index[uint32(off)] = len(names)
		names = append(names, string(payload[off:end]))
		off = end + 1
	}
	return names, index
}

// stringTableMap is stringTable with the offsets mapped straight to names,
// for tables consumed by offset rather than index.
func stringTableMap(payload []byte) ([]string, map[uint32]string) {
	names, index := stringTable(payload)
	byOffset := make(map[uint32]string, len(index))
	for off, i := range index {
		byOffset[off] = names[i]
	}
	return names, byOffset
}

func decodeMaterials(root *Root, r *binread.Reader) {
	n := r.Len() / 64
	root.Materials = make([]Material, 0, n)
	for i := 0; i < n; i++ {
		off := i * 64
		root.Materials = append(root.Materials, Material{
			Flags:     r.U32(off),
			Shader:    r.U32(off + 4),
			BlendMode: r.U32(off + 8),
			Texture1:  r.U32(off + 12),
			Color1:    r.U32(off + 16),
			Texture2:  r.U32(off + 24),
			Color2:    r.U32(off + 28),
			Texture3:  r.U32(off + 36),
			Color3:    r.U32(off + 40),
		})
	}
}

func decodeGroupInfo(root *Root, r *binread.Reader) {
	n := r.Len() / 32
	root.GroupInfo = make([]GroupInfo, 0, n)
	for i := 0; i < n; i++ {
		off := i * 32
		root.GroupInfo = append(root.GroupInfo, GroupInfo{
			Flags: r.U32(off),
			Bounds: dvec3.Box{
				Min: dvec3.T{float64(r.F32(off + 4)), float64(r.F32(off + 8)), float64(r.F32(off + 12))},
				Max: dvec3.T{float64(r.F32(off + 16)), float64(r.F32(off + 20)), float64(r.F32(off + 24))},
			},
			NameOffset: r.I32(off + 28),
		})
	}
}

func decodeDoodadSets(root *Root, r *binread.Reader) {
	n := r.Len() / 32
	root.DoodadSets = make([]DoodadSet, 0, n)
	for i := 0; i < n; i++ {
		off := i * 32
		root.DoodadSets = append(root.DoodadSets, DoodadSet{
			Name:  r.String(off, 20),
			Start: r.U32(off + 20),
			Count: r.U32(off + 24),
		})
	}
}

func decodeDoodads(root *Root, r *binread.Reader) {
	n := r.Len() / 40
	root.Doodads = make([]Doodad, 0, n)
	for i := 0; i < n; i++ {
		off := i * 40
		nameAndFlags := r.U32(off)
		root.Doodads = append(root.Doodads, Doodad{
			NameOffset: nameAndFlags & 0x00FFFFFF,
			Flags:      uint8(nameAndFlags >> 24),
			Position:   mgl32.Vec3(r.F32x3(off + 4)),
			Rotation: mgl32.Quat{
				W: r.F32(off + 28),
				V: mgl32.Vec3{r.F32(off + 16), r.F32(off + 20), r.F32(off + 24)},
			},
			Scale: r.F32(off + 32),
			Color: bgra(r.U32(off + 36)),
		})
	}
}

// bgra unpacks a stored BGRA color into RGBA byte order.
func bgra(v uint32) [4]uint8 {
	return [4]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v), uint8(v >> 24)}
}
