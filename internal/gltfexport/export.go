// Package gltfexport converts decoded models into glTF 2.0 assets with
// embedded PNG textures. Geometry is baked from Z-up to glTF's Y-up at
// write time, so every node keeps an identity transform.
package gltfexport

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/freadblangks/WoWee/internal/m2"
	"github.com/freadblangks/WoWee/internal/texture"
	"github.com/freadblangks/WoWee/internal/wmo"
)

// ModelDocument builds a document from one skeletal-model pose.
// positions and normals override the rest pose when non-nil (pass a
// skinner's output to export a posed frame). Each skin batch becomes a
// primitive; batches sharing texture and material collapse into one
// glTF material.
func ModelDocument(m *m2.Model, sk *m2.Skin, positions, normals []mgl32.Vec3, res texture.Resolver) (*gltf.Document, error) {
	doc := newDocument()
	if len(m.Vertices) == 0 || sk == nil || len(sk.Indices) == 0 {
		return doc, nil
	}

	pos := make([][3]float32, len(m.Vertices))
	norm := make([][3]float32, len(m.Vertices))
	uv := make([][2]float32, len(m.Vertices))
	for i := range m.Vertices {
		v := &m.Vertices[i]
		p, n := v.Position, v.Normal
		if i < len(positions) {
			p = positions[i]
		}
		if i < len(normals) {
			n = normals[i]
		}
		pos[i] = yUp(p)
		norm[i] = yUp(n)
		uv[i] = [2]float32{v.UV[0], v.UV[1]}
	}

	attrs := map[string]int{
		gltf.POSITION:   modeler.WritePosition(doc, pos),
		gltf.NORMAL:     modeler.WriteNormal(doc, norm),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uv),
	}

	mats := newMaterialSet(doc, res)
	mesh := &gltf.Mesh{Name: meshName(m.Name, "model")}
	for _, b := range sk.Batches {
		if int(b.Submesh) >= len(sk.Submeshes) {
			continue
		}
		sm := sk.Submeshes[b.Submesh]
		indices := indexRange(sk.Indices, int(sm.IndexStart), int(sm.IndexCount))
		if len(indices) == 0 {
			continue
		}

		texName := ""
		if ti := m.BatchTexture(b); ti >= 0 {
			texName = m.Textures[ti].Filename
		}
		var flags, blend uint16
		if int(b.Material) < len(m.Materials) {
			flags = m.Materials[b.Material].Flags
			blend = m.Materials[b.Material].BlendMode
		}

		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Material:   gltf.Index(mats.get(texName, blend, flags&0x04 != 0)),
		})
	}
	if len(mesh.Primitives) == 0 {
		return doc, nil
	}
	addMeshNode(doc, mesh)
	return doc, nil
}

// WMODocument builds a document from a world-object root and its
// groups. Each group becomes its own named mesh and node.
func WMODocument(root *wmo.Root, groups []*wmo.Group, res texture.Resolver) (*gltf.Document, error) {
	doc := newDocument()
	mats := newMaterialSet(doc, res)

	for gi, g := range groups {
		if len(g.Positions) == 0 || len(g.Indices) == 0 {
			continue
		}

		pos := make([][3]float32, len(g.Positions))
		norm := make([][3]float32, len(g.Positions))
		uv := make([][2]float32, len(g.Positions))
		for i, p := range g.Positions {
			pos[i] = yUp(p)
			if i < len(g.Normals) {
				norm[i] = yUp(g.Normals[i])
			} else {
				norm[i] = [3]float32{0, 1, 0}
			}
			if i < len(g.UVs) {
				uv[i] = [2]float32{g.UVs[i][0], g.UVs[i][1]}
			}
		}

		attrs := map[string]int{
			gltf.POSITION:   modeler.WritePosition(doc, pos),
			gltf.NORMAL:     modeler.WriteNormal(doc, norm),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uv),
		}

		name := fmt.Sprintf("group_%03d", gi)
		if gi < len(root.GroupInfo) && root.GroupInfo[gi].Name != "" {
			name = root.GroupInfo[gi].Name
		}

		mesh := &gltf.Mesh{Name: name}
		for _, b := range g.Batches {
			indices := indexRange(g.Indices, int(b.StartIndex), int(b.IndexCount))
			if len(indices) == 0 {
				continue
			}

			var mat wmo.Material
			if int(b.MaterialID) < len(root.Materials) {
				mat = root.Materials[b.MaterialID]
			}
			texName := root.TextureName(mat.Texture1)

			mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
				Attributes: attrs,
				Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
				Material:   gltf.Index(mats.get(texName, uint16(mat.BlendMode), mat.Flags&0x04 != 0)),
			})
		}
		if len(mesh.Primitives) > 0 {
			addMeshNode(doc, mesh)
		}
	}
	return doc, nil
}

// Save writes the document as binary .glb or JSON .gltf by extension.
func Save(doc *gltf.Document, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return gltf.SaveBinary(doc, path)
	}
	return gltf.Save(doc, path)
}

func newDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "WoWee"
	return doc
}

// yUp converts a Z-up point into glTF's Y-up, right-handed basis.
func yUp(v mgl32.Vec3) [3]float32 {
	return [3]float32{v[0], v[2], -v[1]}
}

func meshName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// indexRange copies count indices from start, clamping to the buffer and
// dropping a trailing partial triangle.
func indexRange(indices []uint16, start, count int) []uint16 {
	if start < 0 || start >= len(indices) {
		return nil
	}
	end := start + count
	if end > len(indices) {
		end = len(indices)
	}
	n := (end - start) / 3 * 3
	if n <= 0 {
		return nil
	}
	out := make([]uint16, n)
	copy(out, indices[start:start+n])
	return out
}

func addMeshNode(doc *gltf.Document, mesh *gltf.Mesh) {
	doc.Meshes = append(doc.Meshes, mesh)
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: mesh.Name,
		Mesh: gltf.Index(len(doc.Meshes) - 1),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
}
