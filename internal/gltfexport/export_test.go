package gltfexport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/freadblangks/WoWee/internal/m2"
	"github.com/freadblangks/WoWee/internal/wmo"
)

func TestYUp(t *testing.T) {
	got := yUp(mgl32.Vec3{1, 2, 3})
	if got != [3]float32{1, 3, -2} {
		t.Errorf("Expected (1,3,-2), got %v", got)
	}
}

func TestIndexRange(t *testing.T) {
	indices := []uint16{0, 1, 2, 3, 4, 5, 6, 7}
	tests := []struct {
		name         string
		start, count int
		want         []uint16
	}{
		{"full triangle", 0, 3, []uint16{0, 1, 2}},
		{"two triangles", 0, 6, []uint16{0, 1, 2, 3, 4, 5}},
		{"partial dropped", 0, 5, []uint16{0, 1, 2}},
		{"clamped to buffer", 3, 99, []uint16{3, 4, 5}},
		{"too short", 0, 2, nil},
		{"negative start", -1, 3, nil},
		{"start past end", 8, 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := indexRange(indices, tt.start, tt.count)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestTextureStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Creature\\Wolf\\WolfSkin.blp", "WolfSkin"},
		{"plain.png", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := textureStem(tt.in); got != tt.want {
			t.Errorf("textureStem(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestMaterialSetDedup(t *testing.T) {
	doc := newDocument()
	ms := newMaterialSet(doc, nil)

	a := ms.get("Creature\\Wolf\\Skin.blp", 0, false)
	b := ms.get("creature\\wolf\\SKIN.BLP", 0, false)
	if a != b {
		t.Errorf("Expected case-insensitive dedup, got %d and %d", a, b)
	}
	c := ms.get("Creature\\Wolf\\Skin.blp", 1, false)
	if c == a {
		t.Error("Expected distinct material for a different blend mode")
	}
	d := ms.get("Creature\\Wolf\\Skin.blp", 0, true)
	if d == a {
		t.Error("Expected distinct material for double-sided")
	}
	if len(doc.Materials) != 3 {
		t.Fatalf("Expected 3 materials, got %d", len(doc.Materials))
	}

	if doc.Materials[c].AlphaMode != gltf.AlphaMask {
		t.Errorf("Expected blend 1 to mask, got %v", doc.Materials[c].AlphaMode)
	}
	if m := ms.get("x.blp", 4, false); doc.Materials[m].AlphaMode != gltf.AlphaBlend {
		t.Error("Expected blend 4 to alpha-blend")
	}
	if !doc.Materials[d].DoubleSided {
		t.Error("Expected double-sided flag carried through")
	}
	// No resolver: materials carry no texture and the document embeds none.
	if doc.Materials[a].PBRMetallicRoughness.BaseColorTexture != nil {
		t.Error("Expected no base color texture without a resolver")
	}
	if len(doc.Textures) != 0 {
		t.Errorf("Expected no embedded textures, got %d", len(doc.Textures))
	}
}

func exportModel() (*m2.Model, *m2.Skin) {
	m := &m2.Model{
		Name: "Wolf",
		Vertices: []m2.Vertex{
			{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{0, 1}},
		},
		Textures:      []m2.Texture{{Type: 0, Filename: "Creature\\Wolf\\Skin.blp"}},
		TextureLookup: []uint16{0},
		Materials:     []m2.Material{{Flags: 0x04, BlendMode: 1}},
	}
	sk := &m2.Skin{
		Indices:   []uint16{0, 1, 2},
		Submeshes: []m2.Submesh{{IndexStart: 0, IndexCount: 3}},
		Batches: []m2.Batch{{
			Submesh:      0,
			Material:     0,
			TextureCount: 1,
			TextureCombo: 0,
		}},
	}
	return m, sk
}

func TestModelDocument(t *testing.T) {
	m, sk := exportModel()
	doc, err := ModelDocument(m, sk, nil, nil, nil)
	if err != nil {
		t.Fatalf("ModelDocument: %v", err)
	}

	if len(doc.Meshes) != 1 || doc.Meshes[0].Name != "Wolf" {
		t.Fatalf("Expected one mesh named Wolf, got %+v", doc.Meshes)
	}
	prims := doc.Meshes[0].Primitives
	if len(prims) != 1 {
		t.Fatalf("Expected 1 primitive, got %d", len(prims))
	}

	posAcc := doc.Accessors[prims[0].Attributes[gltf.POSITION]]
	if posAcc.Count != 3 {
		t.Errorf("Expected 3 positions, got %d", posAcc.Count)
	}
	if prims[0].Indices == nil || doc.Accessors[*prims[0].Indices].Count != 3 {
		t.Error("Expected a 3-entry index accessor")
	}

	if len(doc.Materials) != 1 {
		t.Fatalf("Expected 1 material, got %d", len(doc.Materials))
	}
	mat := doc.Materials[0]
	if !mat.DoubleSided || mat.AlphaMode != gltf.AlphaMask {
		t.Errorf("Expected double-sided masked material, got %+v", mat)
	}

	if len(doc.Scenes[0].Nodes) != 1 {
		t.Errorf("Expected mesh node in scene, got %v", doc.Scenes[0].Nodes)
	}
}

func TestModelDocumentPosed(t *testing.T) {
	m, sk := exportModel()
	posed := []mgl32.Vec3{{5, 0, 0}, {5, 0, 0}, {5, 0, 0}}
	doc, err := ModelDocument(m, sk, posed, nil, nil)
	if err != nil {
		t.Fatalf("ModelDocument: %v", err)
	}
	posAcc := doc.Accessors[doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION]]
	if len(posAcc.Max) == 0 || posAcc.Max[0] != 5 {
		t.Errorf("Expected posed positions in accessor bounds, got max %v", posAcc.Max)
	}
}

func TestModelDocumentEmpty(t *testing.T) {
	doc, err := ModelDocument(&m2.Model{}, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("ModelDocument: %v", err)
	}
	if len(doc.Meshes) != 0 {
		t.Errorf("Expected no meshes, got %d", len(doc.Meshes))
	}

	// A batch pointing at a missing submesh contributes nothing.
	m, sk := exportModel()
	sk.Batches[0].Submesh = 9
	doc, _ = ModelDocument(m, sk, nil, nil, nil)
	if len(doc.Meshes) != 0 {
		t.Errorf("Expected no meshes for dangling batch, got %d", len(doc.Meshes))
	}
}

func TestWMODocument(t *testing.T) {
	root := &wmo.Root{
		GroupInfo: []wmo.GroupInfo{{Name: "lobby"}},
		Materials: []wmo.Material{{BlendMode: 0}},
	}
	groups := []*wmo.Group{
		{
			Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			Indices:   []uint16{0, 1, 2},
			Batches:   []wmo.Batch{{IndexCount: 3}},
		},
		{}, // empty groups are skipped
	}

	doc, err := WMODocument(root, groups, nil)
	if err != nil {
		t.Fatalf("WMODocument: %v", err)
	}
	if len(doc.Meshes) != 1 || doc.Meshes[0].Name != "lobby" {
		t.Fatalf("Expected one mesh named lobby, got %+v", doc.Meshes)
	}
	if len(doc.Meshes[0].Primitives) != 1 {
		t.Errorf("Expected 1 primitive, got %d", len(doc.Meshes[0].Primitives))
	}
}

func TestWMODocumentFallbackName(t *testing.T) {
	groups := []*wmo.Group{{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint16{0, 1, 2},
		Batches:   []wmo.Batch{{IndexCount: 3}},
	}}
	doc, err := WMODocument(&wmo.Root{}, groups, nil)
	if err != nil {
		t.Fatalf("WMODocument: %v", err)
	}
	if doc.Meshes[0].Name != "group_000" {
		t.Errorf("Expected fallback name group_000, got %q", doc.Meshes[0].Name)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	m, sk := exportModel()
	doc, err := ModelDocument(m, sk, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"out.glb", "out.gltf"} {
		path := filepath.Join(dir, name)
		if err := Save(doc, path); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("Expected non-empty %s", name)
		}
	}
}
