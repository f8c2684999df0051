package m2

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func buildSkinFile(withMagic bool) []byte {
	off := 0
	if withMagic {
		off = 4
	}
	f := newFileBuf(off + 48)
	if withMagic {
		f.putStr(0, skinMagic)
	}

	lb := f.pair(off+0, 3, 2)
	f.putU16s(lb, 2, 1, 99) // 99 points past the vertex pool
	tb := f.pair(off+8, 3, 2)
	f.putU16s(tb, 0, 1, 2)

	sb := f.pair(off+24, 1, 48)
	f.putU16(sb, 7) // id
	f.putU16(sb+4, 0)
	f.putU16(sb+6, 3)
	f.putU16(sb+8, 0)
	f.putU16(sb+10, 3)
	f.putF32s(sb+20, 1, 2, 3)

	bb := f.pair(off+32, 1, 24)
	f.putU8(bb, 1)      // flags
	f.putU16(bb+2, 2)   // shader
	f.putU16(bb+4, 0)   // submesh
	f.putU16(bb+10, 3)  // material
	f.putU16(bb+14, 1)  // texture count
	f.putU16(bb+16, 1)  // texture combo
	return f.b
}

func TestDecodeSkin(t *testing.T) {
	model := &Model{Version: 264, Vertices: make([]Vertex, 3)}

	for _, tt := range []struct {
		name      string
		withMagic bool
	}{
		{"WithMagic", true},
		{"Bare", false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			sk := DecodeSkin(buildSkinFile(tt.withMagic), model)

			if len(sk.VertexLookup) != 3 || len(sk.Triangles) != 3 {
				t.Fatalf("expected 3 lookup entries and 3 triangle indices, got %d and %d",
					len(sk.VertexLookup), len(sk.Triangles))
			}
			// Lookup entry 99 is out of range and substitutes vertex 0.
			want := []uint16{2, 1, 0}
			for i, w := range want {
				if sk.Indices[i] != w {
					t.Errorf("index %d: expected %d, got %d", i, w, sk.Indices[i])
				}
			}

			if len(sk.Submeshes) != 1 {
				t.Fatalf("expected 1 submesh, got %d", len(sk.Submeshes))
			}
			sm := sk.Submeshes[0]
			if sm.ID != 7 || sm.VertexCount != 3 || sm.IndexCount != 3 {
				t.Errorf("submesh fields wrong: %+v", sm)
			}
			if sm.Center != (mgl32.Vec3{1, 2, 3}) {
				t.Errorf("submesh center wrong: %v", sm.Center)
			}

			if len(sk.Batches) != 1 {
				t.Fatalf("expected 1 batch, got %d", len(sk.Batches))
			}
			b := sk.Batches[0]
			if b.Flags != 1 || b.Shader != 2 || b.Submesh != 0 || b.Material != 3 ||
				b.TextureCount != 1 || b.TextureCombo != 1 {
				t.Errorf("batch fields wrong: %+v", b)
			}
		})
	}
}

func TestDecodeSkinGarbage(t *testing.T) {
	model := &Model{Version: 264}
	data := make([]byte, 64)
	for i := range data {
		data[i] = 0xee
	}
	sk := DecodeSkin(data, model)
	if len(sk.Indices) != 0 || len(sk.Submeshes) != 0 || len(sk.Batches) != 0 {
		t.Errorf("garbage skin should decode empty, got %+v", sk)
	}
}

func TestResolveIndices(t *testing.T) {
	got := resolveIndices([]uint16{2, 1, 99}, []uint16{0, 1, 2, 5}, 3)
	want := []uint16{2, 1, 0, 0} // 99 fails the pool bound, 5 fails the lookup bound
	for i, w := range want {
		if got[i] != w {
			t.Errorf("index %d: expected %d, got %d", i, w, got[i])
		}
	}
	if resolveIndices(nil, nil, 0) != nil {
		t.Error("expected nil for empty triangles")
	}
}

func TestBatchTexture(t *testing.T) {
	m := &Model{
		TextureLookup: []uint16{1, 5},
		Textures:      make([]Texture, 2),
	}
	if got := m.BatchTexture(Batch{TextureCombo: 0}); got != 1 {
		t.Errorf("combo 0: expected texture 1, got %d", got)
	}
	if got := m.BatchTexture(Batch{TextureCombo: 1}); got != -1 {
		t.Errorf("lookup value past texture table: expected -1, got %d", got)
	}
	if got := m.BatchTexture(Batch{TextureCombo: 9}); got != -1 {
		t.Errorf("combo past lookup: expected -1, got %d", got)
	}
}

func buildLegacyModelWithView() []byte {
	f := newM2Fixture(256)
	lay := legacyLayout

	f.pair(lay.vertices, 2, 48)

	viewBase := f.grow(embeddedViewSize)
	f.putU32(lay.views, 1)
	f.putU32(lay.views+4, uint32(viewBase))

	lb := f.pair(viewBase+0, 2, 2)
	f.putU16s(lb, 1, 0)
	tb := f.pair(viewBase+8, 3, 2)
	f.putU16s(tb, 0, 1, 0)
	sb := f.pair(viewBase+24, 1, lay.submeshSize)
	f.putU16(sb+6, 2)
	f.putU16(sb+10, 3)
	f.pair(viewBase+32, 1, 24)
	return f.b
}

func TestEmbeddedSkin(t *testing.T) {
	data := buildLegacyModelWithView()
	m, err := DecodeModel(data)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Legacy() || m.NumViews != 1 {
		t.Fatalf("fixture should be legacy with 1 view, got version %d views %d", m.Version, m.NumViews)
	}

	sk, err := EmbeddedSkin(data, m, 0)
	if err != nil {
		t.Fatalf("EmbeddedSkin: %v", err)
	}
	want := []uint16{1, 0, 1}
	for i, w := range want {
		if sk.Indices[i] != w {
			t.Errorf("index %d: expected %d, got %d", i, w, sk.Indices[i])
		}
	}
	if len(sk.Submeshes) != 1 || len(sk.Batches) != 1 {
		t.Errorf("expected 1 submesh and 1 batch, got %d and %d", len(sk.Submeshes), len(sk.Batches))
	}

	if _, err := EmbeddedSkin(data, m, 1); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out-of-range error for view 1, got %v", err)
	}
}

func TestEmbeddedSkinRejectsCurrent(t *testing.T) {
	data := buildCurrentModel()
	m, err := DecodeModel(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EmbeddedSkin(data, m, 0); err == nil {
		t.Error("expected error for current-layout model")
	}
}

func TestEmbeddedSkinTruncatedTable(t *testing.T) {
	f := newM2Fixture(256)
	f.putU32(legacyLayout.views, 1) // one view declared, no table
	m, err := DecodeModel(f.b)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EmbeddedSkin(f.b, m, 0); err == nil || !strings.Contains(err.Error(), "truncated") {
		t.Errorf("expected truncated-table error, got %v", err)
	}
}
