package raster

import (
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/m2"
	"github.com/freadblangks/WoWee/internal/wmo"
)

func opaquePixels(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func TestRenderModel(t *testing.T) {
	m := &m2.Model{
		Vertices: []m2.Vertex{
			{Position: mgl32.Vec3{0, 0, 0}},
			{Position: mgl32.Vec3{2, 0, 0}},
			{Position: mgl32.Vec3{1, 0, 2}},
		},
	}
	sk := &m2.Skin{Indices: []uint16{0, 1, 2}}

	img := RenderModel(m, sk, nil, nil, 64, 1)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("Expected 64x64 image, got %v", img.Bounds())
	}
	if n := opaquePixels(img); n < 10 {
		t.Errorf("Expected a rasterized triangle, got %d opaque pixels", n)
	}
}

func TestRenderModelNoGeometry(t *testing.T) {
	img := RenderModel(&m2.Model{}, nil, nil, nil, 32, 2)
	if img.Bounds().Dx() != 64 {
		t.Fatalf("Expected supersampled 64px frame, got %v", img.Bounds())
	}
	if n := opaquePixels(img); n != 0 {
		t.Errorf("Expected blank frame, got %d opaque pixels", n)
	}
}

func TestRenderWMO(t *testing.T) {
	root := &wmo.Root{}
	g := &wmo.Group{
		Positions: []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {1, 0, 2}},
		Indices:   []uint16{0, 1, 2},
		Batches:   []wmo.Batch{{IndexCount: 3}},
	}

	img := RenderWMO(root, []*wmo.Group{g}, nil, 64, 1)
	if n := opaquePixels(img); n < 10 {
		t.Errorf("Expected a rasterized group, got %d opaque pixels", n)
	}
}

func TestRenderWMOEmpty(t *testing.T) {
	img := RenderWMO(&wmo.Root{}, nil, nil, 32, 1)
	if img.Bounds().Dx() != 32 {
		t.Fatalf("Expected 32px frame, got %v", img.Bounds())
	}
	if n := opaquePixels(img); n != 0 {
		t.Errorf("Expected blank frame, got %d opaque pixels", n)
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 255, 255, 255, 255
	}
	out := Downsample(src, 32)
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 32 {
		t.Fatalf("Expected 32x32, got %v", out.Bounds())
	}
	c := out.PixOffset(16, 16)
	if out.Pix[c] < 250 || out.Pix[c+3] != 255 {
		t.Errorf("Expected solid white center, got %v", out.Pix[c:c+4])
	}
}

func TestDownsamplePassthrough(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	if out := Downsample(src, 32); out != src {
		t.Error("Expected small images returned unscaled")
	}
}

func TestDefaultColor(t *testing.T) {
	r, g, b, a := defaultColor(nil)
	if r != 160 || g != 160 || b != 170 || a != 255 {
		t.Errorf("Expected neutral gray fallback, got (%d,%d,%d,%d)", r, g, b, a)
	}

	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.Pix[0], tex.Pix[3] = 100, 255
	tex.Pix[4], tex.Pix[7] = 200, 255
	r, g, b, a = defaultColor(tex)
	if r != 150 || g != 0 || b != 0 || a != 255 {
		t.Errorf("Expected texture average (150,0,0,255), got (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestBlendAdditive(t *testing.T) {
	for blend, want := range map[uint16]bool{0: false, 1: false, 2: false, 3: true, 4: true, 5: false} {
		if got := blendAdditive(blend); got != want {
			t.Errorf("blendAdditive(%d): expected %v, got %v", blend, want, got)
		}
	}
}

func TestDrawIndexRangeTruncated(t *testing.T) {
	fb := NewFrameBuffer(16, 16)
	lc := DefaultLightConfig()
	px := []float64{2, 14, 8}
	py := []float64{2, 2, 14}
	pz := []float64{5, 5, 5}

	// Eight indices hold two whole triangles plus a dangling pair; the
	// partial triangle must be dropped, not read past the range.
	indices := []uint16{0, 1, 2, 0, 1, 2, 0, 1}
	drawIndexRange(fb, px, py, pz, nil, indices, 0, 8, nil, 200, 0, 0, 255, 8, false, &lc)

	center := 8*16 + 8
	if fb.ZBuf[center] != 5 {
		t.Errorf("Expected whole triangles drawn, got depth %g", fb.ZBuf[center])
	}

	// A start past the buffer draws nothing.
	fb2 := NewFrameBuffer(16, 16)
	drawIndexRange(fb2, px, py, pz, nil, indices, 99, 3, nil, 200, 0, 0, 255, 8, false, &lc)
	if !math.IsInf(fb2.ZBuf[center], -1) {
		t.Error("Expected out-of-range start to draw nothing")
	}
}
