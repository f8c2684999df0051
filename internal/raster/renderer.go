// Package raster renders decoded models to images with a software
// z-buffered rasterizer. It exists for snapshot generation: no GPU, no
// window, deterministic output.
package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/m2"
	"github.com/freadblangks/WoWee/internal/texture"
	"github.com/freadblangks/WoWee/internal/wmo"
)

// RenderModel renders one skeletal-model pose to an NRGBA image.
// positions is the posed vertex buffer, normally a skinner's output;
// pass nil to render the rest pose. Opaque and alpha-tested batches draw
// with the z-buffer first, additive-blend batches composite on top.
func RenderModel(
	m *m2.Model,
	sk *m2.Skin,
	positions []mgl32.Vec3,
	texResolver texture.Resolver,
	size int,
	supersample int,
) *image.NRGBA {
	if positions == nil {
		positions = restPositions(m)
	}
	renderSize := size * supersample
	if len(positions) == 0 || sk == nil || len(sk.Indices) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	margin := 16 * supersample
	v := fitView(positions, renderSize, margin)
	px, py, pz := projectAll(positions, v)

	uvs := make([]mgl32.Vec2, len(m.Vertices))
	for i := range m.Vertices {
		uvs[i] = m.Vertices[i].UV
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	batches := sk.Batches
	if len(batches) == 0 {
		// No batch table: draw the whole index range untextured.
		drawIndexRange(fb, px, py, pz, uvs, sk.Indices, 0, len(sk.Indices), nil, 160, 160, 170, 255, 8, false, &lc)
	}

	// Additive materials draw after everything else has settled depth.
	var additive []m2.Batch
	for _, b := range batches {
		if blendAdditive(materialBlend(m, b)) {
			additive = append(additive, b)
			continue
		}
		drawModelBatch(fb, m, sk, b, px, py, pz, uvs, texResolver, &lc)
	}
	for _, b := range additive {
		drawModelBatch(fb, m, sk, b, px, py, pz, uvs, texResolver, &lc)
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.Color)
	return img
}

// RenderWMO renders root-object groups into one frame. The camera fits
// the union of all group geometry, so partial group sets still frame
// correctly.
func RenderWMO(
	root *wmo.Root,
	groups []*wmo.Group,
	texResolver texture.Resolver,
	size int,
	supersample int,
) *image.NRGBA {
	renderSize := size * supersample
	var all []mgl32.Vec3
	for _, g := range groups {
		all = append(all, g.Positions...)
	}
	if len(all) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	margin := 16 * supersample
	v := fitView(all, renderSize, margin)

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for _, g := range groups {
		if len(g.Positions) == 0 || len(g.Indices) == 0 {
			continue
		}
		px, py, pz := projectAll(g.Positions, v)
		for _, b := range g.Batches {
			drawGroupBatch(fb, root, g, b, px, py, pz, texResolver, &lc)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.Color)
	return img
}

func drawModelBatch(
	fb *FrameBuffer,
	m *m2.Model,
	sk *m2.Skin,
	b m2.Batch,
	px, py, pz []float64,
	uvs []mgl32.Vec2,
	texResolver texture.Resolver,
	lc *LightConfig,
) {
	if int(b.Submesh) >= len(sk.Submeshes) {
		return
	}
	sm := sk.Submeshes[b.Submesh]
	start, count := int(sm.IndexStart), int(sm.IndexCount)

	var tex *image.NRGBA
	if texResolver != nil {
		if ti := m.BatchTexture(b); ti >= 0 && m.Textures[ti].Filename != "" {
			tex = texResolver.Resolve(m.Textures[ti].Filename)
		}
	}

	defR, defG, defB, defA := defaultColor(tex)
	blend := materialBlend(m, b)
	alphaCut := uint8(8)
	if blend == 1 {
		alphaCut = 128
	}
	drawIndexRange(fb, px, py, pz, uvs, sk.Indices, start, count, tex, defR, defG, defB, defA, alphaCut, blendAdditive(blend), lc)
}

func drawGroupBatch(
	fb *FrameBuffer,
	root *wmo.Root,
	g *wmo.Group,
	b wmo.Batch,
	px, py, pz []float64,
	texResolver texture.Resolver,
	lc *LightConfig,
) {
	var mat wmo.Material
	if int(b.MaterialID) < len(root.Materials) {
		mat = root.Materials[b.MaterialID]
	}

	var tex *image.NRGBA
	if texResolver != nil {
		if name := root.TextureName(mat.Texture1); name != "" {
			tex = texResolver.Resolve(name)
		}
	}

	defR, defG, defB, defA := defaultColor(tex)
	alphaCut := uint8(8)
	if mat.BlendMode == 1 {
		alphaCut = 128
	}
	drawIndexRange(fb, px, py, pz, g.UVs, g.Indices, int(b.StartIndex), int(b.IndexCount), tex, defR, defG, defB, defA, alphaCut, false, lc)
}

// drawIndexRange walks count indices from start three at a time, dropping
// the trailing partial triangle of a truncated range.
func drawIndexRange(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs []mgl32.Vec2,
	indices []uint16,
	start, count int,
	tex *image.NRGBA,
	defR, defG, defB, defA uint8,
	alphaCut uint8,
	additive bool,
	lc *LightConfig,
) {
	end := start + count
	if end > len(indices) {
		end = len(indices)
	}
	for t := start; t+2 < end; t += 3 {
		idx := [3]int{int(indices[t]), int(indices[t+1]), int(indices[t+2])}
		if additive {
			RasterizeTriangleAdditive(fb, px, py, pz, uvs, idx, tex, defR, defG, defB, defA, lc)
		} else {
			RasterizeTriangle(fb, px, py, pz, uvs, idx, tex, defR, defG, defB, defA, alphaCut, lc)
		}
	}
}

func restPositions(m *m2.Model) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(m.Vertices))
	for i := range m.Vertices {
		out[i] = m.Vertices[i].Position
	}
	return out
}

func materialBlend(m *m2.Model, b m2.Batch) uint16 {
	if int(b.Material) < len(m.Materials) {
		return m.Materials[b.Material].BlendMode
	}
	return 0
}

// Blend modes 3 and 4 add into the frame instead of replacing it.
func blendAdditive(blend uint16) bool {
	return blend == 3 || blend == 4
}

// defaultColor is the fill for untextured draws: the texture's average
// when one exists, otherwise a neutral gray.
func defaultColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	if tex == nil {
		return 160, 160, 170, 255
	}
	return averageColor(tex)
}

func averageColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 160, 160, 170, 255
	}

	var sumR, sumG, sumB float64
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255
}
