package gltfexport

import (
	"bytes"
	"fmt"
	"image/png"
	"path"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/freadblangks/WoWee/internal/texture"
)

type matKey struct {
	tex    string
	blend  uint16
	double bool
}

// materialSet deduplicates glTF materials by texture and blend state and
// embeds each referenced texture once as PNG.
type materialSet struct {
	doc      *gltf.Document
	res      texture.Resolver
	byKey    map[matKey]int
	textures map[string]int // resolved reference → texture index, -1 for misses
	sampler  int
}

func newMaterialSet(doc *gltf.Document, res texture.Resolver) *materialSet {
	return &materialSet{
		doc:      doc,
		res:      res,
		byKey:    map[matKey]int{},
		textures: map[string]int{},
		sampler:  -1,
	}
}

// get returns the material index for a texture/blend combination,
// creating it on first use. Blend 1 maps to alpha masking at the
// traditional 0.5 cutoff, higher modes to alpha blending.
func (ms *materialSet) get(texName string, blend uint16, doubleSided bool) int {
	key := matKey{strings.ToLower(texName), blend, doubleSided}
	if i, ok := ms.byKey[key]; ok {
		return i
	}

	gm := &gltf.Material{
		Name:        materialName(texName, len(ms.doc.Materials)),
		DoubleSided: doubleSided,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
	}
	switch {
	case blend == 1:
		gm.AlphaMode = gltf.AlphaMask
		gm.AlphaCutoff = gltf.Float(0.5)
	case blend >= 2:
		gm.AlphaMode = gltf.AlphaBlend
	}
	if ti := ms.textureIndex(texName); ti >= 0 {
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: ti}
	}

	ms.doc.Materials = append(ms.doc.Materials, gm)
	idx := len(ms.doc.Materials) - 1
	ms.byKey[key] = idx
	return idx
}

// textureIndex embeds a texture once and returns its index, or -1 when
// the reference cannot be resolved or encoded.
func (ms *materialSet) textureIndex(texName string) int {
	if texName == "" || ms.res == nil {
		return -1
	}
	keyName := strings.ToLower(texName)
	if i, ok := ms.textures[keyName]; ok {
		return i
	}

	idx := -1
	defer func() { ms.textures[keyName] = idx }()

	img := ms.res.Resolve(texName)
	if img == nil {
		return -1
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return -1
	}
	imgIdx, err := modeler.WriteImage(ms.doc, textureStem(texName), "image/png", &buf)
	if err != nil {
		return -1
	}

	ms.doc.Textures = append(ms.doc.Textures, &gltf.Texture{
		Sampler: gltf.Index(ms.repeatSampler()),
		Source:  gltf.Index(imgIdx),
	})
	idx = len(ms.doc.Textures) - 1
	return idx
}

func (ms *materialSet) repeatSampler() int {
	if ms.sampler < 0 {
		ms.doc.Samplers = append(ms.doc.Samplers, &gltf.Sampler{
			WrapS: gltf.WrapRepeat,
			WrapT: gltf.WrapRepeat,
		})
		ms.sampler = len(ms.doc.Samplers) - 1
	}
	return ms.sampler
}

func materialName(texName string, n int) string {
	if s := textureStem(texName); s != "" {
		return s
	}
	return fmt.Sprintf("material_%d", n)
}

func textureStem(texName string) string {
	base := path.Base(strings.ReplaceAll(texName, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
