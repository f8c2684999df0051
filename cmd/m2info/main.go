package main

import (
	"fmt"
	"os"

	"github.com/freadblangks/WoWee/internal/assets"
	"github.com/freadblangks/WoWee/internal/m2"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <model.m2> [<model.m2> ...]\n", os.Args[0])
		os.Exit(1)
	}

	for i, path := range os.Args[1:] {
		if i > 0 {
			fmt.Println()
			fmt.Println("================================================================")
			fmt.Println()
		}
		inspectModel(path)
	}
}

func inspectModel(path string) {
	fmt.Printf("=== %s ===\n\n", path)

	// Prefer the full load (companion skin and .anim files resolved);
	// fall back to the bare model when companions are missing.
	model, skin, err := assets.LoadModel(path)
	if err != nil {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "ERROR reading %s: %v\n", path, rerr)
			return
		}
		model, rerr = m2.DecodeModel(data)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "ERROR parsing %s: %v\n", path, rerr)
			return
		}
		fmt.Printf("(no skin data: %v)\n\n", err)
	}

	layout := "current"
	if model.Legacy() {
		layout = "legacy"
	}
	fmt.Printf("Name:       %s\n", model.Name)
	fmt.Printf("Version:    %d (%s layout)\n", model.Version, layout)
	fmt.Printf("Vertices:   %d\n", len(model.Vertices))
	fmt.Printf("Bones:      %d (lookup %d)\n", len(model.Bones), len(model.BoneLookup))
	fmt.Printf("Sequences:  %d (global %d)\n", len(model.Sequences), len(model.GlobalSequences))
	fmt.Printf("Textures:   %d (lookup %d)\n", len(model.Textures), len(model.TextureLookup))
	fmt.Printf("Materials:  %d\n", len(model.Materials))
	fmt.Printf("UV anims:   %d\n", len(model.TextureTransforms))
	fmt.Printf("Opacity:    %d tracks (lookup %d)\n", len(model.TextureWeights), len(model.TransparencyLookup))
	fmt.Printf("Attach:     %d\n", len(model.Attachments))
	fmt.Printf("Collision:  %d tris, %d verts\n", len(model.Collision.Triangles)/3, len(model.Collision.Vertices))

	b := model.Bounds()
	fmt.Printf("Bounds:     min=(%.2f, %.2f, %.2f) max=(%.2f, %.2f, %.2f)\n",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	fmt.Println()

	if len(model.Sequences) > 0 {
		fmt.Println("--- Sequences ---")
		for si, s := range model.Sequences {
			ext := ""
			if model.SequenceExternal(si) {
				ext = "  [external]"
			}
			fmt.Printf("  Seq %3d: id=%-3d %-20s var=%d dur=%6dms%s\n",
				si, s.ID, m2.SequenceName(s.ID), s.Variation, s.Duration, ext)
		}
		fmt.Println()
	}

	if len(model.Bones) > 0 {
		fmt.Println("--- Bones ---")
		for bi := range model.Bones {
			bn := &model.Bones[bi]
			gs := ""
			if bn.Rotation.GlobalSeq >= 0 || bn.Translation.GlobalSeq >= 0 || bn.Scale.GlobalSeq >= 0 {
				gs = "  [global]"
			}
			fmt.Printf("  Bone %3d: parent=%-3d keys t=%-4d r=%-4d s=%-4d pivot=(%.2f, %.2f, %.2f)%s\n",
				bi, bn.Parent,
				bn.Translation.KeyCount(), bn.Rotation.KeyCount(), bn.Scale.KeyCount(),
				bn.Pivot[0], bn.Pivot[1], bn.Pivot[2], gs)
		}
		fmt.Println()
	}

	if len(model.Textures) > 0 {
		fmt.Println("--- Textures ---")
		for ti, t := range model.Textures {
			name := t.Filename
			if name == "" {
				name = "(resolved at runtime)"
			}
			fmt.Printf("  Tex %2d: type=%-2d flags=0x%02x %s\n", ti, t.Type, t.Flags, name)
		}
		fmt.Println()
	}

	if skin == nil {
		return
	}

	fmt.Println("--- Skin ---")
	fmt.Printf("  Vertex lookup: %d\n", len(skin.VertexLookup))
	fmt.Printf("  Indices:       %d (%d tris)\n", len(skin.Indices), len(skin.Indices)/3)
	fmt.Printf("  Submeshes:     %d\n", len(skin.Submeshes))
	fmt.Printf("  Batches:       %d\n", len(skin.Batches))
	for bi, sb := range skin.Batches {
		blend := uint16(0)
		if int(sb.Material) < len(model.Materials) {
			blend = model.Materials[sb.Material].BlendMode
		}
		texName := ""
		if ti := model.BatchTexture(sb); ti >= 0 && ti < len(model.Textures) {
			texName = model.Textures[ti].Filename
		}
		fmt.Printf("  Batch %2d: submesh=%-3d material=%-3d blend=%d tex=%q\n",
			bi, sb.Submesh, sb.Material, blend, texName)
	}
}
