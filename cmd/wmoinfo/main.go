package main

import (
	"fmt"
	"os"

	"github.com/freadblangks/WoWee/internal/assets"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <object.wmo> [<object.wmo> ...]\n", os.Args[0])
		os.Exit(1)
	}

	for i, path := range os.Args[1:] {
		if i > 0 {
			fmt.Println()
			fmt.Println("================================================================")
			fmt.Println()
		}
		inspectObject(path)
	}
}

func inspectObject(path string) {
	fmt.Printf("=== %s ===\n\n", path)

	root, groups, err := assets.LoadObject(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR parsing %s: %v\n", path, err)
		return
	}

	fmt.Printf("Version:     %d\n", root.Version)
	fmt.Printf("Groups:      %d declared, %d group files found\n", root.GroupCount, len(groups))
	fmt.Printf("Textures:    %d\n", len(root.Textures))
	fmt.Printf("Materials:   %d\n", len(root.Materials))
	fmt.Printf("Portals:     %d\n", root.PortalCount)
	fmt.Printf("Lights:      %d\n", root.LightCount)
	fmt.Printf("Doodads:     %d defs in %d sets\n", len(root.Doodads), len(root.DoodadSets))
	fmt.Printf("Ambient:     #%02x%02x%02x%02x\n",
		root.AmbientColor[0], root.AmbientColor[1], root.AmbientColor[2], root.AmbientColor[3])
	fmt.Printf("Bounds:      min=(%.2f, %.2f, %.2f) max=(%.2f, %.2f, %.2f)\n",
		root.Bounds.Min[0], root.Bounds.Min[1], root.Bounds.Min[2],
		root.Bounds.Max[0], root.Bounds.Max[1], root.Bounds.Max[2])
	fmt.Println()

	if len(root.Materials) > 0 {
		fmt.Println("--- Materials ---")
		for mi, m := range root.Materials {
			fmt.Printf("  Mat %2d: shader=%-2d blend=%d flags=0x%04x tex=%q\n",
				mi, m.Shader, m.BlendMode, m.Flags, root.TextureName(m.Texture1))
		}
		fmt.Println()
	}

	if len(root.GroupInfo) > 0 {
		fmt.Println("--- Group info ---")
		for gi, g := range root.GroupInfo {
			name := g.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  Group %3d: flags=0x%08x %s\n", gi, g.Flags, name)
		}
		fmt.Println()
	}

	if len(root.DoodadSets) > 0 {
		fmt.Println("--- Doodad sets ---")
		for di, ds := range root.DoodadSets {
			fmt.Printf("  Set %2d: %-20s defs [%d..%d)\n", di, ds.Name, ds.Start, ds.Start+ds.Count)
		}
		fmt.Println()
	}

	for gi, g := range groups {
		fmt.Printf("--- Group file %d ---\n", gi)
		fmt.Printf("  Flags:      0x%08x\n", g.Flags)
		fmt.Printf("  Vertices:   %d (normals %d, uvs %d, colors %d)\n",
			len(g.Positions), len(g.Normals), len(g.UVs), len(g.Colors))
		fmt.Printf("  Indices:    %d (%d tris)\n", len(g.Indices), len(g.Indices)/3)
		fmt.Printf("  Batches:    %d (trans=%d int=%d ext=%d)\n",
			len(g.Batches), g.TransBatchCount, g.IntBatchCount, g.ExtBatchCount)
		if g.LiquidType != 0 {
			fmt.Printf("  Liquid:     type %d\n", g.LiquidType)
		}
		for bi, b := range g.Batches {
			texName := ""
			if int(b.MaterialID) < len(root.Materials) {
				texName = root.TextureName(root.Materials[b.MaterialID].Texture1)
			}
			fmt.Printf("  Batch %2d: indices [%d..%d) material=%-3d tex=%q\n",
				bi, b.StartIndex, b.StartIndex+uint32(b.IndexCount), b.MaterialID, texName)
		}
	}
}
