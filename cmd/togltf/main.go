package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/anim"
	"github.com/freadblangks/WoWee/internal/assets"
	"github.com/freadblangks/WoWee/internal/gltfexport"
	"github.com/freadblangks/WoWee/internal/texture"
)

func main() {
	out := flag.String("out", "", "Output path (.glb or .gltf, default: input stem + .glb)")
	dataDir := flag.String("data", "", "Texture search root (default: input file's directory)")
	sequence := flag.Int("seq", -1, "Bake this animation sequence into the vertices (-1: rest pose)")
	poseTime := flag.Float64("time", 0, "Pose time within the sequence, in milliseconds")

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <model.m2 | object.wmo>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	input := flag.Arg(0)

	outPath := *out
	if outPath == "" {
		outPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".glb"
	}

	texRoot := *dataDir
	if texRoot == "" {
		texRoot = filepath.Dir(input)
	}
	texIndex := texture.BuildIndex(texRoot)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed under %s\n", texIndex.Len(), texRoot)

	var err error
	switch strings.ToLower(filepath.Ext(input)) {
	case ".m2":
		err = exportModel(input, outPath, texCache, *sequence, *poseTime)
	case ".wmo":
		err = exportObject(input, outPath, texCache)
	default:
		err = fmt.Errorf("unsupported input %q (want .m2 or .wmo)", input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", outPath)
}

func exportModel(input, outPath string, res texture.Resolver, sequence int, poseTime float64) error {
	model, skin, err := assets.LoadModel(input)
	if err != nil {
		return err
	}

	var positions, normals []mgl32.Vec3
	if sequence >= 0 && len(model.Bones) > 0 && len(model.Sequences) > 0 {
		state := anim.NewState(model)
		state.SetSequence(sequence)
		state.SetTime(poseTime)
		world := state.Evaluate()
		skinner := anim.NewSkinner(model)
		positions = skinner.Apply(world)
		normals = skinner.Normals(world)
		fmt.Printf("Posed: sequence %d at %.0fms\n", state.Sequence(), poseTime)
	}

	doc, err := gltfexport.ModelDocument(model, skin, positions, normals, res)
	if err != nil {
		return err
	}
	return gltfexport.Save(doc, outPath)
}

func exportObject(input, outPath string, res texture.Resolver) error {
	root, groups, err := assets.LoadObject(input)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return fmt.Errorf("%s has no group files next to it", input)
	}
	fmt.Printf("Groups: %d loaded\n", len(groups))

	doc, err := gltfexport.WMODocument(root, groups, res)
	if err != nil {
		return err
	}
	return gltfexport.Save(doc, outPath)
}
