package m2

import (
	"fmt"

	"github.com/freadblangks/WoWee/internal/binread"
)

// Sequences keep their keyframes inline only when this flag is set; the
// current layout otherwise spills them into per-sequence companion files.
const seqFlagEmbedded = 0x20

// AnimFileName returns the companion file name for a sequence, matching
// the client's convention: "<Model><ID padded to 4>-<Variation padded to 2>.anim".
func AnimFileName(modelName string, s Sequence) string {
	return fmt.Sprintf("%s%04d-%02d.anim", modelName, s.ID, s.Variation)
}

// ApplyAnimFile patches sequence seq's bone, texture-transform, and
// texture-weight tracks from its companion file's bytes, resolving the
// (count, offset) pairs that were deferred at decode time against the
// companion buffer. Slots populated from the model file itself are left
// alone. Call during loading, before the model is shared. Returns the
// number of track slots patched.
func ApplyAnimFile(m *Model, seq int, data []byte) int {
	if seq < 0 || seq >= len(m.Sequences) || len(data) == 0 {
		return 0
	}
	ar := binread.New(data)
	patched := 0
	for i := range m.Bones {
		b := &m.Bones[i]
		if b.Translation.resolveExternal(ar, seq, 12, readVec3Keys) {
			patched++
		}
		if b.Rotation.resolveExternal(ar, seq, 8, readQuatKeysPacked) {
			patched++
		}
		if b.Scale.resolveExternal(ar, seq, 12, readVec3Keys) {
			patched++
		}
	}
	for i := range m.TextureTransforms {
		tt := &m.TextureTransforms[i]
		if tt.Translation.resolveExternal(ar, seq, 12, readVec3Keys) {
			patched++
		}
		if tt.Rotation.resolveExternal(ar, seq, 8, readQuatKeysPacked) {
			patched++
		}
		if tt.Scale.resolveExternal(ar, seq, 12, readVec3Keys) {
			patched++
		}
	}
	for i := range m.TextureWeights {
		if m.TextureWeights[i].resolveExternal(ar, seq, 4, readFloatKeys) {
			patched++
		}
	}
	return patched
}
