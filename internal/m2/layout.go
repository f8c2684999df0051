package m2

// LegacyMaxVersion is the highest header version written by the original
// client generation. Anything above it (or unknown) reads with the current
// table.
const LegacyMaxVersion = 256

const m2Magic = "MD20"

// Sanity ceilings per array kind. A declared count above its ceiling is
// treated the same as a truncated field: the array decodes as empty.
const (
	maxGlobalSequences = 10000
	maxSequences       = 5000
	maxBones           = 5000
	maxVertices        = 500000
	maxTextures        = 1000
	maxLookup          = 10000
	maxMaterials       = 10000
	maxTexWeights      = 1000
	maxTexTransforms   = 1000
	maxAttachments     = 5000
	maxCollision       = 500000
	maxNameLen         = 512

	maxTrackGroups = 5000
	maxTrackKeys   = 50000
	maxFlatKeys    = 500000
	maxRanges      = 5000

	maxSkinIndices   = 500000
	maxSkinTriangles = 500000
	maxSubmeshes     = 10000
	maxBatches       = 10000
)

// headerLayout maps every decoded header field to the byte offset of its
// (count, byteOffset) pair, plus the version-gated record sizes and
// intra-record offsets. The legacy header carries two extra lookup arrays
// and an embedded-view reference, shifting everything after the animation
// lookup by 8 and everything after the texture-replace array by a further
// 12 bytes.
type headerLayout struct {
	globalSequences        int
	sequences              int
	bones                  int
	vertices               int
	views                  int // count at +0; legacy adds a data offset at +4
	textures               int
	textureWeights         int
	textureTransforms      int
	materials              int
	boneLookup             int
	textureLookup          int
	textureUnitLookup      int
	transparencyLookup     int
	textureTransformLookup int
	vertexBox              int // f32 x6, then radius f32
	boundingBox            int
	collisionTriangles     int
	collisionVertices      int
	collisionNormals       int
	attachments            int
	attachmentLookup       int

	sequenceSize         int
	boneSize             int
	submeshSize          int
	trackSize            int
	textureTransformSize int
	attachmentSize       int

	// Sequence record internals. seqDurationEnd < 0 means the duration is
	// stored directly at seqDuration; otherwise the pair at
	// (seqDuration, seqDurationEnd) is a start/end timestamp.
	seqDuration    int
	seqDurationEnd int
	seqSpeed       int
	seqFlags       int
	seqFrequency   int
	seqReplay      int
	seqBlend       int
	seqNext        int

	// Bone record internals: three consecutive tracks (translation,
	// rotation, scale) spaced trackSize apart, then the pivot.
	boneTracks int
	bonePivot  int
}

var currentLayout = headerLayout{
	globalSequences:        20,
	sequences:              28,
	bones:                  44,
	vertices:               60,
	views:                  68,
	textures:               80,
	textureWeights:         88,
	textureTransforms:      96,
	materials:              112,
	boneLookup:             120,
	textureLookup:          128,
	textureUnitLookup:      136,
	transparencyLookup:     144,
	textureTransformLookup: 152,
	vertexBox:              160,
	boundingBox:            188,
	collisionTriangles:     216,
	collisionVertices:      224,
	collisionNormals:       232,
	attachments:            240,
	attachmentLookup:       248,

	sequenceSize:         64,
	boneSize:             88,
	submeshSize:          48,
	trackSize:            20,
	textureTransformSize: 60,
	attachmentSize:       40,

	seqDuration:    4,
	seqDurationEnd: -1,
	seqSpeed:       8,
	seqFlags:       12,
	seqFrequency:   16,
	seqReplay:      20,
	seqBlend:       28,
	seqNext:        60,

	boneTracks: 16,
	bonePivot:  76,
}

var legacyLayout = headerLayout{
	globalSequences:        20,
	sequences:              28,
	bones:                  52,
	vertices:               68,
	views:                  76,
	textures:               92,
	textureWeights:         100,
	textureTransforms:      108,
	materials:              132,
	boneLookup:             140,
	textureLookup:          148,
	textureUnitLookup:      156,
	transparencyLookup:     164,
	textureTransformLookup: 172,
	vertexBox:              180,
	boundingBox:            208,
	collisionTriangles:     236,
	collisionVertices:      244,
	collisionNormals:       252,
	attachments:            260,
	attachmentLookup:       268,

	sequenceSize:         68,
	boneSize:             108,
	submeshSize:          32,
	trackSize:            28,
	textureTransformSize: 84,
	attachmentSize:       48,

	seqDuration:    4,
	seqDurationEnd: 8,
	seqSpeed:       12,
	seqFlags:       16,
	seqFrequency:   20,
	seqReplay:      24,
	seqBlend:       32,
	seqNext:        64,

	boneTracks: 12,
	bonePivot:  96,
}

func layoutFor(version uint32) headerLayout {
	if version <= LegacyMaxVersion {
		return legacyLayout
	}
	return currentLayout
}
