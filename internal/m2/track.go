package m2

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/binread"
)

// Interpolation modes. InterpNone snaps to the earlier key; every other
// mode blends linearly (the headers also declare bezier and hermite but
// the clients ship linear data).
const (
	InterpNone   uint16 = 0
	InterpLinear uint16 = 1
)

// TrackSeq is the keyframe data for one animation sequence slot. Times are
// milliseconds, ascending, one per key.
type TrackSeq[T any] struct {
	Times []uint32
	Keys  []T
}

// Track is one animated property. Seqs has one slot per animation
// sequence; an empty slot means the property has no keyframes for that
// sequence and samples as the caller's default. GlobalSeq >= 0 binds the
// track to a global-sequence clock instead of the active clip, in which
// case slot 0 holds the data.
type Track[T any] struct {
	Interp    uint16
	GlobalSeq int16
	Seqs      []TrackSeq[T]

	// pending holds (count, offset) pairs for sequences whose keyframes
	// live in a companion .anim file. Resolved by ApplyAnimFile.
	pending []pendingSlot
}

type arrayRef struct {
	count  uint32
	offset uint32
}

type pendingSlot struct {
	seq   int
	times arrayRef
	keys  arrayRef
}

// HasData reports whether any sequence slot carries keyframes.
func (t *Track[T]) HasData() bool {
	for i := range t.Seqs {
		if len(t.Seqs[i].Times) > 0 {
			return true
		}
	}
	return false
}

// KeyCount sums keyframes across all sequence slots.
func (t *Track[T]) KeyCount() int {
	n := 0
	for i := range t.Seqs {
		n += len(t.Seqs[i].Keys)
	}
	return n
}

type keyReader[T any] func(r *binread.Reader, off, count int) []T

// trackContext carries what every track decode needs: the file reader, the
// layout generation, and per-sequence flags for spotting externally stored
// keyframes.
type trackContext struct {
	r        *binread.Reader
	legacy   bool
	seqFlags []uint32
}

// external reports whether sequence slot seq stores its keyframes in a
// companion file. Legacy files always store keyframes inline.
func (c trackContext) external(seq int) bool {
	return !c.legacy && seq < len(c.seqFlags) && c.seqFlags[seq]&seqFlagEmbedded == 0
}

func decodeVec3Track(c trackContext, off int) Track[mgl32.Vec3] {
	return decodeTrack(c, off, 12, readVec3Keys)
}

func decodeQuatTrack(c trackContext, off int) Track[mgl32.Quat] {
	if c.legacy {
		return decodeTrack(c, off, 16, readQuatKeysFloat)
	}
	return decodeTrack(c, off, 8, readQuatKeysPacked)
}

func decodeFloatTrack(c trackContext, off int) Track[float32] {
	return decodeTrack(c, off, 4, readFloatKeys)
}

// decodeTrack reads a track header at off. The current layout nests one
// (count, offset) sub-array pair per sequence; the legacy layout stores one
// flat timestamp array, one flat key array, and a range table slicing both.
func decodeTrack[T any](c trackContext, off, elemSize int, read keyReader[T]) Track[T] {
	t := Track[T]{
		Interp:    c.r.U16(off),
		GlobalSeq: c.r.I16(off + 2),
	}
	if c.legacy {
		decodeTrackFlat(c.r, off, elemSize, read, &t)
	} else {
		decodeTrackNested(c, off, elemSize, read, &t)
	}
	return t
}

func decodeTrackNested[T any](c trackContext, off, elemSize int, read keyReader[T], t *Track[T]) {
	tGroups, tBase := c.r.Array(off+4, 8, maxTrackGroups)
	kGroups, kBase := c.r.Array(off+12, 8, maxTrackGroups)
	n := tGroups
	if kGroups < n {
		n = kGroups
	}
	if n == 0 {
		return
	}
	t.Seqs = make([]TrackSeq[T], n)
	for i := 0; i < n; i++ {
		if c.external(i) {
			// Sub-array offsets for this sequence point into its .anim
			// file, not this buffer. Capture the raw pair for later.
			t.pending = append(t.pending, pendingSlot{
				seq:   i,
				times: arrayRef{c.r.U32(tBase + i*8), c.r.U32(tBase + i*8 + 4)},
				keys:  arrayRef{c.r.U32(kBase + i*8), c.r.U32(kBase + i*8 + 4)},
			})
			continue
		}
		tc, tb := c.r.Array(tBase+i*8, 4, maxTrackKeys)
		kc, kb := c.r.Array(kBase+i*8, elemSize, maxTrackKeys)
		if tc == 0 || kc == 0 {
			continue
		}
		if kc < tc {
			tc = kc
		} else {
			kc = tc
		}
		t.Seqs[i] = TrackSeq[T]{Times: c.r.U32s(tb, tc), Keys: read(c.r, kb, kc)}
	}
}

func decodeTrackFlat[T any](r *binread.Reader, off, elemSize int, read keyReader[T], t *Track[T]) {
	rangeCount, rangeBase := r.Array(off+4, 8, maxRanges)
	tc, tb := r.Array(off+12, 4, maxFlatKeys)
	kc, kb := r.Array(off+20, elemSize, maxFlatKeys)
	times := r.U32s(tb, tc)
	keys := read(r, kb, kc)

	if rangeCount == 0 {
		// No range table: the whole flat array is implicit sequence 0.
		n := len(times)
		if len(keys) < n {
			n = len(keys)
		}
		if n > 0 {
			t.Seqs = []TrackSeq[T]{{Times: rebased(times[:n]), Keys: keys[:n]}}
		}
		return
	}

	t.Seqs = make([]TrackSeq[T], rangeCount)
	for i := 0; i < rangeCount; i++ {
		start := int(r.U32(rangeBase + i*8))
		end := int(r.U32(rangeBase + i*8 + 4))
		if start >= end || end > len(times) || end > len(keys) {
			continue
		}
		t.Seqs[i] = TrackSeq[T]{Times: rebased(times[start:end]), Keys: keys[start:end]}
	}
}

// rebased shifts a slot's timestamps so the first lands on zero. Flat
// timelines place each sequence's keys at absolute positions on one long
// clock, while sampling happens in sequence-local milliseconds; without
// the shift every sample would clamp to the first key.
func rebased(times []uint32) []uint32 {
	if len(times) == 0 || times[0] == 0 {
		return times
	}
	base := times[0]
	out := make([]uint32, len(times))
	for i, v := range times {
		out[i] = v - base
	}
	return out
}

// resolveExternal fills sequence slot seq from a companion buffer using the
// (count, offset) pair captured at decode time, validated against that
// buffer. Reports whether the slot was patched.
func (t *Track[T]) resolveExternal(ar *binread.Reader, seq, elemSize int, read keyReader[T]) bool {
	for i := range t.pending {
		p := t.pending[i]
		if p.seq != seq {
			continue
		}
		t.pending = append(t.pending[:i], t.pending[i+1:]...)
		tc, tb := ar.Check(p.times.count, p.times.offset, 4, maxTrackKeys)
		kc, kb := ar.Check(p.keys.count, p.keys.offset, elemSize, maxTrackKeys)
		if tc == 0 || kc == 0 || seq >= len(t.Seqs) {
			return false
		}
		if kc < tc {
			tc = kc
		} else {
			kc = tc
		}
		t.Seqs[seq] = TrackSeq[T]{Times: ar.U32s(tb, tc), Keys: read(ar, kb, kc)}
		return true
	}
	return false
}

func readVec3Keys(r *binread.Reader, off, count int) []mgl32.Vec3 {
	if count <= 0 || !r.In(off, count*12) {
		return nil
	}
	out := make([]mgl32.Vec3, count)
	for i := range out {
		out[i] = mgl32.Vec3(r.F32x3(off + i*12))
	}
	return out
}

func readFloatKeys(r *binread.Reader, off, count int) []float32 {
	if count <= 0 || !r.In(off, count*4) {
		return nil
	}
	out := make([]float32, count)
	for i := range out {
		out[i] = r.F32(off + i*4)
	}
	return out
}

// readQuatKeysPacked decodes 16-bit compressed quaternions (current
// layout): four i16 components, converted then renormalized, in that
// order.
func readQuatKeysPacked(r *binread.Reader, off, count int) []mgl32.Quat {
	if count <= 0 || !r.In(off, count*8) {
		return nil
	}
	out := make([]mgl32.Quat, count)
	for i := range out {
		o := off + i*8
		out[i] = dequantQuat(r.I16(o), r.I16(o+2), r.I16(o+4), r.I16(o+6))
	}
	return out
}

// readQuatKeysFloat decodes full-float quaternions (legacy layout), stored
// x, y, z, w and used as-is.
func readQuatKeysFloat(r *binread.Reader, off, count int) []mgl32.Quat {
	if count <= 0 || !r.In(off, count*16) {
		return nil
	}
	out := make([]mgl32.Quat, count)
	for i := range out {
		o := off + i*16
		out[i] = mgl32.Quat{
			W: r.F32(o + 12),
			V: mgl32.Vec3{r.F32(o), r.F32(o + 4), r.F32(o + 8)},
		}
	}
	return out
}

// dequantQuat expands one compressed quaternion. Each component maps
// through (v-32767)/32767 for v >= 0 and (v+32768)/32767 for v < 0, then
// the whole quaternion renormalizes with the denominator clamped away from
// zero.
func dequantQuat(x, y, z, w int16) mgl32.Quat {
	fx := dequantComponent(x)
	fy := dequantComponent(y)
	fz := dequantComponent(z)
	fw := dequantComponent(w)
	n := math.Sqrt(fx*fx + fy*fy + fz*fz + fw*fw)
	if n < 1e-10 {
		n = 1e-10
	}
	return mgl32.Quat{
		W: float32(fw / n),
		V: mgl32.Vec3{float32(fx / n), float32(fy / n), float32(fz / n)},
	}
}

func dequantComponent(v int16) float64 {
	if v < 0 {
		return (float64(v) + 32768) / 32767
	}
	return (float64(v) - 32767) / 32767
}
