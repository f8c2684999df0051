// Package binread provides bounds-checked little-endian reads over an
// immutable byte buffer. Out-of-range reads return zero values and
// over-declared arrays collapse to empty, so decoders built on top never
// index past a truncated or hand-edited file.
package binread

import (
	"encoding/binary"
	"math"
)

type Reader struct {
	data []byte
}

func New(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Len() int {
	return len(r.data)
}

// In reports whether [off, off+n) lies inside the buffer.
func (r *Reader) In(off, n int) bool {
	return off >= 0 && n >= 0 && off+n <= len(r.data)
}

func (r *Reader) U8(off int) uint8 {
	if !r.In(off, 1) {
		return 0
	}
	return r.data[off]
}

func (r *Reader) U16(off int) uint16 {
	if !r.In(off, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.data[off:])
}

func (r *Reader) I16(off int) int16 {
	return int16(r.U16(off))
}

func (r *Reader) U32(off int) uint32 {
	if !r.In(off, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.data[off:])
}

func (r *Reader) I32(off int) int32 {
	return int32(r.U32(off))
}

func (r *Reader) F32(off int) float32 {
	return math.Float32frombits(r.U32(off))
}

func (r *Reader) F32x2(off int) [2]float32 {
	return [2]float32{r.F32(off), r.F32(off + 4)}
}

func (r *Reader) F32x3(off int) [3]float32 {
	return [3]float32{r.F32(off), r.F32(off + 4), r.F32(off + 8)}
}

// Bytes returns the n bytes at off, or nil when out of range.
func (r *Reader) Bytes(off, n int) []byte {
	if !r.In(off, n) {
		return nil
	}
	return r.data[off : off+n]
}

// String reads up to n bytes at off and cuts at the first NUL.
func (r *Reader) String(off, n int) string {
	b := r.Bytes(off, n)
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Array reads a (count: u32, byteOffset: u32) pair at off and validates the
// declared extent. It returns the element count and the base offset of the
// array data, or (0, 0) when the pair itself is unreadable, count exceeds
// maxCount, or base + count*elemSize runs past the buffer. Every array
// field in the model formats goes through here; no caller performs its own
// offset arithmetic against unvalidated counts.
func (r *Reader) Array(off, elemSize, maxCount int) (count, base int) {
	if !r.In(off, 8) {
		return 0, 0
	}
	return r.Check(r.U32(off), r.U32(off+4), elemSize, maxCount)
}

// Check applies the Array validation policy to an already-read
// (count, byteOffset) pair.
func (r *Reader) Check(declared, offset uint32, elemSize, maxCount int) (count, base int) {
	n := int64(declared)
	b := int64(offset)
	if n == 0 || n > int64(maxCount) {
		return 0, 0
	}
	if b+n*int64(elemSize) > int64(len(r.data)) {
		return 0, 0
	}
	return int(n), int(b)
}

// U16s reads count uint16 values starting at off. The extent must already
// be validated (use Array); a stale range still degrades to nil.
func (r *Reader) U16s(off, count int) []uint16 {
	if count <= 0 || !r.In(off, count*2) {
		return nil
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(r.data[off+i*2:])
	}
	return out
}

func (r *Reader) U32s(off, count int) []uint32 {
	if count <= 0 || !r.In(off, count*4) {
		return nil
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(r.data[off+i*4:])
	}
	return out
}

func (r *Reader) I16s(off, count int) []int16 {
	if count <= 0 || !r.In(off, count*2) {
		return nil
	}
	out := make([]int16, count)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(r.data[off+i*2:]))
	}
	return out
}
