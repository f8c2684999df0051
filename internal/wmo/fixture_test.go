package wmo

import (
	"encoding/binary"
	"math"
)

// chunkWriter assembles a chunk-stream file for decoder tests.
type chunkWriter struct{ b []byte }

func (w *chunkWriter) chunk(tag string, payload []byte) {
	w.b = append(w.b, tag...)
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(payload)))
	w.b = append(w.b, size[:]...)
	w.b = append(w.b, payload...)
}

// reversed flips a tag's byte order, imitating files that stored the tag
// as a little-endian integer.
func reversed(tag string) string {
	return string([]byte{tag[3], tag[2], tag[1], tag[0]})
}

// rec builds one little-endian record or payload by chained appends.
type rec struct{ b []byte }

func (r *rec) u8(v uint8) *rec {
	r.b = append(r.b, v)
	return r
}

func (r *rec) u16(v uint16) *rec {
	var t [2]byte
	binary.LittleEndian.PutUint16(t[:], v)
	r.b = append(r.b, t[:]...)
	return r
}

func (r *rec) u32(v uint32) *rec {
	var t [4]byte
	binary.LittleEndian.PutUint32(t[:], v)
	r.b = append(r.b, t[:]...)
	return r
}

func (r *rec) i32(v int32) *rec { return r.u32(uint32(v)) }

func (r *rec) f32(v float32) *rec { return r.u32(math.Float32bits(v)) }

func (r *rec) str(s string) *rec {
	r.b = append(r.b, s...)
	return r
}

func (r *rec) pad(n int) *rec {
	r.b = append(r.b, make([]byte, n)...)
	return r
}
