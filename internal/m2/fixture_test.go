package m2

import (
	"encoding/binary"
	"math"
)

// fileBuf cooks little-endian binary fixtures. The fixed header region is
// allocated up front; array data appends behind it and the (count, offset)
// pairs patch back into the header.
type fileBuf struct{ b []byte }

func newFileBuf(size int) *fileBuf { return &fileBuf{b: make([]byte, size)} }

func (f *fileBuf) putU8(off int, v uint8)    { f.b[off] = v }
func (f *fileBuf) putU16(off int, v uint16)  { binary.LittleEndian.PutUint16(f.b[off:], v) }
func (f *fileBuf) putI16(off int, v int16)   { f.putU16(off, uint16(v)) }
func (f *fileBuf) putU32(off int, v uint32)  { binary.LittleEndian.PutUint32(f.b[off:], v) }
func (f *fileBuf) putI32(off int, v int32)   { f.putU32(off, uint32(v)) }
func (f *fileBuf) putF32(off int, v float32) { f.putU32(off, math.Float32bits(v)) }

func (f *fileBuf) putU16s(off int, vals ...uint16) {
	for i, v := range vals {
		f.putU16(off+i*2, v)
	}
}

func (f *fileBuf) putU32s(off int, vals ...uint32) {
	for i, v := range vals {
		f.putU32(off+i*4, v)
	}
}

func (f *fileBuf) putF32s(off int, vals ...float32) {
	for i, v := range vals {
		f.putF32(off+i*4, v)
	}
}

func (f *fileBuf) putStr(off int, s string) { copy(f.b[off:], s) }

// grow appends n zero bytes and returns their start offset.
func (f *fileBuf) grow(n int) int {
	off := len(f.b)
	f.b = append(f.b, make([]byte, n)...)
	return off
}

// pair grows space for count elements and points the (count, offset) pair
// at pairOff to it, returning the data base.
func (f *fileBuf) pair(pairOff, count, elemSize int) int {
	base := f.grow(count * elemSize)
	f.putU32(pairOff, uint32(count))
	f.putU32(pairOff+4, uint32(base))
	return base
}

// newM2Fixture returns a header-only model file: magic, version, and every
// array pair zeroed.
func newM2Fixture(version uint32) *fileBuf {
	f := newFileBuf(512)
	f.putStr(0, m2Magic)
	f.putU32(4, version)
	return f
}

// track writes a current-layout track header at off with one populated
// sequence slot.
func (f *fileBuf) track(off int, interp uint16, globalSeq int16, times []uint32, keys []float32, elemSize int) {
	f.putU16(off, interp)
	f.putI16(off+2, globalSeq)
	tg := f.pair(off+4, 1, 8)
	kg := f.pair(off+12, 1, 8)
	td := f.pair(tg, len(times), 4)
	f.putU32s(td, times...)
	kd := f.pair(kg, len(keys)*4/elemSize, elemSize)
	f.putF32s(kd, keys...)
}

// flatTrack writes a legacy track header at off: a range table plus flat
// timestamp and key arrays shared by all ranges.
func (f *fileBuf) flatTrack(off int, interp uint16, globalSeq int16, ranges [][2]uint32, times []uint32, keyData []byte, elemSize int) {
	f.putU16(off, interp)
	f.putI16(off+2, globalSeq)
	rb := f.pair(off+4, len(ranges), 8)
	for i, rg := range ranges {
		f.putU32(rb+i*8, rg[0])
		f.putU32(rb+i*8+4, rg[1])
	}
	td := f.pair(off+12, len(times), 4)
	f.putU32s(td, times...)
	kd := f.pair(off+20, len(keyData)/elemSize, elemSize)
	copy(f.b[kd:], keyData)
}

func f32Bytes(vals ...float32) []byte {
	b := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}
