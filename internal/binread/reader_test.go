package binread

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestScalarReads(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = 0xfe
	binary.LittleEndian.PutUint16(buf[2:], 0x8001)
	binary.LittleEndian.PutUint32(buf[4:], 0xdeadbeef)
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(1.5))
	r := New(buf)

	if got := r.U8(0); got != 0xfe {
		t.Errorf("U8(0): expected 0xfe, got 0x%x", got)
	}
	if got := r.U16(2); got != 0x8001 {
		t.Errorf("U16(2): expected 0x8001, got 0x%x", got)
	}
	if got := r.I16(2); got != -32767 {
		t.Errorf("I16(2): expected -32767, got %d", got)
	}
	if got := r.U32(4); got != 0xdeadbeef {
		t.Errorf("U32(4): expected 0xdeadbeef, got 0x%x", got)
	}
	if got := r.I32(4); got != -559038737 {
		t.Errorf("I32(4): expected -559038737, got %d", got)
	}
	if got := r.F32(8); got != 1.5 {
		t.Errorf("F32(8): expected 1.5, got %v", got)
	}
	if got := r.Len(); got != 16 {
		t.Errorf("Len: expected 16, got %d", got)
	}
}

func TestReadsOutOfRange(t *testing.T) {
	r := New(make([]byte, 8))

	if got := r.U8(8); got != 0 {
		t.Errorf("U8 past end: expected 0, got %d", got)
	}
	if got := r.U32(5); got != 0 {
		t.Errorf("U32 straddling end: expected 0, got %d", got)
	}
	if got := r.U32(-1); got != 0 {
		t.Errorf("U32 negative offset: expected 0, got %d", got)
	}
	if got := r.F32(100); got != 0 {
		t.Errorf("F32 far past end: expected 0, got %v", got)
	}
	if got := r.Bytes(6, 4); got != nil {
		t.Errorf("Bytes past end: expected nil, got %v", got)
	}
}

func TestIn(t *testing.T) {
	r := New(make([]byte, 10))
	tests := []struct {
		off, n int
		want   bool
	}{
		{0, 10, true},
		{0, 0, true},
		{9, 1, true},
		{10, 0, true},
		{0, 11, false},
		{10, 1, false},
		{-1, 2, false},
		{5, -1, false},
	}
	for _, tt := range tests {
		if got := r.In(tt.off, tt.n); got != tt.want {
			t.Errorf("In(%d, %d): expected %v, got %v", tt.off, tt.n, tt.want, got)
		}
	}
}

func TestString(t *testing.T) {
	r := New([]byte("abc\x00def"))

	if got := r.String(0, 7); got != "abc" {
		t.Errorf("expected cut at NUL, got %q", got)
	}
	if got := r.String(4, 3); got != "def" {
		t.Errorf("expected %q, got %q", "def", got)
	}
	if got := r.String(0, 2); got != "ab" {
		t.Errorf("expected length-limited %q, got %q", "ab", got)
	}
	if got := r.String(100, 5); got != "" {
		t.Errorf("expected empty for out-of-range, got %q", got)
	}
}

func TestArray(t *testing.T) {
	// Pair at 0: count=3, offset=16. Data fits: 16 + 3*4 = 28 <= 40.
	buf := make([]byte, 40)
	binary.LittleEndian.PutUint32(buf[0:], 3)
	binary.LittleEndian.PutUint32(buf[4:], 16)
	binary.LittleEndian.PutUint32(buf[16:], 7)
	binary.LittleEndian.PutUint32(buf[20:], 8)
	binary.LittleEndian.PutUint32(buf[24:], 9)
	// Pair at 8: count=3, offset=32. Extent 32 + 12 = 44 > 40.
	binary.LittleEndian.PutUint32(buf[8:], 3)
	binary.LittleEndian.PutUint32(buf[12:], 32)
	r := New(buf)

	count, base := r.Array(0, 4, 10)
	if count != 3 || base != 16 {
		t.Fatalf("expected (3, 16), got (%d, %d)", count, base)
	}
	if got := r.U32s(base, count); len(got) != 3 || got[0] != 7 || got[2] != 9 {
		t.Errorf("expected [7 8 9], got %v", got)
	}

	if c, b := r.Array(0, 4, 2); c != 0 || b != 0 {
		t.Errorf("count above ceiling: expected (0, 0), got (%d, %d)", c, b)
	}
	if c, b := r.Array(8, 4, 10); c != 0 || b != 0 {
		t.Errorf("extent past end: expected (0, 0), got (%d, %d)", c, b)
	}
	if c, b := r.Array(36, 4, 10); c != 0 || b != 0 {
		t.Errorf("pair straddling end: expected (0, 0), got (%d, %d)", c, b)
	}
	if c, b := r.Array(28, 4, 10); c != 0 || b != 0 {
		t.Errorf("zero count: expected (0, 0), got (%d, %d)", c, b)
	}
}

func TestCheck(t *testing.T) {
	r := New(make([]byte, 100))

	if c, b := r.Check(5, 20, 4, 100); c != 5 || b != 20 {
		t.Errorf("expected (5, 20), got (%d, %d)", c, b)
	}
	if c, _ := r.Check(5, 90, 4, 100); c != 0 {
		t.Errorf("extent past end: expected count 0, got %d", c)
	}
	if c, _ := r.Check(101, 0, 1, 100); c != 0 {
		t.Errorf("count above ceiling: expected 0, got %d", c)
	}
	// Offset arithmetic must not wrap on huge declared values.
	if c, _ := r.Check(0xffffffff, 0xffffffff, 48, 0x7fffffff); c != 0 {
		t.Errorf("huge pair: expected count 0, got %d", c)
	}
}

func TestSliceReads(t *testing.T) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint16(buf[0:], 100)
	binary.LittleEndian.PutUint16(buf[2:], 0xffff)
	binary.LittleEndian.PutUint16(buf[4:], 300)
	r := New(buf)

	u := r.U16s(0, 3)
	if len(u) != 3 || u[0] != 100 || u[1] != 0xffff || u[2] != 300 {
		t.Errorf("U16s: expected [100 65535 300], got %v", u)
	}
	i := r.I16s(0, 3)
	if i[1] != -1 {
		t.Errorf("I16s: expected -1 at [1], got %d", i[1])
	}
	if got := r.U16s(8, 4); got != nil {
		t.Errorf("U16s past end: expected nil, got %v", got)
	}
	if got := r.U32s(0, 4); got != nil {
		t.Errorf("U32s past end: expected nil, got %v", got)
	}
	if got := r.U16s(0, 0); got != nil {
		t.Errorf("U16s zero count: expected nil, got %v", got)
	}
}
