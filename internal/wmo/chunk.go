package wmo

import "encoding/binary"

// canonTag normalizes a 4-byte chunk tag to its canonical spelling. Tags
// are stored reversed on disk by most writers, forward by some tools;
// every canonical tag starts with 'M' and none ends with one, so the
// first byte disambiguates. Unrecognized tags come back as-is and fall
// through the dispatch switch.
func canonTag(b []byte) string {
	if len(b) < 4 {
		return ""
	}
	if b[0] == 'M' {
		return string(b[:4])
	}
	if b[3] == 'M' {
		return string([]byte{b[3], b[2], b[1], b[0]})
	}
	return string(b[:4])
}

// scanChunks walks data[start:end) as a chunk stream, calling fn with each
// canonical tag and payload. A chunk whose declared size runs past end
// stops the scan; trailing bytes shorter than a header are ignored.
func scanChunks(data []byte, start, end int, fn func(tag string, payload []byte)) {
	if end > len(data) {
		end = len(data)
	}
	off := start
	for off+8 <= end {
		tag := canonTag(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		next := body + size
		if size < 0 || next > end {
			break
		}
		fn(tag, data[body:next])
		off = next
	}
}
