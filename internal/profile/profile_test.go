package profile

import (
	"encoding/binary"
	"io"
	"testing"
)

type sliceReader []byte

func (r sliceReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(r)) {
		return 0, io.EOF
	}
	n := copy(p, r[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestByteFrequencyProfile(t *testing.T) {
	data := sliceReader("aabbbc")
	freq, err := ByteFrequencyProfile(data, 0, int64(len(data)))
	if err != nil {
		t.Fatalf("ByteFrequencyProfile: %v", err)
	}
	if freq['a'] != 2 || freq['b'] != 3 || freq['c'] != 1 {
		t.Errorf("freq a/b/c = %d/%d/%d, want 2/3/1", freq['a'], freq['b'], freq['c'])
	}
	var total int64
	for _, c := range freq {
		total += c
	}
	if total != int64(len(data)) {
		t.Errorf("total = %d, want %d", total, len(data))
	}
}

func TestDetectBOMVariants(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want BOM
	}{
		{"none", []byte("hello"), NoBOM},
		{"utf8", []byte{0xEF, 0xBB, 0xBF, 'x'}, UTF8},
		{"utf16le", []byte{0xFF, 0xFE, 'x', 0}, UTF16LE},
		{"utf16be", []byte{0xFE, 0xFF, 0, 'x'}, UTF16BE},
		{"utf32le", []byte{0xFF, 0xFE, 0x00, 0x00}, UTF32LE},
		{"utf32be", []byte{0x00, 0x00, 0xFE, 0xFF}, UTF32BE},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectBOM(tc.data); got != tc.want {
				t.Errorf("DetectBOM(%v) = %v, want %v", tc.data, got, tc.want)
			}
		})
	}
}

func TestCharacterCountsUTF8Mixed(t *testing.T) {
	// "a" (1 byte) + "é" (2 bytes, U+00E9) + "€" (3 bytes, U+20AC) + "𝄞" (4 bytes, U+1D11E)
	data := sliceReader("aé€\U0001D11E")
	cc, err := ComputeCharacterCounts(data, 0, int64(len(data)), NoBOM)
	if err != nil {
		t.Fatalf("ComputeCharacterCounts: %v", err)
	}
	if cc.Single != 1 || cc.Double != 1 || cc.Triple != 1 || cc.Quad != 1 || cc.Invalid != 0 {
		t.Errorf("counts = %+v, want 1/1/1/1/0", cc)
	}
	sum := cc.Single + 2*cc.Double + 3*cc.Triple + 4*cc.Quad + cc.Invalid
	if sum != int64(len(data)) {
		t.Errorf("sum = %d, want %d", sum, len(data))
	}
}

func TestCharacterCountsUTF8InvalidByte(t *testing.T) {
	data := sliceReader([]byte{'a', 0xFF, 'b'})
	cc, err := ComputeCharacterCounts(data, 0, int64(len(data)), NoBOM)
	if err != nil {
		t.Fatalf("ComputeCharacterCounts: %v", err)
	}
	if cc.Single != 2 || cc.Invalid != 1 {
		t.Errorf("counts = %+v, want single=2 invalid=1", cc)
	}
}

func TestCharacterCountsUTF16SurrogatePair(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], 'h')
	binary.LittleEndian.PutUint16(buf[2:4], 0xD83D) // high surrogate
	binary.LittleEndian.PutUint16(buf[4:6], 0xDE00)  // low surrogate (forms an emoji codepoint)
	binary.LittleEndian.PutUint16(buf[6:8], 'i')

	cc, err := ComputeCharacterCounts(sliceReader(buf), 0, int64(len(buf)), UTF16LE)
	if err != nil {
		t.Fatalf("ComputeCharacterCounts: %v", err)
	}
	if cc.Double != 2 || cc.Quad != 1 || cc.Invalid != 0 {
		t.Errorf("counts = %+v, want double=2 quad=1 invalid=0", cc)
	}
}

func TestCharacterCountsUTF16LoneSurrogateIsInvalid(t *testing.T) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint16(buf[0:2], 0xD83D) // high surrogate with no follower
	binary.LittleEndian.PutUint16(buf[2:4], 'z')

	cc, err := ComputeCharacterCounts(sliceReader(buf), 0, int64(len(buf)), UTF16LE)
	if err != nil {
		t.Fatalf("ComputeCharacterCounts: %v", err)
	}
	if cc.Invalid != 2 || cc.Double != 1 {
		t.Errorf("counts = %+v, want invalid=2 double=1", cc)
	}
}

func TestCharacterCountsUTF32FixedWidth(t *testing.T) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], 'A')
	binary.BigEndian.PutUint32(buf[4:8], 0x1D11E)

	cc, err := ComputeCharacterCounts(sliceReader(buf), 0, int64(len(buf)), UTF32BE)
	if err != nil {
		t.Fatalf("ComputeCharacterCounts: %v", err)
	}
	if cc.Quad != 2 || cc.Invalid != 0 {
		t.Errorf("counts = %+v, want quad=2 invalid=0", cc)
	}
}

func TestCharacterCountsUTF32TruncatedAtRangeEndIsInvalid(t *testing.T) {
	buf := []byte{0, 0, 0, 'A', 0, 0} // one full codepoint + 2 trailing bytes
	cc, err := ComputeCharacterCounts(sliceReader(buf), 0, int64(len(buf)), UTF32BE)
	if err != nil {
		t.Fatalf("ComputeCharacterCounts: %v", err)
	}
	if cc.Quad != 1 || cc.Invalid != 2 {
		t.Errorf("counts = %+v, want quad=1 invalid=2", cc)
	}
}
