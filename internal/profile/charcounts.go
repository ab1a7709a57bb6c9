package profile

import (
	"encoding/binary"
	"io"
	"unicode/utf8"
)

// CharacterCounts buckets the codepoints of a range by their encoded
// byte width. Single + 2*Double + 3*Triple + 4*Quad + Invalid always
// equals the scanned range's length, per SPEC_FULL.md §4.7.
type CharacterCounts struct {
	BOM     BOM
	Single  int64
	Double  int64
	Triple  int64
	Quad    int64
	Invalid int64
}

// ComputeCharacterCounts scans [start, end) and classifies it
// according to bom: UTF16LE/UTF16BE/UTF32LE/UTF32BE use their
// respective fixed/surrogate-pair width rules; every other BOM value
// (including NoBOM) is treated as UTF-8.
func ComputeCharacterCounts(r Reader, start, end int64, bom BOM) (CharacterCounts, error) {
	switch bom {
	case UTF16LE:
		return countUTF16(r, start, end, bom, binary.LittleEndian)
	case UTF16BE:
		return countUTF16(r, start, end, bom, binary.BigEndian)
	case UTF32LE:
		return countUTF32(r, start, end, bom, binary.LittleEndian)
	case UTF32BE:
		return countUTF32(r, start, end, bom, binary.BigEndian)
	default:
		return countUTF8(r, start, end, bom)
	}
}

func countUTF8(r Reader, start, end int64, bom BOM) (CharacterCounts, error) {
	cc := CharacterCounts{BOM: bom}
	var carry []byte
	buf := make([]byte, windowSize)

	for off := start; off < end || len(carry) > 0; {
		want := windowSize
		if remaining := end - off; int64(want) > remaining {
			want = int(remaining)
		}
		var n int
		var rerr error
		if want > 0 {
			n, rerr = r.ReadAt(buf[:want], off)
		} else {
			rerr = io.EOF
		}
		off += int64(n)
		atEnd := rerr != nil || off >= end

		combined := append(carry, buf[:n]...)
		carry = nil

		i := 0
		for i < len(combined) {
			chunk := combined[i:]
			if !atEnd && !utf8.FullRune(chunk) && len(chunk) < utf8.UTFMax {
				carry = append([]byte(nil), chunk...)
				i = len(combined)
				break
			}
			r, size := utf8.DecodeRune(chunk)
			if r == utf8.RuneError && size <= 1 {
				cc.Invalid++
				i++
				continue
			}
			switch size {
			case 1:
				cc.Single++
			case 2:
				cc.Double++
			case 3:
				cc.Triple++
			case 4:
				cc.Quad++
			}
			i += size
		}

		if rerr != nil && rerr != io.EOF {
			return cc, rerr
		}
		if atEnd {
			cc.Invalid += int64(len(carry))
			carry = nil
			break
		}
	}
	return cc, nil
}

type byteOrder interface {
	Uint16([]byte) uint16
	Uint32([]byte) uint32
}

func countUTF16(r Reader, start, end int64, bom BOM, order byteOrder) (CharacterCounts, error) {
	cc := CharacterCounts{BOM: bom}
	var carry []byte
	buf := make([]byte, windowSize)

	for off := start; off < end || len(carry) > 0; {
		want := windowSize
		if remaining := end - off; int64(want) > remaining {
			want = int(remaining)
		}
		var n int
		var rerr error
		if want > 0 {
			n, rerr = r.ReadAt(buf[:want], off)
		} else {
			rerr = io.EOF
		}
		off += int64(n)
		atEnd := rerr != nil || off >= end

		combined := append(carry, buf[:n]...)
		carry = nil

		i := 0
		for i+2 <= len(combined) {
			u := order.Uint16(combined[i : i+2])
			switch {
			case u >= 0xD800 && u <= 0xDBFF: // high surrogate
				if i+4 <= len(combined) {
					low := order.Uint16(combined[i+2 : i+4])
					if low >= 0xDC00 && low <= 0xDFFF {
						cc.Quad++
						i += 4
						continue
					}
					cc.Invalid += 2
					i += 2
					continue
				}
				if !atEnd {
					carry = append([]byte(nil), combined[i:]...)
					i = len(combined)
				} else {
					cc.Invalid += int64(len(combined) - i)
					i = len(combined)
				}
			case u >= 0xDC00 && u <= 0xDFFF: // lone low surrogate
				cc.Invalid += 2
				i += 2
			default:
				cc.Double++
				i += 2
			}
		}
		if i < len(combined) {
			if !atEnd {
				carry = append(carry, combined[i:]...)
			} else {
				cc.Invalid += int64(len(combined) - i)
			}
		}

		if rerr != nil && rerr != io.EOF {
			return cc, rerr
		}
		if atEnd {
			break
		}
	}
	return cc, nil
}

func countUTF32(r Reader, start, end int64, bom BOM, order byteOrder) (CharacterCounts, error) {
	cc := CharacterCounts{BOM: bom}
	var carry []byte
	buf := make([]byte, windowSize)

	for off := start; off < end || len(carry) > 0; {
		want := windowSize
		if remaining := end - off; int64(want) > remaining {
			want = int(remaining)
		}
		var n int
		var rerr error
		if want > 0 {
			n, rerr = r.ReadAt(buf[:want], off)
		} else {
			rerr = io.EOF
		}
		off += int64(n)
		atEnd := rerr != nil || off >= end

		combined := append(carry, buf[:n]...)
		carry = nil

		i := 0
		for i+4 <= len(combined) {
			cp := order.Uint32(combined[i : i+4])
			if cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
				cc.Invalid += 4
			} else {
				cc.Quad++
			}
			i += 4
		}
		if i < len(combined) {
			if !atEnd {
				carry = append(carry, combined[i:]...)
			} else {
				cc.Invalid += int64(len(combined) - i)
			}
		}

		if rerr != nil && rerr != io.EOF {
			return cc, rerr
		}
		if atEnd {
			break
		}
	}
	return cc, nil
}
