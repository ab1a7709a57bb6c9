package profile

// BOM identifies a detected byte-order mark.
type BOM int

const (
	NoBOM BOM = iota
	UTF8
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
)

func (b BOM) String() string {
	switch b {
	case UTF8:
		return "UTF8"
	case UTF16LE:
		return "UTF16LE"
	case UTF16BE:
		return "UTF16BE"
	case UTF32LE:
		return "UTF32LE"
	case UTF32BE:
		return "UTF32BE"
	default:
		return "None"
	}
}

// DetectBOM inspects up to the first 4 bytes of leading and returns
// the BOM scheme they identify, per SPEC_FULL.md §4.7. The 4-byte
// patterns (UTF-32) are checked before the 2-byte ones (UTF-16) since
// a UTF-32LE BOM (FF FE 00 00) is a superset of the UTF-16LE BOM
// (FF FE).
func DetectBOM(leading []byte) BOM {
	if len(leading) >= 4 {
		switch {
		case leading[0] == 0xFF && leading[1] == 0xFE && leading[2] == 0x00 && leading[3] == 0x00:
			return UTF32LE
		case leading[0] == 0x00 && leading[1] == 0x00 && leading[2] == 0xFE && leading[3] == 0xFF:
			return UTF32BE
		}
	}
	if len(leading) >= 3 && leading[0] == 0xEF && leading[1] == 0xBB && leading[2] == 0xBF {
		return UTF8
	}
	if len(leading) >= 2 {
		switch {
		case leading[0] == 0xFF && leading[1] == 0xFE:
			return UTF16LE
		case leading[0] == 0xFE && leading[1] == 0xFF:
			return UTF16BE
		}
	}
	return NoBOM
}
