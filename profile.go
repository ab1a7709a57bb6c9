package omegaedit

import (
	"io"

	"github.com/omegaedit/core/internal/profile"
)

// BOM identifies a detected byte-order mark.
type BOM = profile.BOM

const (
	NoBOM   = profile.NoBOM
	UTF8    = profile.UTF8
	UTF16LE = profile.UTF16LE
	UTF16BE = profile.UTF16BE
	UTF32LE = profile.UTF32LE
	UTF32BE = profile.UTF32BE
)

// CharacterCounts buckets a range's codepoints by encoded byte width.
type CharacterCounts = profile.CharacterCounts

// Profile returns the byte-frequency histogram of [start, end). end ==
// 0 means "through the current end of file."
func (s *Session) Profile(start, end int64) ([256]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if end == 0 {
		end = s.segs.Len()
	}
	if start < 0 || end < start || end > s.segs.Len() {
		return [256]int64{}, s.setLastErr(newError(RangeError, "profile range out of bounds"))
	}
	freq, err := profile.ByteFrequencyProfile(sessionReader{s}, start, end)
	if err != nil {
		return freq, s.setLastErr(wrapError(IoError, "profile", err))
	}
	return freq, nil
}

// DetectBOM inspects the first bytes of the logical file and reports
// the byte-order mark they identify, if any.
func (s *Session) DetectBOM() (BOM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.segs.Len()
	if n > 4 {
		n = 4
	}
	if n == 0 {
		return NoBOM, nil
	}
	buf := make([]byte, n)
	if _, err := s.readAt(buf, 0); err != nil && err != io.EOF {
		return NoBOM, s.setLastErr(wrapError(IoError, "detect BOM", err))
	}
	return profile.DetectBOM(buf), nil
}

// CharacterCounts classifies [start, end) by codepoint byte width
// according to bom. end == 0 means "through the current end of file."
func (s *Session) CharacterCounts(start, end int64, bom BOM) (CharacterCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if end == 0 {
		end = s.segs.Len()
	}
	if start < 0 || end < start || end > s.segs.Len() {
		return CharacterCounts{}, s.setLastErr(newError(RangeError, "character count range out of bounds"))
	}
	cc, err := profile.ComputeCharacterCounts(sessionReader{s}, start, end, bom)
	if err != nil {
		return cc, s.setLastErr(wrapError(IoError, "character counts", err))
	}
	return cc, nil
}
