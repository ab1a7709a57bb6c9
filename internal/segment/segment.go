// Package segment implements the Segment Map: a height-balanced B-tree,
// augmented with per-subtree byte-length, mapping the logical file's
// byte ranges onto either the backing file or a ChangeLog payload.
//
// The tree shape — leaf/internal nodes, split/concat, subtree-length
// augmentation for O(log n) offset lookup — is generalized from
// internal/engine/rope's B+ tree (which stores text Chunks); here each
// leaf entry is a Segment referencing a byte-range source instead of a
// literal string, per SPEC_FULL.md §3 and §4.3.
package segment

// SourceKind distinguishes where a Segment's bytes come from.
type SourceKind uint8

const (
	// SourceBacking means the bytes live in the backing file at FileOffset.
	SourceBacking SourceKind = iota
	// SourceChange means the bytes live in a ChangeLog payload.
	SourceChange
)

// Source identifies where a Segment's bytes are read from.
type Source struct {
	Kind SourceKind

	// Valid when Kind == SourceBacking.
	FileOffset int64

	// Valid when Kind == SourceChange.
	ChangeSerial  int64
	PayloadOffset int64
}

// Advance returns a Source shifted forward by n bytes, used when a
// Segment is split and the right half must start n bytes into the same
// underlying source.
func (s Source) Advance(n int64) Source {
	switch s.Kind {
	case SourceBacking:
		s.FileOffset += n
	case SourceChange:
		s.PayloadOffset += n
	}
	return s
}

// contiguousWith reports whether appending a segment whose source is
// `other` right after a segment of length `selfLen` with source `s`
// would read a byte-contiguous span of the same underlying source (the
// coalescing condition from SPEC_FULL.md §3's invariant set).
func (s Source) contiguousWith(selfLen int64, other Source) bool {
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case SourceBacking:
		return s.FileOffset+selfLen == other.FileOffset
	case SourceChange:
		return s.ChangeSerial == other.ChangeSerial && s.PayloadOffset+selfLen == other.PayloadOffset
	default:
		return false
	}
}

// Segment is a contiguous run of the logical file from one Source. Its
// position within the logical file (logical_start) is not stored on the
// Segment itself — it is implied by its position in the tree, exactly
// as a rope Chunk's position is implied by walking the tree rather than
// stored per-chunk.
type Segment struct {
	Length int64
	Src    Source
}

// IsEmpty reports whether the segment spans zero bytes.
func (s Segment) IsEmpty() bool { return s.Length <= 0 }

// Split splits the segment at byte offset `at` (0 <= at <= Length),
// returning the left part [0, at) and right part [at, Length). Either
// half may come back empty (Length == 0) at the boundaries.
func (s Segment) Split(at int64) (Segment, Segment) {
	if at <= 0 {
		return Segment{}, s
	}
	if at >= s.Length {
		return s, Segment{}
	}
	return Segment{Length: at, Src: s.Src}, Segment{Length: s.Length - at, Src: s.Src.Advance(at)}
}

// tryMerge attempts to coalesce s followed immediately by other into a
// single Segment. Returns the merged segment and true on success.
func (s Segment) tryMerge(other Segment) (Segment, bool) {
	if s.IsEmpty() {
		return other, true
	}
	if other.IsEmpty() {
		return s, true
	}
	if !s.Src.contiguousWith(s.Length, other.Src) {
		return Segment{}, false
	}
	return Segment{Length: s.Length + other.Length, Src: s.Src}, true
}

// appendCoalesced appends s to segs, merging with the trailing segment
// when the two are source-contiguous (maintaining the "adjacent
// segments never share a contiguous source" invariant).
func appendCoalesced(segs []Segment, s Segment) []Segment {
	if s.IsEmpty() {
		return segs
	}
	if n := len(segs); n > 0 {
		if merged, ok := segs[n-1].tryMerge(s); ok {
			segs[n-1] = merged
			return segs
		}
	}
	return append(segs, s)
}
