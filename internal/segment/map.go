package segment

import "errors"

// ErrRange indicates an offset or length outside the logical file.
var ErrRange = errors.New("offset or length outside logical file")

// Map is the Segment Map: the ordered index from logical offset ranges
// to either backing-file spans or change-owned byte spans.
//
// Map intentionally has no knowledge of the backing file's contents or
// the ChangeLog's payload bytes — it only ever manipulates Segment
// descriptors (length + source coordinates). Session combines Map's
// output with a ByteSource and a ChangeLog to materialize actual bytes.
type Map struct {
	root *node
}

// New creates an empty Segment Map with no backing file.
func New() *Map {
	return &Map{root: newLeafNode()}
}

// NewWithBackingSize creates a Segment Map whose single initial segment
// covers [0, size) of the backing file, per SPEC_FULL.md §3 ("Initial
// state is one segment Backing{0} covering [0, F)").
func NewWithBackingSize(size int64) *Map {
	if size <= 0 {
		return New()
	}
	seg := Segment{Length: size, Src: Source{Kind: SourceBacking, FileOffset: 0}}
	return &Map{root: newLeafNodeWithSegments([]Segment{seg})}
}

// Len returns the logical file length, L.
func (m *Map) Len() int64 { return m.root.Len() }

// Insert splices a new Segment{SourceChange{serial, payloadOffset}} of
// the given length at logical offset off. off == Len() (tail-append) is
// legal, per SPEC_FULL.md §4.3.
func (m *Map) Insert(off, length, serial, payloadOffset int64) error {
	if off < 0 || off > m.Len() {
		return ErrRange
	}
	if length <= 0 {
		return nil
	}
	left, right := m.root.split(off)
	mid := newLeafNodeWithSegments([]Segment{{
		Length: length,
		Src:    Source{Kind: SourceChange, ChangeSerial: serial, PayloadOffset: payloadOffset},
	}})
	m.root = concat(concat(left, mid), right)
	return nil
}

// Delete removes n bytes starting at logical offset off. n == 0 is a
// legal no-op per SPEC_FULL.md §4.3.
func (m *Map) Delete(off, n int64) error {
	if n == 0 {
		return nil
	}
	if off < 0 || n < 0 || off+n > m.Len() {
		return ErrRange
	}
	left, rest := m.root.split(off)
	_, right := rest.split(n)
	m.root = concat(left, right)
	return nil
}

// Overwrite replaces length bytes starting at off with a new
// Segment{SourceChange{serial, payloadOffset}} of the same length, as a
// single tree transaction (delete-then-insert is never separately
// observable). The caller must ensure off+length <= Len(): a request
// that would extend past L must be split by the caller into an
// in-bounds Overwrite prefix plus a trailing Insert, per the Open
// Question disambiguation in SPEC_FULL.md §9.
func (m *Map) Overwrite(off, length, serial, payloadOffset int64) error {
	if off < 0 || length < 0 || off+length > m.Len() {
		return ErrRange
	}
	if length == 0 {
		return nil
	}
	left, rest := m.root.split(off)
	_, right := rest.split(length)
	mid := newLeafNodeWithSegments([]Segment{{
		Length: length,
		Src:    Source{Kind: SourceChange, ChangeSerial: serial, PayloadOffset: payloadOffset},
	}})
	m.root = concat(concat(left, mid), right)
	return nil
}

// Walk visits every Segment whose range intersects [start, end), calling
// visit with the segment's logical_start and the full (unclipped)
// Segment. The caller clips logicalStart/seg.Length against start/end
// itself when it needs exact byte boundaries.
func (m *Map) Walk(start, end int64, visit func(logicalStart int64, seg Segment)) {
	if start < 0 {
		start = 0
	}
	if end > m.Len() {
		end = m.Len()
	}
	m.root.walkRange(start, end, 0, visit)
}

// snapshotRoot returns the current tree root for Snapshot. Sharing the
// root pointer is safe because nodes are immutable once built.
func (m *Map) snapshotRoot() *node { return m.root }

// Snapshot returns an opaque handle to the current tree state that can
// later be restored with Restore. Because nodes are never mutated after
// construction (every edit builds new nodes via split/concat), cloning
// is just copying the root pointer.
type Snapshot struct{ root *node }

// Snapshot captures the current Map state.
func (m *Map) Snapshot() Snapshot { return Snapshot{root: m.snapshotRoot()} }

// Restore resets the Map to a previously captured Snapshot.
func (m *Map) Restore(s Snapshot) { m.root = s.root }
