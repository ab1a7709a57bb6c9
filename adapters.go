package omegaedit

import "io"

// sessionReader adapts Session.readAt to the plain ReadAt-only Reader
// shape internal/search and internal/profile expect. Callers must hold
// s.mu for the adapter's lifetime — it does no locking of its own.
type sessionReader struct{ s *Session }

func (r sessionReader) ReadAt(p []byte, off int64) (int, error) { return r.s.readAt(p, off) }

// sessionSource additionally reports Len, the shape internal/saver
// wants. Same locking requirement as sessionReader.
type sessionSource struct{ s *Session }

func (r sessionSource) Len() int64                             { return r.s.segs.Len() }
func (r sessionSource) ReadAt(p []byte, off int64) (int, error) { return r.s.readAt(p, off) }

// memTarget is an in-memory internal/transform.Target over a byte
// slice already materialized by Session.readRange — used so
// ApplyTransform can reuse the windowed per-byte walk in
// internal/transform rather than re-deriving it, even though the
// source is fully in memory by the time a transform runs.
type memTarget []byte

func (t memTarget) Len() int64 { return int64(len(t)) }

func (t memTarget) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(t)) {
		return 0, io.EOF
	}
	n := copy(p, t[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (t memTarget) Overwrite(off int64, data []byte) error {
	copy(t[off:], data)
	return nil
}
