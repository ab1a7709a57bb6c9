package saver

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/atomic"
)

// chunkSize is the read chunk used while streaming a range out, per
// SPEC_FULL.md §4.9's "8 KiB chunks" streaming strategy.
const chunkSize = 8 * 1024

// Source is the logical byte range a Saver streams from. A Session
// implements this over its Segment Map: Backing{} segments delegate to
// the ByteSource, Change{} segments return their payload directly —
// Saver itself only ever sees one flat addressable range.
type Source interface {
	Len() int64
	ReadAt(p []byte, off int64) (int, error)
}

// BackingInfo is the size/mtime the session recorded when it opened
// the backing file, used to detect external modification for the
// Overwrite flag.
type BackingInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Saver streams logical ranges to output paths.
type Saver struct {
	lockTimeout time.Duration
}

// Option configures a Saver.
type Option func(*Saver)

// WithLockTimeout overrides the default 5-second advisory lock
// acquisition timeout used while checking/replacing the backing file.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Saver) { s.lockTimeout = d }
}

// New returns a Saver ready to use.
func New(opts ...Option) *Saver {
	s := &Saver{lockTimeout: lockTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes the whole of src to path under flags. backing may be nil
// if the session has no backing file (or the target path is known not
// to be it); it is only consulted for the Overwrite flag.
func (s *Saver) Save(path string, flags Flags, src Source, backing *BackingInfo) (string, error) {
	return s.SaveSegment(path, flags, src, 0, src.Len(), backing)
}

// SaveSegment writes src's [start, start+length) logical range to path
// under flags, returning the path actually written (which may differ
// from path under the None flag). See Flags for overwrite semantics.
func (s *Saver) SaveSegment(path string, flags Flags, src Source, start, length int64, backing *BackingInfo) (string, error) {
	if start < 0 || length < 0 || start+length > src.Len() {
		return "", ErrInvalidRange
	}

	switch flags {
	case None:
		free, err := freeSiblingPath(path)
		if err != nil {
			return "", err
		}
		path = free

	case Overwrite:
		if backing != nil && samePath(path, backing.Path) {
			lock, err := acquireLock(path, s.lockTimeout)
			if err != nil {
				return "", err
			}
			defer lock.release()

			modified, err := s.originalModified(backing)
			if err != nil {
				return "", err
			}
			if modified {
				return "", ErrOriginalModified
			}
		}

	case ForceOverwrite:
		// always replace, no check

	default:
		return "", ErrInvalidRange
	}

	r := &rangeReader{src: src, off: start, remaining: length}
	if err := atomic.WriteFile(path, r); err != nil {
		return "", err
	}

	return path, nil
}

func (s *Saver) originalModified(backing *BackingInfo) (bool, error) {
	info, err := os.Stat(backing.Path)
	if err != nil {
		return false, err
	}
	return info.Size() != backing.Size || !info.ModTime().Equal(backing.ModTime), nil
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// rangeReader adapts Source's ReadAt over [off, off+remaining) to a
// plain io.Reader, the shape atomic.WriteFile wants, reading chunkSize
// bytes at a time per SPEC_FULL.md §4.9's streaming strategy.
type rangeReader struct {
	src       Source
	off       int64
	remaining int64
}

func (r *rangeReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	want := int64(len(p))
	if want > chunkSize {
		want = chunkSize
	}
	if want > r.remaining {
		want = r.remaining
	}

	n, err := r.src.ReadAt(p[:want], r.off)
	r.off += int64(n)
	r.remaining -= int64(n)
	if err != nil && err != io.EOF {
		return n, err
	}
	if r.remaining <= 0 {
		return n, io.EOF
	}
	return n, nil
}
