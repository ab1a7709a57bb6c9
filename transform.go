package omegaedit

import (
	"io"

	"github.com/omegaedit/core/internal/changelog"
	"github.com/omegaedit/core/internal/events"
	"github.com/omegaedit/core/internal/segment"
	"github.com/omegaedit/core/internal/transform"
)

// ByteTransform is applied to each byte of a range by ApplyTransform.
type ByteTransform = transform.ByteFn

// RotateBitsLeft returns a ByteTransform that circularly rotates each
// byte's bits left by n, per the rotate.cpp example's byte-rotation
// exercise.
func RotateBitsLeft(n uint) ByteTransform { return transform.ShiftBufferLeft(n) }

// RotateBitsRight returns a ByteTransform that circularly rotates each
// byte's bits right by n.
func RotateBitsRight(n uint) ByteTransform { return transform.ShiftBufferRight(n) }

// ApplyTransform applies fn to every byte of [offset, offset+length),
// materializing the result as a single overwrite change. If the range
// is not entirely pristine backing-file bytes (it overlaps a prior
// change), a checkpoint spilling the range's current bytes is created
// first as a stable read base — SPEC_FULL.md §4.4's "otherwise the
// transform creates a checkpoint." The checkpoint is left for the
// caller to manage via NumCheckpoints/DestroyLastCheckpoint; it is not
// destroyed automatically.
func (s *Session) ApplyTransform(offset, length int64, fn ByteTransform) (int64, error) {
	if err := s.checkReentrancy(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, s.setLastErr(newError(TransactionState, "session closed"))
	}
	if offset < 0 || length < 0 || offset+length > s.segs.Len() {
		return 0, s.setLastErr(newError(RangeError, "transform range out of bounds"))
	}
	if length == 0 {
		return 0, nil
	}
	if s.cancelRequested() {
		return 0, s.setLastErr(newError(Cancelled, "transform cancelled before starting"))
	}

	if !s.rangeIsPristineBacking(offset, length) {
		if _, err := s.checkpoints.Create(s.log.NumChanges(), offset, offset+length, &rangeReadSeeker{s: s, off: offset, length: length}); err != nil {
			return 0, s.setLastErr(wrapError(IoError, "checkpoint", err))
		}
	}

	s.notifyViewportsForTransformEdge(offset, length, events.ViewportTransformStart, ViewportTransformEvent{Offset: offset, Length: length})

	buf, err := s.readRangeLocked(offset, length)
	if err != nil {
		return 0, s.setLastErr(wrapError(IoError, "transform read", err))
	}
	if err := transform.ApplyByteTransform(memTarget(buf), fn, 0, int64(len(buf))); err != nil {
		return 0, s.setLastErr(wrapError(IoError, "transform apply", err))
	}

	s.truncateSnapshotsToSplit()
	serial, err := s.log.Append(changelog.KindOverwrite, offset, length, buf, s.segs.Len())
	if err != nil {
		return 0, s.setLastErr(wrapChangelogErr(err))
	}
	if err := s.segs.Overwrite(offset, length, serial, 0); err != nil {
		return 0, s.setLastErr(wrapSegmentErr(err))
	}
	s.mapSnapshots = append(s.mapSnapshots, s.segs.Snapshot())

	s.notifyViewportsForEdit(offset, length, changelog.KindOverwrite)
	s.notifyViewportsForTransformEdge(offset, length, events.ViewportTransformEnd, ViewportTransformEvent{Offset: offset, Length: length})
	s.dispatcher.Dispatch(events.Transform, TransformEvent{Offset: offset, Length: length, Serial: serial})
	return serial, nil
}

func (s *Session) notifyViewportsForTransformEdge(offset, length int64, kind events.Kind, evt ViewportTransformEvent) {
	for _, vp := range s.viewports {
		if vp == nil || vp.state == ViewportDestroyed {
			continue
		}
		end := vp.offset + vp.length
		if offset < end && offset+length > vp.offset {
			vp.dispatch(kind, evt)
		}
	}
}

// rangeIsPristineBacking reports whether every segment covering
// [offset, offset+length) still points at the backing file — i.e. the
// range has never been touched by an edit.
func (s *Session) rangeIsPristineBacking(offset, length int64) bool {
	pristine := true
	s.segs.Walk(offset, offset+length, func(_ int64, seg segment.Segment) {
		if seg.Src.Kind != segment.SourceBacking {
			pristine = false
		}
	})
	return pristine
}

// readRangeLocked is readRange without re-locking, for callers that
// already hold s.mu.
func (s *Session) readRangeLocked(offset, length int64) ([]byte, error) {
	buf := make([]byte, length)
	n, err := s.readAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// NumCheckpoints returns the number of checkpoints currently held open,
// most recent last-destroyable first.
func (s *Session) NumCheckpoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoints.Count()
}

// DestroyLastCheckpoint pops and removes the most recently created
// checkpoint still open, and reverts the ChangeLog and Segment Map to
// the state they were in when that checkpoint was taken. A checkpoint
// is the caller's only stable read base for everything edited after it
// was created, so destroying it discards those edits for good rather
// than leaving them applied with no way to reproduce the checkpoint's
// bytes (omega_edit's destroy_last_checkpoint behaves the same way).
func (s *Session) DestroyLastCheckpoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.checkpoints.Last()
	if !ok {
		return s.setLastErr(wrapError(IoError, "checkpoint", transform.ErrNoCheckpoints))
	}

	s.log.TruncateToSerial(cp.Serial)
	if int64(len(s.mapSnapshots)) > cp.Serial+1 {
		s.mapSnapshots = s.mapSnapshots[:cp.Serial+1]
	}
	s.segs.Restore(s.mapSnapshots[cp.Serial])

	if err := s.checkpoints.DestroyLast(); err != nil {
		return s.setLastErr(wrapError(IoError, "checkpoint", err))
	}
	return nil
}

// rangeReadSeeker adapts Session.readAt to io.Reader for
// transform.Manager.Create, which spills a checkpoint's bytes by
// reading them once from an io.Reader.
type rangeReadSeeker struct {
	s      *Session
	off    int64
	length int64
	read   int64
}

func (r *rangeReadSeeker) Read(p []byte) (int, error) {
	if r.read >= r.length {
		return 0, io.EOF
	}
	want := int64(len(p))
	if remaining := r.length - r.read; want > remaining {
		want = remaining
	}
	n, err := r.s.readAt(p[:want], r.off+r.read)
	r.read += int64(n)
	if err != nil && err != io.EOF {
		return n, err
	}
	if r.read >= r.length {
		return n, io.EOF
	}
	return n, nil
}
