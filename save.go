package omegaedit

import (
	"errors"

	"github.com/omegaedit/core/internal/saver"
)

// SaveFlags selects how Save/SaveSegment handle an existing file at
// the target path.
type SaveFlags = saver.Flags

const (
	// SaveNone never overwrites: if the path exists, a free sibling
	// path is chosen (path-1, path-2, … before the extension).
	SaveNone = saver.None
	// SaveOverwrite replaces the path, but fails with OriginalModified
	// if the path is the session's backing file and it changed size or
	// modification time since the session opened it.
	SaveOverwrite = saver.Overwrite
	// SaveForceOverwrite always replaces the path, skipping the
	// modification check.
	SaveForceOverwrite = saver.ForceOverwrite
)

// Save writes the whole logical file to path under flags, returning
// the path actually written (which may differ from path under
// SaveNone). See SaveFlags for overwrite semantics.
func (s *Session) Save(path string, flags SaveFlags) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.sv.Save(path, flags, sessionSource{s}, s.backingInfo)
	if err != nil {
		return "", s.setLastErr(wrapSaverErr(err))
	}
	s.dispatcher.Dispatch(EventSave, SaveEvent{Path: out})
	return out, nil
}

// SaveSegment writes the logical [start, start+length) range to path
// under flags, returning the path actually written.
func (s *Session) SaveSegment(path string, flags SaveFlags, start, length int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.sv.SaveSegment(path, flags, sessionSource{s}, start, length, s.backingInfo)
	if err != nil {
		return "", s.setLastErr(wrapSaverErr(err))
	}
	s.dispatcher.Dispatch(EventSave, SaveEvent{Path: out})
	return out, nil
}

func wrapSaverErr(err error) error {
	switch {
	case errors.Is(err, saver.ErrOriginalModified):
		return newError(OriginalModified, "backing file modified externally")
	case errors.Is(err, saver.ErrInvalidRange):
		return newError(RangeError, "invalid save range")
	case errors.Is(err, saver.ErrLockTimeout):
		return newError(IoError, "timed out acquiring backing file lock")
	default:
		return wrapError(IoError, "save", err)
	}
}
