package saver

import "errors"

// ErrOriginalModified is returned by Save/SaveSegment with SaveFlags ==
// Overwrite when the target path is the backing file and its size or
// modification time has changed since the session opened it.
var ErrOriginalModified = errors.New("saver: backing file modified externally")

// ErrInvalidRange is returned when start/length fall outside the
// source's length.
var ErrInvalidRange = errors.New("saver: invalid range")

// ErrLockTimeout is returned when the advisory lock on the backing
// file could not be acquired before the configured timeout.
var ErrLockTimeout = errors.New("saver: lock timeout")
