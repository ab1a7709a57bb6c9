package transform

import "errors"

// ErrNoCheckpoints is returned by DestroyLast when the checkpoint
// stack is empty.
var ErrNoCheckpoints = errors.New("transform: no checkpoints to destroy")

// ErrInvalidRange is returned when a transform or checkpoint range is
// malformed (negative offset, length, or out of bounds).
var ErrInvalidRange = errors.New("transform: invalid range")
