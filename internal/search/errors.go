package search

import "errors"

// ErrEmptyPattern is returned when NewContext is given a zero-length pattern.
var ErrEmptyPattern = errors.New("search: pattern must not be empty")

// ErrPatternTooLong is returned when the pattern exceeds MaxPatternLength.
var ErrPatternTooLong = errors.New("search: pattern exceeds maximum length")

// ErrInvalidRange is returned when the requested search range is invalid.
var ErrInvalidRange = errors.New("search: invalid range")
