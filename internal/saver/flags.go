package saver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Flags selects how Save/SaveSegment handle an existing file at the
// target path.
type Flags int

const (
	// None never overwrites: if path exists, a free sibling path is
	// chosen by appending "-1", "-2", … before the extension.
	None Flags = iota
	// Overwrite replaces path, but fails with ErrOriginalModified if
	// path is the backing file and it changed since the session opened
	// it.
	Overwrite
	// ForceOverwrite always replaces path, skipping the modification
	// check.
	ForceOverwrite
)

// String renders the flag the way it appears in error messages.
func (f Flags) String() string {
	switch f {
	case None:
		return "None"
	case Overwrite:
		return "Overwrite"
	case ForceOverwrite:
		return "ForceOverwrite"
	default:
		return fmt.Sprintf("Flags(%d)", int(f))
	}
}

// freeSiblingPath returns path unchanged if it doesn't exist, otherwise
// the first path-1, path-2, … (inserted before the extension) that
// doesn't exist.
func freeSiblingPath(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
		if i >= maxSiblingAttempts {
			return "", fmt.Errorf("saver: exhausted %d sibling path attempts for %q", maxSiblingAttempts, path)
		}
	}
}

const maxSiblingAttempts = 100000
