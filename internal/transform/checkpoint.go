package transform

import (
	"io"
	"os"
	"sync"
)

// Checkpoint is a stable, on-disk copy of a byte range taken before a
// transform is applied to a non-contiguous span. Unlike an in-memory
// rope snapshot it survives independently of further edits to the
// live session; it is destroyed explicitly, LIFO, by Manager.DestroyLast.
type Checkpoint struct {
	SpillPath string
	Lower     int64
	Upper     int64
	// Serial is the ChangeLog's applied-change count at the moment the
	// checkpoint was taken. Destroying the checkpoint reverts the log
	// (and the Segment Map snapshot at the same index) to this count.
	Serial int64
}

// Size returns the byte length of the checkpointed range.
func (c *Checkpoint) Size() int64 {
	return c.Upper - c.Lower
}

// Manager holds an ordered stack of Checkpoints spilled to temp files
// under dir. Destruction is always LIFO: the most recently created
// checkpoint is the first destroyed, mirroring omega_edit's
// destroy_last_checkpoint.
//
// Grounded on internal/engine/tracking.SnapshotManager, which keeps
// named in-memory rope snapshots behind a mutex and supports
// create/get/delete/prune by name. This manager drops the by-name
// lookup (checkpoints here are anonymous and stack-ordered) and spills
// payloads to disk instead of cloning a rope, since a checkpoint must
// remain readable after the live session's segment map has moved on.
type Manager struct {
	mu    sync.Mutex
	dir   string
	stack []*Checkpoint
}

// NewManager returns a Manager that spills checkpoint payloads under
// dir. The directory must already exist.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Create reads all of data, spills it to a new temp file under the
// manager's directory, and pushes a Checkpoint describing [lower,
// upper) onto the stack.
func (m *Manager) Create(serial, lower, upper int64, data io.Reader) (*Checkpoint, error) {
	if lower < 0 || upper < lower {
		return nil, ErrInvalidRange
	}

	f, err := os.CreateTemp(m.dir, "checkpoint-*.spill")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(f.Name())
		return nil, err
	}

	cp := &Checkpoint{
		SpillPath: f.Name(),
		Lower:     lower,
		Upper:     upper,
		Serial:    serial,
	}

	m.mu.Lock()
	m.stack = append(m.stack, cp)
	m.mu.Unlock()

	return cp, nil
}

// DestroyLast removes the most recently created checkpoint, deleting
// its spill file. It returns ErrNoCheckpoints if the stack is empty.
func (m *Manager) DestroyLast() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.stack)
	if n == 0 {
		return ErrNoCheckpoints
	}
	cp := m.stack[n-1]
	m.stack = m.stack[:n-1]

	return os.Remove(cp.SpillPath)
}

// Count returns the number of live checkpoints.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

// Last returns the most recently created checkpoint without removing
// it, and false if the stack is empty.
func (m *Manager) Last() (*Checkpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.stack)
	if n == 0 {
		return nil, false
	}
	return m.stack[n-1], true
}

// Clear destroys every checkpoint, best-effort: it attempts to remove
// every spill file and returns the last error encountered, if any.
func (m *Manager) Clear() error {
	m.mu.Lock()
	stack := m.stack
	m.stack = nil
	m.mu.Unlock()

	var lastErr error
	for _, cp := range stack {
		if err := os.Remove(cp.SpillPath); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}

// Dir returns the directory new checkpoints are spilled under.
func (m *Manager) Dir() string {
	return m.dir
}
