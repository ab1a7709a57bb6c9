package saver

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// lockTimeout is the default deadline for acquireLock.
const lockTimeout = 5 * time.Second

const lockRetryInterval = 10 * time.Millisecond

// fileLock is an advisory exclusive lock held via a sibling ".lock"
// file, since flock(2) locks the open file descriptor, not the target
// path itself, and we don't want to lock the backing file's own fd
// while it may still be mmapped read-only.
type fileLock struct {
	file *os.File
}

// acquireLock opens (creating if needed) path+".lock" and retries a
// non-blocking exclusive flock until it succeeds or timeout elapses.
func acquireLock(path string, timeout time.Duration) (*fileLock, error) {
	lockPath := path + ".lock"

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("saver: opening lock file %q: %w", lockPath, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &fileLock{file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}

		time.Sleep(lockRetryInterval)
	}
}

func (l *fileLock) release() {
	if l.file == nil {
		return
	}
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}
