// Package saver streams a logical byte range out to a file, choosing a
// free sibling path, refusing to clobber an externally-modified backing
// file, or forcing the replacement, per the three SaveFlags.
//
// The advisory lock used while checking and replacing the backing file
// is grounded on calvinalkan/agent-task's lock.go (acquireLockWithTimeout:
// a sibling ".lock" file, non-blocking Flock retried with a fixed
// interval until a timeout), translated to golang.org/x/sys/unix.Flock.
// The atomic replace itself is grounded on the same file's
// atomic.WriteFile(path, reader) call, also used by cache_binary.go's
// persistence path.
package saver
