package omegaedit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/omegaedit/core/internal/bytesource"
	"github.com/omegaedit/core/internal/changelog"
	"github.com/omegaedit/core/internal/config"
	"github.com/omegaedit/core/internal/events"
	"github.com/omegaedit/core/internal/saver"
	"github.com/omegaedit/core/internal/segment"
	"github.com/omegaedit/core/internal/transform"
)

// Session owns one logical file: the Segment Map indexing it, the
// ChangeLog of edits applied to it, the backing file (if any) it reads
// pristine bytes from, and the event dispatcher, checkpoints, and
// viewports hung off it. All exported methods lock an internal mutex,
// so a Session is safe for concurrent use the way Go's stdlib
// containers are not — but per SPEC_FULL.md §5, it is designed for
// single-threaded cooperative use, not for high-contention concurrent
// editing.
type Session struct {
	mu sync.Mutex

	backing     bytesource.Source
	backingInfo *saver.BackingInfo

	log          *changelog.Log
	segs         *segment.Map
	mapSnapshots []segment.Snapshot

	dispatcher  *events.Dispatcher
	viewports   []*Viewport
	checkpoints *transform.Manager
	sv          *saver.Saver

	cfg       config.Config
	cancelled bool
	lastErr   error
	closed    bool
}

// New opens an empty session (no backing file).
func New(opts ...Option) (*Session, error) {
	return newSession(opts...)
}

// Open opens path read-only as a session's backing file, equivalent to
// New(append([]Option{WithBackingFile(path)}, opts...)...).
func Open(path string, opts ...Option) (*Session, error) {
	return newSession(append([]Option{WithBackingFile(path)}, opts...)...)
}

func newSession(opts ...Option) (*Session, error) {
	o := &sessionOptions{cfg: config.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var src bytesource.Source = bytesource.Empty{}
	var backingInfo *saver.BackingInfo
	if o.path != "" {
		var err error
		src, err = bytesource.Open(o.path)
		if err != nil {
			return nil, fmt.Errorf("omegaedit: opening backing file: %w", err)
		}
		if info, statErr := os.Stat(o.path); statErr == nil {
			backingInfo = &saver.BackingInfo{Path: o.path, Size: info.Size(), ModTime: info.ModTime()}
		}
	}

	segs := segment.NewWithBackingSize(src.Len())

	s := &Session{
		backing:      src,
		backingInfo:  backingInfo,
		log:          changelog.New(),
		segs:         segs,
		mapSnapshots: []segment.Snapshot{segs.Snapshot()},
		dispatcher:   events.New(),
		checkpoints:  transform.NewManager(o.cfg.CheckpointDir),
		sv:           saver.New(),
		cfg:          o.cfg,
	}

	for _, sub := range o.subs {
		cb := sub.cb
		s.dispatcher.Subscribe(sub.mask, func(kind events.Kind, evt any) { cb(kind, evt) })
	}

	s.dispatcher.Dispatch(events.Create, CreateEvent{Size: s.segs.Len()})
	return s, nil
}

// Close releases the backing file's mmap and destroys every remaining
// checkpoint. It does not destroy viewports or search contexts — those
// become stale and must not be used afterward.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.checkpoints.Clear()
	s.dispatcher.Dispatch(events.Destroy, nil)
	return s.backing.Close()
}

func (s *Session) setLastErr(err error) error {
	if err != nil {
		s.lastErr = err
	}
	return err
}

// LastError returns the most recent error any verb on this session
// returned, or nil if none has.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Cancel sets the session's cancel flag. ApplyTransform checks the flag
// before it starts work and returns a Cancelled error while it is set;
// the flag is never cleared. Cancel takes the session lock, so it does
// not interrupt a transform already running, and search and save do not
// check the flag.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

func (s *Session) cancelRequested() bool {
	return s.cancelled
}

func (s *Session) checkReentrancy() error {
	if s.dispatcher.IsDispatching() {
		return s.setLastErr(newError(ReentrancyError, "session mutated from within a callback"))
	}
	return nil
}

// Size returns the logical file length L.
func (s *Session) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.segs.Len()
}

// NumChanges returns the number of currently applied (not undone) changes.
func (s *Session) NumChanges() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.NumChanges()
}

// NumUndone returns the number of undone-but-retained changes Redo can restore.
func (s *Session) NumUndone() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.NumUndone()
}

// Change mirrors one ChangeLog entry, reported without naming
// internal/changelog in this package's public surface.
type Change struct {
	Serial int64
	Kind   EditKind
	Offset int64
	Length int64
}

// GetChange returns the recorded change with the given serial, whether
// or not it is currently undone.
func (s *Session) GetChange(serial int64) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.log.GetChange(serial)
	if err != nil {
		return Change{}, s.setLastErr(wrapChangelogErr(err))
	}
	return Change{Serial: c.Serial, Kind: editKindOf(c.Kind), Offset: c.LogicalOffset, Length: c.Length}, nil
}

func editKindOf(k changelog.Kind) EditKind {
	switch k {
	case changelog.KindInsert:
		return EditInsert
	case changelog.KindOverwrite:
		return EditOverwrite
	default:
		return EditDelete
	}
}

// Read returns up to length logical bytes starting at offset,
// truncated if the range runs past the end of the file.
func (s *Session) Read(offset, length int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRange(offset, length)
}

func (s *Session) readRange(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset > s.segs.Len() {
		return nil, s.setLastErr(newError(RangeError, "read range out of bounds"))
	}
	end := offset + length
	if end > s.segs.Len() {
		end = s.segs.Len()
	}
	buf := make([]byte, end-offset)
	n, err := s.readAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, s.setLastErr(wrapError(IoError, "read", err))
	}
	return buf[:n], nil
}

// readAt is the shared byte-materialization backbone: it walks the
// Segment Map over [off, off+len(p)) and pulls bytes from either the
// ByteSource (Backing segments) or the ChangeLog (Change segments).
// Every component that needs to see the logical file — Read, search,
// profile, transform, save — goes through this or the adapters in
// adapters.go that call it.
func (s *Session) readAt(p []byte, off int64) (int, error) {
	want := int64(len(p))
	if want == 0 {
		return 0, nil
	}
	end := off + want
	if end > s.segs.Len() {
		end = s.segs.Len()
	}
	if end <= off {
		if off >= s.segs.Len() {
			return 0, io.EOF
		}
		return 0, nil
	}

	var total int64
	var readErr error
	s.segs.Walk(off, end, func(logicalStart int64, seg segment.Segment) {
		if readErr != nil {
			return
		}
		segEnd := logicalStart + seg.Length
		clipStart := logicalStart
		if clipStart < off {
			clipStart = off
		}
		clipEnd := segEnd
		if clipEnd > end {
			clipEnd = end
		}
		if clipEnd <= clipStart {
			return
		}
		n := clipEnd - clipStart
		within := clipStart - logicalStart
		dst := p[clipStart-off : clipEnd-off]

		switch seg.Src.Kind {
		case segment.SourceBacking:
			if _, err := s.backing.ReadAt(dst, seg.Src.FileOffset+within); err != nil && err != io.EOF {
				readErr = err
				return
			}
		case segment.SourceChange:
			data, err := s.log.BytesAt(seg.Src.ChangeSerial, seg.Src.PayloadOffset+within, n)
			if err != nil {
				readErr = err
				return
			}
			copy(dst, data)
		}
		total += n
	})
	if readErr != nil {
		return int(total), readErr
	}
	if total < want || end < off+want {
		return int(total), io.EOF
	}
	return int(total), nil
}

// truncateSnapshotsToSplit discards any Segment Map snapshots beyond
// the ChangeLog's current applied count, mirroring the redo-tail
// truncation Append is about to perform on the log itself, so
// mapSnapshots[k] always means "Segment Map state after k applied
// changes."
func (s *Session) truncateSnapshotsToSplit() {
	n := s.log.NumChanges()
	if int64(len(s.mapSnapshots)) > n+1 {
		s.mapSnapshots = s.mapSnapshots[:n+1]
	}
}

// InsertBytes splices data into the logical file at offset, which must
// be in [0, Size()]. Returns the change's serial.
func (s *Session) InsertBytes(offset int64, data []byte) (int64, error) {
	if err := s.checkReentrancy(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, s.setLastErr(newError(TransactionState, "session closed"))
	}
	if offset < 0 || offset > s.segs.Len() {
		return 0, s.setLastErr(newError(RangeError, "insert offset out of range"))
	}

	s.truncateSnapshotsToSplit()
	serial, err := s.log.Append(changelog.KindInsert, offset, int64(len(data)), data, s.segs.Len())
	if err != nil {
		return 0, s.setLastErr(wrapChangelogErr(err))
	}
	if err := s.segs.Insert(offset, int64(len(data)), serial, 0); err != nil {
		return 0, s.setLastErr(wrapSegmentErr(err))
	}
	s.mapSnapshots = append(s.mapSnapshots, s.segs.Snapshot())

	s.notifyViewportsForEdit(offset, int64(len(data)), changelog.KindInsert)
	s.dispatcher.Dispatch(events.Edit, EditEvent{Offset: offset, Length: int64(len(data)), Kind: EditInsert, Serial: serial})
	return serial, nil
}

// OverwriteBytes replaces len(data) bytes starting at offset. If
// offset+len(data) exceeds Size(), the request is split: the in-bounds
// prefix overwrites existing segments and the remainder is appended as
// an insert, so the file extends rather than rejecting the call — the
// "extend" resolution of SPEC_FULL.md's overwrite-past-EOF Open
// Question. Both halves share one change serial.
func (s *Session) OverwriteBytes(offset int64, data []byte) (int64, error) {
	if err := s.checkReentrancy(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, s.setLastErr(newError(TransactionState, "session closed"))
	}
	L := s.segs.Len()
	if offset < 0 || offset > L {
		return 0, s.setLastErr(newError(RangeError, "overwrite offset out of range"))
	}

	s.truncateSnapshotsToSplit()
	total := int64(len(data))
	serial, err := s.log.Append(changelog.KindOverwrite, offset, total, data, L)
	if err != nil {
		return 0, s.setLastErr(wrapChangelogErr(err))
	}

	inBounds := total
	if offset+inBounds > L {
		inBounds = L - offset
	}
	extend := total - inBounds

	if inBounds > 0 {
		if err := s.segs.Overwrite(offset, inBounds, serial, 0); err != nil {
			return 0, s.setLastErr(wrapSegmentErr(err))
		}
	}
	if extend > 0 {
		if err := s.segs.Insert(offset+inBounds, extend, serial, inBounds); err != nil {
			return 0, s.setLastErr(wrapSegmentErr(err))
		}
	}
	s.mapSnapshots = append(s.mapSnapshots, s.segs.Snapshot())

	if inBounds > 0 {
		s.notifyViewportsForEdit(offset, inBounds, changelog.KindOverwrite)
	}
	if extend > 0 {
		s.notifyViewportsForEdit(offset+inBounds, extend, changelog.KindInsert)
	}
	s.dispatcher.Dispatch(events.Edit, EditEvent{Offset: offset, Length: total, Kind: EditOverwrite, Serial: serial})
	return serial, nil
}

// Delete removes length bytes starting at offset. offset+length must
// not exceed Size().
func (s *Session) Delete(offset, length int64) (int64, error) {
	if err := s.checkReentrancy(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, s.setLastErr(newError(TransactionState, "session closed"))
	}
	if offset < 0 || length < 0 || offset+length > s.segs.Len() {
		return 0, s.setLastErr(newError(RangeError, "delete range out of bounds"))
	}
	if length == 0 {
		return 0, nil
	}

	s.truncateSnapshotsToSplit()
	serial, err := s.log.Append(changelog.KindDelete, offset, length, nil, s.segs.Len())
	if err != nil {
		return 0, s.setLastErr(wrapChangelogErr(err))
	}
	if err := s.segs.Delete(offset, length); err != nil {
		return 0, s.setLastErr(wrapSegmentErr(err))
	}
	s.mapSnapshots = append(s.mapSnapshots, s.segs.Snapshot())

	s.notifyViewportsForEdit(offset, length, changelog.KindDelete)
	s.dispatcher.Dispatch(events.Edit, EditEvent{Offset: offset, Length: length, Kind: EditDelete, Serial: serial})
	return serial, nil
}

// BeginTransaction opens a transaction: subsequent edits share one undo
// step until EndTransaction.
func (s *Session) BeginTransaction() error {
	if err := s.checkReentrancy(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.log.BeginTransaction(); err != nil {
		return s.setLastErr(wrapChangelogErr(err))
	}
	return nil
}

// EndTransaction closes a transaction opened by BeginTransaction.
func (s *Session) EndTransaction() error {
	if err := s.checkReentrancy(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.log.EndTransaction(); err != nil {
		return s.setLastErr(wrapChangelogErr(err))
	}
	return nil
}

// Undo reverts the most recent transaction, returning the negative of
// its highest serial, or 0 if there was nothing to undo.
func (s *Session) Undo() (int64, error) {
	if err := s.checkReentrancy(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.log.CanUndo() {
		return 0, nil
	}

	oldSplit := s.log.NumChanges()
	ret := s.log.Undo()
	newSplit := s.log.NumChanges()
	s.segs.Restore(s.mapSnapshots[newSplit])

	for i := oldSplit - 1; i >= newSplit; i-- {
		c, err := s.log.GetChange(i + 1)
		if err == nil {
			s.notifyViewportsForInverse(c)
		}
	}

	s.dispatcher.Dispatch(events.Undo, UndoEvent{Serial: ret})
	return ret, nil
}

// Redo re-applies the next undone transaction, returning its highest
// serial, or 0 if there was nothing to redo.
func (s *Session) Redo() (int64, error) {
	if err := s.checkReentrancy(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.log.CanRedo() {
		return 0, nil
	}

	oldSplit := s.log.NumChanges()
	ret := s.log.Redo()
	newSplit := s.log.NumChanges()
	s.segs.Restore(s.mapSnapshots[newSplit])

	for i := oldSplit; i < newSplit; i++ {
		c, err := s.log.GetChange(i + 1)
		if err == nil {
			s.notifyViewportsForEdit(c.LogicalOffset, c.Length, c.Kind)
		}
	}

	s.dispatcher.Dispatch(events.Redo, RedoEvent{Serial: ret})
	return ret, nil
}

func wrapChangelogErr(err error) error {
	switch {
	case errors.Is(err, changelog.ErrRange):
		return newError(RangeError, "invalid change range")
	case errors.Is(err, changelog.ErrTransactionOpen), errors.Is(err, changelog.ErrTransactionClosed):
		return newError(TransactionState, err.Error())
	case errors.Is(err, changelog.ErrSerialNotFound):
		return newError(RangeError, "unknown change serial")
	default:
		return wrapError(IoError, "changelog", err)
	}
}

func wrapSegmentErr(err error) error {
	if errors.Is(err, segment.ErrRange) {
		return newError(RangeError, "invalid segment range")
	}
	return wrapError(IoError, "segment map", err)
}
