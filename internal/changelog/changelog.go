package changelog

// Log is the append-only sequence of Changes for one session.
//
// Serial is 1-based and dense: because truncation only ever discards a
// contiguous tail (on undo-then-append, or via TruncateUndone), a
// change's serial always equals its slice index + 1. GetChange and
// BytesAt exploit that for O(1) lookup instead of a map.
//
// Grouping model: every transaction (whether opened explicitly via
// Begin/End or implicitly covering a single non-transactional Append)
// gets one transaction bit, and adjacent transactions always use
// opposite bits (the bit is flipped exactly once per transaction
// start). Undo/Redo locate the boundary of "the last/next transaction"
// by scanning backward/forward for the maximal run of changes sharing
// the tail change's bit — this is the Go realization of the design
// note in SPEC_FULL.md §9 ("a bit alternated per transaction boundary").
type Log struct {
	changes    []Change
	splitIndex int // number of changes currently applied; changes[splitIndex:] are undone but retained

	inTransaction bool
	currentBit    bool
}

// New creates an empty ChangeLog.
func New() *Log {
	return &Log{}
}

// Append validates the edit against currentLength (the logical file
// length before this change), assigns the next serial, and records the
// change. currentLength is supplied by the caller (the Session, which
// owns the authoritative logical length via the Segment Map) rather
// than tracked here, keeping the log decoupled from segment state.
//
// bytes is copied so later mutation of the caller's buffer cannot
// corrupt the log.
func (l *Log) Append(kind Kind, offset, length int64, bytes []byte, currentLength int64) (int64, error) {
	if err := validate(kind, offset, length, currentLength); err != nil {
		return 0, err
	}

	l.TruncateUndone()

	if l.inTransaction {
		// bit already set by BeginTransaction
	} else {
		l.currentBit = !l.currentBit
	}

	var payload []byte
	if len(bytes) > 0 {
		payload = make([]byte, len(bytes))
		copy(payload, bytes)
	}

	serial := int64(len(l.changes)) + 1
	change := Change{
		Serial:         serial,
		TransactionBit: l.currentBit,
		Kind:           kind,
		LogicalOffset:  offset,
		Length:         length,
		Bytes:          payload,
	}

	l.changes = append(l.changes, change)
	l.splitIndex = len(l.changes)
	return serial, nil
}

func validate(kind Kind, offset, length, currentLength int64) error {
	if offset < 0 || length < 0 {
		return ErrRange
	}
	switch kind {
	case KindInsert:
		if offset > currentLength {
			return ErrRange
		}
	case KindOverwrite:
		// Overwrite past EOF extends the file (SPEC_FULL.md Open Question
		// disambiguation): the whole overwrite is recorded here, and the
		// caller (Session.OverwriteBytes) then applies the in-bounds part
		// as a Segment Map overwrite and the remainder as a trailing
		// insert, so only offset is checked against [0, currentLength].
		if offset > currentLength {
			return ErrRange
		}
	case KindDelete:
		if offset > currentLength || offset+length > currentLength {
			return ErrRange
		}
	}
	return nil
}

// BeginTransaction opens a transaction: subsequent Appends share one
// transaction bit until EndTransaction. Nested Begin fails with
// ErrTransactionOpen.
func (l *Log) BeginTransaction() error {
	if l.inTransaction {
		return ErrTransactionOpen
	}
	l.inTransaction = true
	l.currentBit = !l.currentBit
	return nil
}

// EndTransaction closes a transaction opened by BeginTransaction.
// Ending while no transaction is open fails with ErrTransactionClosed.
func (l *Log) EndTransaction() error {
	if !l.inTransaction {
		return ErrTransactionClosed
	}
	l.inTransaction = false
	return nil
}

// InTransaction reports whether a transaction is currently open.
func (l *Log) InTransaction() bool {
	return l.inTransaction
}

// TruncateUndone discards the redo tail (changes beyond the split
// pointer). Called implicitly by Append; exposed so Session can call it
// explicitly too (e.g. before a destructive replay).
func (l *Log) TruncateUndone() {
	if l.splitIndex < len(l.changes) {
		l.changes = l.changes[:l.splitIndex]
	}
}

// TruncateToSerial irreversibly discards every change past the first n
// (both the applied tail and any retained redo tail), and moves the
// split pointer to n. Unlike Undo, which only moves the split pointer
// and keeps undone changes around for Redo, this is used when a change
// count needs to be abandoned for good — checkpoint destruction reverts
// to the serial recorded at checkpoint creation and nothing past it is
// ever redoable again.
func (l *Log) TruncateToSerial(n int64) {
	if n < 0 {
		n = 0
	}
	if n > int64(len(l.changes)) {
		n = int64(len(l.changes))
	}
	l.changes = l.changes[:n]
	l.splitIndex = int(n)
	l.inTransaction = false
}

// Undo moves the split pointer backward over the last transaction,
// returning the negative of that transaction's highest serial, or 0 if
// there is nothing to undo. The undone changes remain in the log for
// Redo.
func (l *Log) Undo() int64 {
	if l.splitIndex == 0 {
		return 0
	}
	bit := l.changes[l.splitIndex-1].TransactionBit
	i := l.splitIndex - 1
	for i > 0 && l.changes[i-1].TransactionBit == bit {
		i--
	}
	lastSerial := l.changes[l.splitIndex-1].Serial
	l.splitIndex = i
	return -lastSerial
}

// Redo moves the split pointer forward over the next undone
// transaction, returning that transaction's highest serial, or 0 if
// there is nothing to redo.
func (l *Log) Redo() int64 {
	if l.splitIndex == len(l.changes) {
		return 0
	}
	bit := l.changes[l.splitIndex].TransactionBit
	i := l.splitIndex
	for i < len(l.changes) && l.changes[i].TransactionBit == bit {
		i++
	}
	lastSerial := l.changes[i-1].Serial
	l.splitIndex = i
	return lastSerial
}

// NumChanges returns the number of currently applied (not undone) changes.
func (l *Log) NumChanges() int64 {
	return int64(l.splitIndex)
}

// NumUndone returns the number of undone-but-retained changes available to Redo.
func (l *Log) NumUndone() int64 {
	return int64(len(l.changes) - l.splitIndex)
}

// CanUndo reports whether Undo would do anything.
func (l *Log) CanUndo() bool { return l.splitIndex > 0 }

// CanRedo reports whether Redo would do anything.
func (l *Log) CanRedo() bool { return l.splitIndex < len(l.changes) }

// LastChange returns the most recently applied (not undone) change.
func (l *Log) LastChange() (Change, bool) {
	if l.splitIndex == 0 {
		return Change{}, false
	}
	return l.changes[l.splitIndex-1], true
}

// GetChange returns the change with the given serial, if it was ever
// appended (including if it is currently undone).
func (l *Log) GetChange(serial int64) (Change, error) {
	if serial < 1 || serial > int64(len(l.changes)) {
		return Change{}, ErrSerialNotFound
	}
	return l.changes[serial-1], nil
}

// BytesAt returns up to length bytes of the payload for serial, starting
// at payloadOffset. This is the indirection seam noted in SPEC_FULL.md
// §9: a future spill-backed payload store could satisfy this without
// Segment Map callers changing.
func (l *Log) BytesAt(serial int64, payloadOffset, length int64) ([]byte, error) {
	c, err := l.GetChange(serial)
	if err != nil {
		return nil, err
	}
	if payloadOffset < 0 || payloadOffset > int64(len(c.Bytes)) {
		return nil, ErrRange
	}
	end := payloadOffset + length
	if end > int64(len(c.Bytes)) {
		end = int64(len(c.Bytes))
	}
	return c.Bytes[payloadOffset:end], nil
}
