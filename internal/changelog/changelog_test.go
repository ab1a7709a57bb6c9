package changelog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendAssignsIncreasingSerials(t *testing.T) {
	l := New()
	s1, err := l.Append(KindInsert, 0, 5, []byte("hello"), 0)
	if err != nil {
		t.Fatalf("append 1: %v", err)
	}
	s2, err := l.Append(KindInsert, 5, 1, []byte("!"), 5)
	if err != nil {
		t.Fatalf("append 2: %v", err)
	}
	if s1 != 1 || s2 != 2 {
		t.Errorf("serials = %d, %d; want 1, 2", s1, s2)
	}
	if l.NumChanges() != 2 {
		t.Errorf("NumChanges() = %d, want 2", l.NumChanges())
	}
}

func TestAppendRejectsOutOfRange(t *testing.T) {
	l := New()
	if _, err := l.Append(KindInsert, 10, 1, []byte("x"), 5); err != ErrRange {
		t.Errorf("insert past L: err = %v, want ErrRange", err)
	}
	if _, err := l.Append(KindDelete, 3, 10, nil, 5); err != ErrRange {
		t.Errorf("delete past L: err = %v, want ErrRange", err)
	}
}

func TestUndoRedoStandaloneAppends(t *testing.T) {
	l := New()
	s1, _ := l.Append(KindInsert, 0, 5, []byte("hello"), 0)
	s2, _ := l.Append(KindInsert, 5, 5, []byte("world"), 5)

	if got := l.Undo(); got != -s2 {
		t.Errorf("Undo() = %d, want %d", got, -s2)
	}
	if l.NumChanges() != 1 || l.NumUndone() != 1 {
		t.Errorf("after undo: applied=%d undone=%d", l.NumChanges(), l.NumUndone())
	}

	if got := l.Redo(); got != s2 {
		t.Errorf("Redo() = %d, want %d", got, s2)
	}
	if l.NumChanges() != 2 || l.NumUndone() != 0 {
		t.Errorf("after redo: applied=%d undone=%d", l.NumChanges(), l.NumUndone())
	}

	if got := l.Undo(); got != -s2 {
		t.Errorf("second Undo() = %d, want %d", got, -s2)
	}
	if got := l.Undo(); got != -s1 {
		t.Errorf("third Undo() = %d, want %d", got, -s1)
	}
	if got := l.Undo(); got != 0 {
		t.Errorf("Undo() with nothing left = %d, want 0", got)
	}
}

func TestTransactionGroupsUndoAtomically(t *testing.T) {
	l := New()
	if err := l.BeginTransaction(); err != nil {
		t.Fatalf("BeginTransaction: %v", err)
	}
	if err := l.BeginTransaction(); err != ErrTransactionOpen {
		t.Errorf("nested BeginTransaction err = %v, want ErrTransactionOpen", err)
	}

	l.Append(KindInsert, 0, 1, []byte("a"), 0)
	l.Append(KindInsert, 1, 1, []byte("b"), 1)
	s3, _ := l.Append(KindInsert, 2, 1, []byte("c"), 2)

	if err := l.EndTransaction(); err != nil {
		t.Fatalf("EndTransaction: %v", err)
	}
	if err := l.EndTransaction(); err != ErrTransactionClosed {
		t.Errorf("EndTransaction with nothing open err = %v, want ErrTransactionClosed", err)
	}

	if l.NumChanges() != 3 {
		t.Fatalf("NumChanges() = %d, want 3", l.NumChanges())
	}

	// Undo should revert all three as one unit.
	if got := l.Undo(); got != -s3 {
		t.Errorf("Undo() = %d, want %d", got, -s3)
	}
	if l.NumChanges() != 0 {
		t.Errorf("after undo NumChanges() = %d, want 0", l.NumChanges())
	}
}

func TestAppendAfterUndoTruncatesRedo(t *testing.T) {
	l := New()
	l.Append(KindInsert, 0, 5, []byte("hello"), 0)
	l.Append(KindInsert, 5, 5, []byte("world"), 5)
	l.Undo()

	if !l.CanRedo() {
		t.Fatal("expected redo to be available before new append")
	}

	l.Append(KindInsert, 5, 1, []byte("!"), 5)

	if l.CanRedo() {
		t.Error("new append after undo should discard the redo tail")
	}
	if l.NumChanges() != 2 {
		t.Errorf("NumChanges() = %d, want 2", l.NumChanges())
	}
}

func TestGetChangeAndBytesAt(t *testing.T) {
	l := New()
	serial, _ := l.Append(KindOverwrite, 2, 3, []byte("XYZ"), 10)

	c, err := l.GetChange(serial)
	if err != nil {
		t.Fatalf("GetChange: %v", err)
	}
	want := Change{Serial: serial, Kind: KindOverwrite, LogicalOffset: 2, Length: 3, TransactionBit: true, Bytes: []byte("XYZ")}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("GetChange mismatch (-want +got):\n%s", diff)
	}

	if _, err := l.GetChange(999); err != ErrSerialNotFound {
		t.Errorf("GetChange(999) err = %v, want ErrSerialNotFound", err)
	}

	b, err := l.BytesAt(serial, 1, 2)
	if err != nil {
		t.Fatalf("BytesAt: %v", err)
	}
	if string(b) != "YZ" {
		t.Errorf("BytesAt = %q, want %q", b, "YZ")
	}
}

func TestTruncateToSerialDiscardsAppliedAndRedoTails(t *testing.T) {
	l := New()
	l.Append(KindInsert, 0, 1, []byte("a"), 0)
	l.Append(KindInsert, 1, 1, []byte("b"), 1)
	l.Append(KindInsert, 2, 1, []byte("c"), 2)
	l.Undo() // split at 2, serial 3 retained for redo

	l.TruncateToSerial(1)

	if l.NumChanges() != 1 {
		t.Errorf("NumChanges() = %d, want 1", l.NumChanges())
	}
	if l.CanRedo() {
		t.Error("TruncateToSerial must discard the redo tail, not just move the split pointer")
	}
	if _, err := l.GetChange(2); err != ErrSerialNotFound {
		t.Errorf("GetChange(2) after truncate err = %v, want ErrSerialNotFound", err)
	}
	s, err := l.Append(KindInsert, 1, 1, []byte("x"), 1)
	if err != nil {
		t.Fatalf("append after truncate: %v", err)
	}
	if s != 2 {
		t.Errorf("serial after truncate = %d, want 2", s)
	}
}

func TestDeltaAndEnd(t *testing.T) {
	ins := Change{Kind: KindInsert, LogicalOffset: 4, Length: 3}
	if ins.Delta() != 3 || ins.End() != 7 {
		t.Errorf("insert delta/end = %d/%d, want 3/7", ins.Delta(), ins.End())
	}
	del := Change{Kind: KindDelete, LogicalOffset: 4, Length: 3}
	if del.Delta() != -3 {
		t.Errorf("delete delta = %d, want -3", del.Delta())
	}
	ovr := Change{Kind: KindOverwrite, LogicalOffset: 4, Length: 3}
	if ovr.Delta() != 0 {
		t.Errorf("overwrite delta = %d, want 0", ovr.Delta())
	}
}
