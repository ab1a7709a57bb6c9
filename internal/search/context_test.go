package search

import (
	"io"
	"testing"
)

type sliceReader []byte

func (r sliceReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(r)) {
		return 0, io.EOF
	}
	n := copy(p, r[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestForwardFindsFirstMatch(t *testing.T) {
	r := sliceReader("the quick brown fox jumps over the lazy dog")
	ctx, err := NewContext(r, []byte("the"), false, 0, int64(len(r)), Forward)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	off, found, err := ctx.NextMatch(true)
	if err != nil || !found {
		t.Fatalf("NextMatch: off=%d found=%v err=%v", off, found, err)
	}
	if off != 0 {
		t.Errorf("offset = %d, want 0", off)
	}

	off, found, err = ctx.NextMatch(true)
	if err != nil || !found {
		t.Fatalf("second NextMatch: off=%d found=%v err=%v", off, found, err)
	}
	if off != 31 {
		t.Errorf("second offset = %d, want 31", off)
	}

	_, found, _ = ctx.NextMatch(true)
	if found {
		t.Error("expected exhaustion after two matches")
	}
}

func TestReverseFindsLastMatchFirst(t *testing.T) {
	r := sliceReader("abcabcabc")
	ctx, err := NewContext(r, []byte("abc"), false, 0, int64(len(r)), Reverse)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	off, found, err := ctx.NextMatch(true)
	if err != nil || !found {
		t.Fatalf("NextMatch: %v %v %v", off, found, err)
	}
	if off != 6 {
		t.Errorf("offset = %d, want 6", off)
	}
}

func TestCaseInsensitiveMatch(t *testing.T) {
	r := sliceReader("Hello WORLD hello")
	ctx, err := NewContext(r, []byte("hello"), true, 0, int64(len(r)), Forward)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	off, found, _ := ctx.NextMatch(true)
	if !found || off != 0 {
		t.Fatalf("first match off=%d found=%v", off, found)
	}
	off, found, _ = ctx.NextMatch(true)
	if !found || off != 12 {
		t.Fatalf("second match off=%d found=%v", off, found)
	}
}

func TestSingleByteNeedleDegenerate(t *testing.T) {
	r := sliceReader("aaabaaab")
	ctx, err := NewContext(r, []byte("b"), false, 0, int64(len(r)), Forward)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	off, found, _ := ctx.NextMatch(true)
	if !found || off != 3 {
		t.Fatalf("off=%d found=%v, want 3", off, found)
	}
	off, found, _ = ctx.NextMatch(true)
	if !found || off != 7 {
		t.Fatalf("off=%d found=%v, want 7", off, found)
	}
}

func TestOverlappingMatchesWithoutAdvance(t *testing.T) {
	r := sliceReader("aaaa")
	ctx, err := NewContext(r, []byte("aa"), false, 0, int64(len(r)), Forward)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	var offsets []int64
	for {
		off, found, err := ctx.NextMatch(false)
		if err != nil {
			t.Fatalf("NextMatch: %v", err)
		}
		if !found {
			break
		}
		offsets = append(offsets, off)
	}
	if len(offsets) != 3 {
		t.Fatalf("offsets = %v, want 3 overlapping matches", offsets)
	}
	for i, want := range []int64{0, 1, 2} {
		if offsets[i] != want {
			t.Errorf("offsets[%d] = %d, want %d", i, offsets[i], want)
		}
	}
}

func TestSearchSpansWindowBoundary(t *testing.T) {
	pattern := "NEEDLE"
	haystack := make([]byte, DefaultWindowSize+10)
	for i := range haystack {
		haystack[i] = 'x'
	}
	copy(haystack[DefaultWindowSize-3:], pattern)

	ctx, err := NewContext(sliceReader(haystack), []byte(pattern), false, 0, int64(len(haystack)), Forward)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	off, found, err := ctx.NextMatch(true)
	if err != nil || !found {
		t.Fatalf("NextMatch: off=%d found=%v err=%v", off, found, err)
	}
	if off != DefaultWindowSize-3 {
		t.Errorf("offset = %d, want %d", off, DefaultWindowSize-3)
	}
}

func TestEmptyPatternRejected(t *testing.T) {
	if _, err := NewContext(sliceReader("abc"), nil, false, 0, 3, Forward); err != ErrEmptyPattern {
		t.Errorf("err = %v, want ErrEmptyPattern", err)
	}
}

func TestPatternTooLongRejected(t *testing.T) {
	big := make([]byte, MaxPatternLength+1)
	if _, err := NewContext(sliceReader("abc"), big, false, 0, 3, Forward); err != ErrPatternTooLong {
		t.Errorf("err = %v, want ErrPatternTooLong", err)
	}
}

func TestResetRewindsCursor(t *testing.T) {
	r := sliceReader("abcabc")
	ctx, _ := NewContext(r, []byte("abc"), false, 0, int64(len(r)), Forward)
	ctx.NextMatch(true)
	ctx.NextMatch(true)
	if _, found, _ := ctx.NextMatch(true); found {
		t.Fatal("expected exhaustion before reset")
	}
	ctx.Reset()
	off, found, _ := ctx.NextMatch(true)
	if !found || off != 0 {
		t.Errorf("after Reset: off=%d found=%v, want 0/true", off, found)
	}
}

