package omegaedit

import "github.com/omegaedit/core/internal/search"

// SearchDirection selects forward or reverse search.
type SearchDirection int

const (
	SearchForward SearchDirection = iota
	SearchReverse
)

// MaxPatternLength is the largest pattern CreateSearch will accept.
const MaxPatternLength = search.MaxPatternLength

// SearchContext holds one compiled search over a session range. It is
// not safe to use after the owning Session is closed or after Destroy.
type SearchContext struct {
	session   *Session
	ctx       *search.Context
	destroyed bool
}

// CreateSearch compiles a search for pattern over [start, end) of the
// session's logical file. end == 0 means "through the current end of
// file." Patterns over MaxPatternLength are rejected with
// PatternTooLarge.
func (s *Session) CreateSearch(pattern []byte, caseInsensitive bool, start, end int64, dir SearchDirection) (*SearchContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if end == 0 {
		end = s.segs.Len()
	}

	d := search.Forward
	if dir == SearchReverse {
		d = search.Reverse
	}

	ctx, err := search.NewContext(sessionReader{s}, pattern, caseInsensitive, start, end, d)
	if err != nil {
		return nil, s.setLastErr(wrapSearchErr(err))
	}
	return &SearchContext{session: s, ctx: ctx}, nil
}

// NextMatch returns the offset of the next occurrence of the compiled
// pattern, scanning from the context's current cursor. found is false
// once the range is exhausted. advanceOnHit selects whether overlapping
// matches may be reported (false) or not (true).
func (sc *SearchContext) NextMatch(advanceOnHit bool) (int64, bool, error) {
	sc.session.mu.Lock()
	defer sc.session.mu.Unlock()
	if sc.destroyed {
		return 0, false, ErrSearchDestroyed
	}
	off, found, err := sc.ctx.NextMatch(advanceOnHit)
	if err != nil {
		return 0, false, sc.session.setLastErr(wrapError(IoError, "search", err))
	}
	return off, found, nil
}

// Reset rewinds the context to the start (or, for a reverse search, the
// end) of its range.
func (sc *SearchContext) Reset() error {
	sc.session.mu.Lock()
	defer sc.session.mu.Unlock()
	if sc.destroyed {
		return ErrSearchDestroyed
	}
	sc.ctx.Reset()
	return nil
}

// Offset returns the start of the context's search range.
func (sc *SearchContext) Offset() int64 { return sc.ctx.Offset() }

// Length returns the length of the context's search range.
func (sc *SearchContext) Length() int64 { return sc.ctx.Length() }

// Destroy retires the search context. Further calls return ErrSearchDestroyed.
func (sc *SearchContext) Destroy() {
	sc.session.mu.Lock()
	defer sc.session.mu.Unlock()
	sc.destroyed = true
}

func wrapSearchErr(err error) error {
	switch err {
	case search.ErrPatternTooLong:
		return newError(PatternTooLarge, "search pattern exceeds maximum length")
	case search.ErrEmptyPattern, search.ErrInvalidRange:
		return newError(RangeError, err.Error())
	default:
		return wrapError(IoError, "search", err)
	}
}
