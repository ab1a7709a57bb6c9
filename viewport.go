package omegaedit

import (
	"github.com/omegaedit/core/internal/changelog"
	"github.com/omegaedit/core/internal/events"
)

// ViewportState distinguishes a usable Viewport from one that has been
// destroyed.
type ViewportState int

const (
	ViewportLive ViewportState = iota
	ViewportDestroyed
)

// Viewport is a window onto a session's logical file. A floating
// viewport's Offset shifts automatically as edits before it insert or
// delete bytes, per SPEC_FULL.md §4.5, so a caller watching one region
// of the file doesn't have to recompute its bounds after every edit; a
// non-floating viewport keeps its Offset fixed and only reports, via
// Edit events, that the bytes underneath it have changed.
type Viewport struct {
	session  *Session
	offset   int64
	length   int64
	floating bool

	dispatcher *events.Dispatcher
	state      ViewportState
}

// CreateViewport creates a window of length bytes starting at offset,
// subscribing cb (if non-nil) to events matching mask. When floating is
// true, the window's offset shifts automatically as edits strictly
// before it insert or delete bytes; when false, the offset is fixed and
// an Edit event is the only signal that the underlying bytes at that
// offset have moved (SPEC_FULL.md §4.5). Viewports are delivered
// session events in the order they were created (SPEC_FULL.md §9's Open
// Question disambiguation); destroying one nils its slot rather than
// compacting the slice, so surviving viewports keep their relative
// creation order.
func (s *Session) CreateViewport(offset, length int64, floating bool, mask EventKind, cb func(kind EventKind, evt any)) (*Viewport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 || length < 0 || offset+length > s.segs.Len() {
		return nil, s.setLastErr(newError(RangeError, "viewport range out of bounds"))
	}

	vp := &Viewport{session: s, offset: offset, length: length, floating: floating, dispatcher: events.New(), state: ViewportLive}
	if cb != nil {
		vp.dispatcher.Subscribe(mask, func(kind events.Kind, evt any) { cb(kind, evt) })
	}
	s.viewports = append(s.viewports, vp)

	s.dispatcher.Dispatch(events.CreateViewport, nil)
	vp.dispatcher.Dispatch(events.ViewportCreate, ViewportCreateEvent{Offset: offset, Length: length})
	return vp, nil
}

// DestroyViewport retires vp: it stops receiving events and its Read
// method starts returning ErrViewportDestroyed.
func (s *Session) DestroyViewport(vp *Viewport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.viewports {
		if v == vp {
			vp.state = ViewportDestroyed
			vp.dispatcher.Dispatch(events.ViewportDestroy, nil)
			s.viewports[i] = nil
			return nil
		}
	}
	return s.setLastErr(ErrViewportDestroyed)
}

// Offset returns the viewport's current floating start offset.
func (v *Viewport) Offset() int64 { return v.offset }

// Length returns the viewport's window length in bytes.
func (v *Viewport) Length() int64 { return v.length }

// Floating reports whether the viewport's offset shifts in response to
// edits before it.
func (v *Viewport) Floating() bool { return v.floating }

// State reports whether the viewport is still live.
func (v *Viewport) State() ViewportState { return v.state }

// Subscribe registers cb for delivery of any viewport event matching mask.
func (v *Viewport) Subscribe(mask EventKind, cb func(kind EventKind, evt any)) error {
	if v.state == ViewportDestroyed {
		return ErrViewportDestroyed
	}
	v.dispatcher.Subscribe(mask, func(kind events.Kind, evt any) { cb(kind, evt) })
	return nil
}

// Read returns the viewport's current window contents.
func (v *Viewport) Read() ([]byte, error) {
	if v.state == ViewportDestroyed {
		return nil, ErrViewportDestroyed
	}
	return v.session.Read(v.offset, v.length)
}

func (v *Viewport) dispatch(kind events.Kind, evt any) {
	_ = v.dispatcher.Dispatch(kind, evt)
}

// notifyViewportsForEdit applies the floating-offset shift rules for a
// forward edit (insert/overwrite/delete as actually applied) to every
// live viewport.
func (s *Session) notifyViewportsForEdit(off, n int64, kind changelog.Kind) {
	for _, vp := range s.viewports {
		if vp == nil || vp.state == ViewportDestroyed {
			continue
		}
		switch kind {
		case changelog.KindInsert:
			vp.applyInsert(off, n)
		case changelog.KindDelete:
			vp.applyDelete(off, n)
		case changelog.KindOverwrite:
			vp.applyOverwrite(off, n)
		}
	}
}

// notifyViewportsForInverse applies the shift that reverts change c, used
// by Undo: undoing an insert behaves like a delete of the same span,
// undoing a delete behaves like re-inserting it, and undoing an
// overwrite only ever touches content (length is unchanged).
func (s *Session) notifyViewportsForInverse(c changelog.Change) {
	switch c.Kind {
	case changelog.KindInsert:
		s.notifyViewportsForEdit(c.LogicalOffset, c.Length, changelog.KindDelete)
	case changelog.KindDelete:
		s.notifyViewportsForEdit(c.LogicalOffset, c.Length, changelog.KindInsert)
	case changelog.KindOverwrite:
		s.notifyViewportsForEdit(c.LogicalOffset, c.Length, changelog.KindOverwrite)
	}
}

func (v *Viewport) applyInsert(off, n int64) {
	end := v.offset + v.length
	switch {
	case off <= v.offset:
		if v.floating {
			v.offset += n
			v.dispatch(events.ViewportUpdated, ViewportUpdatedEvent{NewOffset: v.offset})
		} else {
			v.dispatch(events.ViewportEdit, ViewportEditEvent{Offset: off, Length: n})
		}
	case off < end:
		v.dispatch(events.ViewportEdit, ViewportEditEvent{Offset: off, Length: n})
	}
}

func (v *Viewport) applyDelete(off, n int64) {
	end := v.offset + v.length
	delEnd := off + n
	switch {
	case delEnd <= v.offset:
		if v.floating {
			v.offset -= n
			v.dispatch(events.ViewportUpdated, ViewportUpdatedEvent{NewOffset: v.offset})
		} else {
			v.dispatch(events.ViewportEdit, ViewportEditEvent{Offset: off, Length: n})
		}
	case off >= end:
		// entirely after the window: no effect.
	default:
		if v.floating {
			overlapStart := off
			if overlapStart < v.offset {
				overlapStart = v.offset
			}
			overlapEnd := delEnd
			if overlapEnd > end {
				overlapEnd = end
			}
			removed := overlapEnd - overlapStart

			if off < v.offset {
				beforeWindow := v.offset - off
				if beforeWindow > n {
					beforeWindow = n
				}
				v.offset -= beforeWindow
			}
			v.length -= removed
			if v.length < 0 {
				v.length = 0
			}
		}
		v.dispatch(events.ViewportEdit, ViewportEditEvent{Offset: off, Length: n})
	}
}

func (v *Viewport) applyOverwrite(off, n int64) {
	end := v.offset + v.length
	if off < end && off+n > v.offset {
		v.dispatch(events.ViewportEdit, ViewportEditEvent{Offset: off, Length: n})
	}
}
