package omegaedit

import "github.com/omegaedit/core/internal/events"

// EventKind is a bitmask identifying one session or viewport event,
// usable as a subscription mask via WithSubscriber or
// Viewport.Subscribe. Session and viewport events occupy disjoint bit
// ranges so one mask can describe either.
type EventKind = events.Kind

// Session-level events, dispatched to subscribers registered with
// WithSubscriber.
const (
	EventCreate         = events.Create
	EventEdit           = events.Edit
	EventUndo           = events.Undo
	EventRedo           = events.Redo
	EventClear          = events.Clear
	EventTransform      = events.Transform
	EventCreateViewport = events.CreateViewport
	EventSave           = events.Save
	EventDestroy        = events.Destroy

	EventAllSession = events.AllSessionEvents
)

// Viewport-level events, dispatched to subscribers registered with
// Viewport.Subscribe.
const (
	EventViewportCreate         = events.ViewportCreate
	EventViewportEdit           = events.ViewportEdit
	EventViewportUpdated        = events.ViewportUpdated
	EventViewportTransformStart = events.ViewportTransformStart
	EventViewportTransformEnd   = events.ViewportTransformEnd
	EventViewportDestroy        = events.ViewportDestroy

	EventAllViewport = events.AllViewportEvents
)

// EventNone suppresses delivery entirely.
const EventNone = events.NoEvents

// EditKind distinguishes the three edit verbs CreateEvent... EditEvent
// can report, independent of internal/changelog.Kind so this package's
// public payload types never name an internal package.
type EditKind int

const (
	EditInsert EditKind = iota
	EditOverwrite
	EditDelete
)

func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "Insert"
	case EditOverwrite:
		return "Overwrite"
	case EditDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// CreateEvent is the payload of an EventCreate dispatch.
type CreateEvent struct {
	Size int64
}

// EditEvent is the payload of an EventEdit dispatch.
type EditEvent struct {
	Offset int64
	Length int64
	Kind   EditKind
	Serial int64
}

// UndoEvent is the payload of an EventUndo dispatch.
type UndoEvent struct {
	// Serial is the value Session.Undo returned: the negative of the
	// undone transaction's highest serial, or 0 if nothing was undone.
	Serial int64
}

// RedoEvent is the payload of an EventRedo dispatch.
type RedoEvent struct {
	Serial int64
}

// TransformEvent is the payload of an EventTransform dispatch.
type TransformEvent struct {
	Offset int64
	Length int64
	Serial int64
}

// SaveEvent is the payload of an EventSave dispatch.
type SaveEvent struct {
	Path string
}

// ViewportCreateEvent is the payload of an EventViewportCreate dispatch.
type ViewportCreateEvent struct {
	Offset int64
	Length int64
}

// ViewportEditEvent is the payload of an EventViewportEdit dispatch,
// delivered when an edit overlaps a viewport's window, and, for a
// non-floating viewport, also when an insert or delete lands at or
// before the window's start.
type ViewportEditEvent struct {
	Offset int64
	Length int64
}

// ViewportUpdatedEvent is the payload of an EventViewportUpdated
// dispatch, delivered when a viewport's floating offset shifted
// without any change to the bytes inside its window.
type ViewportUpdatedEvent struct {
	NewOffset int64
}

// ViewportTransformEvent is the payload of EventViewportTransformStart
// and EventViewportTransformEnd dispatches.
type ViewportTransformEvent struct {
	Offset int64
	Length int64
}
