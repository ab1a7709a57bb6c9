// Package omegaedit implements a byte-oriented, undo-capable editing
// session over an arbitrarily large file without rewriting it on every
// edit.
//
// A Session holds a Segment Map (internal/segment) that indexes the
// logical file as a sequence of spans, each either a read-only range of
// the backing file (internal/bytesource) or a span of a change payload
// recorded in the ChangeLog (internal/changelog). Edits never move
// backing-file bytes or existing change payloads; they only splice new
// segments into the map, which is why insert/delete/overwrite cost is
// proportional to the map's depth rather than the file's size.
//
// Callbacks subscribed through WithSubscriber are delivered
// synchronously, in subscription order, before the mutating verb that
// triggered them returns (internal/events). A callback must not call
// back into the Session. The mutating verbs detect such a call and
// return a ReentrancyError; the Session's other methods do not detect
// it.
package omegaedit
