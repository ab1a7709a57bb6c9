// Package events implements the ordered, mask-filtered subscriber
// dispatch used by a session and its viewports.
//
// Generalized from internal/event/dispatch's SyncDispatcher + Executor
// (panic recovery, timing, a Result per delivery) and internal/event's
// Registry/Subscription pair — but trimmed from a topic-trie pub/sub
// bus down to what SPEC_FULL.md actually needs: a flat, insertion-
// ordered list of subscribers, each filtered by a bitmask rather than a
// topic pattern, with no async delivery path (every session mutation
// dispatches synchronously on the caller's goroutine).
package events
