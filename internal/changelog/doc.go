// Package changelog implements the append-only record of every edit
// applied to a session.
//
// A ChangeLog keeps a Change once it is appended until a truncation
// discards it: undo moves a split pointer backward over the tail of the
// log, and redo moves it forward again. A new Append issued after an
// Undo discards the undone tail (truncate-on-append), matching the state
// machine in SPEC_FULL.md §4.9; TruncateUndone and TruncateToSerial
// discard a tail when called directly.
package changelog
