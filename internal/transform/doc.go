// Package transform implements the byte-transform engine and the
// checkpoint manager it leans on for a stable base when the target
// range is not contiguous in the backing file.
//
// The windowed read-transform-overwrite loop is grounded on
// original_source/core/src/examples/transform.c (to_lower/to_upper
// applied via omega_edit_apply_transform over a byte-at-a-time
// callback) and examples/{rotate,slice}.cpp, which exercise the same
// read-a-range/rewrite-a-range shape through insert/overwrite/delete
// rather than a transform callback.
//
// The checkpoint manager's LIFO-destroyed spill store is
// generalized from internal/engine/tracking's SnapshotManager (an
// in-memory, by-name rope snapshot store) to spill-to-disk temp files,
// since a checkpoint here must outlive an in-memory rope clone's
// cheap O(1) structural share — the whole point of a checkpoint is a
// stable, reopenable byte range independent of further edits to the
// live session.
package transform
