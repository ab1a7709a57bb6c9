// Package search implements Boyer-Moore-Horspool substring search over
// the logical file, forward and reverse, with optional ASCII case
// folding.
//
// The skip-table construction and the forward/reverse probe loop are
// translated from original_source/core/src/lib/impl_/find.cpp
// (omega_find_create_skip_table, omega_find) — a single flat-buffer
// search — generalized here to scan the logical file through windowed
// reads carrying an m-1 byte overlap between windows, per SPEC_FULL.md
// §4.6's design note ("the engine walks segments, carrying a trailing
// m-1 byte overlap buffer across segment boundaries"). This package
// has no dependency on internal/segment directly: it reads through the
// Reader interface, which the owning Session satisfies by combining
// the Segment Map, ChangeLog and ByteSource.
package search
