// Package profile implements the byte-frequency profile, BOM
// detection, and UTF-8/16/32 character-width counting described in
// SPEC_FULL.md §4.7, grounded on the counting semantics demonstrated
// by original_source/core/src/examples/{profile,count_characters}.c
// (both walk a session range through the C API and print bucketed
// counts; this package is the Go counting core those examples would
// call into).
//
// Byte-width classification is hand-rolled against the documented
// UTF-8/16/32 rules rather than built on golang.org/x/text/encoding's
// Decoder: that type is designed for best-effort transcoding (invalid
// sequences are silently replaced with U+FFFD), which does not expose
// the exact per-source-byte validity this component must report.
// golang.org/x/text/encoding/unicode is used elsewhere in this module
// (cmd/omegaedit-shell's "decode" command) where best-effort decoding
// is exactly what's wanted.
package profile
