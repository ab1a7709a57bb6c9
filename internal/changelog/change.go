package changelog

// Kind distinguishes the three edit verbs a Change can record.
type Kind uint8

const (
	// KindInsert records bytes inserted at LogicalOffset.
	KindInsert Kind = iota
	// KindOverwrite records bytes that replaced existing bytes at LogicalOffset.
	KindOverwrite
	// KindDelete records bytes removed starting at LogicalOffset.
	KindDelete
)

// String implements fmt.Stringer for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindOverwrite:
		return "overwrite"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one atomic, immutable edit recorded in the log.
//
// Serial is assigned at append time and doubles as the change's
// identity: Segment Map entries reference a Change by Serial rather than
// by pointer (SPEC_FULL.md §9, "shared ownership of changes"), which
// keeps undo-truncation a matter of bounding valid serials rather than
// walking back-pointers.
type Change struct {
	Serial         int64
	TransactionBit bool
	Kind           Kind
	LogicalOffset  int64
	Length         int64
	Bytes          []byte // literal payload for insert/overwrite; empty for delete
}

// End returns the logical offset one past the change's affected range,
// as it applied at the moment it was appended.
func (c Change) End() int64 {
	return c.LogicalOffset + c.Length
}

// Delta returns the signed effect of this change on the logical file's
// length (positive for insert, negative for delete, zero for overwrite).
func (c Change) Delta() int64 {
	switch c.Kind {
	case KindInsert:
		return c.Length
	case KindDelete:
		return -c.Length
	default:
		return 0
	}
}
