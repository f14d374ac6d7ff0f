package tablesplit

// ChunkRange is an immutable half-open interval [Start, End) over the
// split key domain. A nil Start means "unbounded below" (first chunk); a
// nil End means "unbounded above" (last chunk). Both nil means a full
// table scan. ChunkRange never conflates "unbounded" with "absent": a nil
// bound always means unbounded, so the zero value is the full-scan range
// that FullScan returns.
type ChunkRange struct {
	Start *Key
	End   *Key
}

// FullScan returns the fully-unbounded range representing a single
// full-table chunk.
func FullScan() ChunkRange {
	return ChunkRange{}
}

// NewChunkRange builds a middle chunk [start, end). Both bounds must be
// non-nil and compare unequal; callers that need an open bound should use
// FullScan, OpenStart or OpenEnd instead.
func NewChunkRange(start, end Key) ChunkRange {
	return ChunkRange{Start: &start, End: &end}
}

// OpenStart returns the first chunk: unbounded below, [..., end).
func OpenStart(end Key) ChunkRange {
	return ChunkRange{End: &end}
}

// OpenEnd returns the last chunk: [start, ...), unbounded above.
func OpenEnd(start Key) ChunkRange {
	return ChunkRange{Start: &start}
}

// IsFirst reports whether this is an open-below chunk.
func (c ChunkRange) IsFirst() bool {
	return c.Start == nil
}

// IsLast reports whether this is an open-above chunk.
func (c ChunkRange) IsLast() bool {
	return c.End == nil
}

// IsFullScan reports whether both bounds are unbounded.
func (c ChunkRange) IsFullScan() bool {
	return c.Start == nil && c.End == nil
}
