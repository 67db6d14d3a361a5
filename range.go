package juxta

import "fmt"

// Range is a half-open [Start, End) span of the position stream.
// Positions count Unicode code points, not bytes or UTF-16 code units,
// so a character outside the Basic Multilingual Plane occupies one
// position. Collators that index text differently must convert.
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// NewRange returns a zero-width range anchored at pos.
func NewRange(pos int64) Range {
	return Range{Start: pos, End: pos}
}

// Len returns the number of positions covered by the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

// Validate returns an error if the range is inverted or negative.
func (r Range) Validate() error {
	if r.Start < 0 || r.End < r.Start {
		return Errorf(EINVALID, "invalid range %s", r)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
