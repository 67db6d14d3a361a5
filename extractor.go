package juxta

import (
	"context"
	"io"
)

// ExtractOptions configures one extraction pass.
type ExtractOptions struct {
	// Rules decides exclusion and line-break status per tag occurrence.
	Rules RuleProvider

	// NormalizeSpace collapses whitespace runs the way XSLT
	// normalize-space does instead of only stripping line breaks.
	NormalizeSpace bool

	// Witness selects one variant of a parallel segmented source. When
	// nil, every reading is kept and Extraction.Text is empty.
	Witness *WitnessInfo
}

// Extraction holds the position-addressed results of one pass.
type Extraction struct {
	Notes      []*Note         `json:"notes"`
	PageBreaks []*PageBreak    `json:"pageBreaks"`
	Revisions  []*RevisionSpan `json:"revisions"`

	// Text is the content of the selected witness. Empty when no
	// witness was selected.
	Text string `json:"text,omitempty"`

	// Length is the final value of the position counter, in code points
	// (see Range). For a selected witness it equals the rune count of Text.
	Length int64 `json:"length"`
}

// Extractor performs a single forward pass over markup.
type Extractor interface {
	// Extract parses the markup read from r. Malformed markup fails the
	// whole pass; no partial result is returned.
	Extract(ctx context.Context, r io.Reader, opts ExtractOptions) (*Extraction, error)
}
