// Package slog provides logging decorators for juxta services.
package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/juxta"
)

// Ensure LoggingExtractor implements juxta.Extractor.
var _ juxta.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   juxta.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next juxta.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the pass.
func (e *LoggingExtractor) Extract(ctx context.Context, r io.Reader, opts juxta.ExtractOptions) (ext *juxta.Extraction, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if opts.Witness != nil {
			attrs = append(attrs, "witness", opts.Witness.ID)
		}
		if ext != nil {
			attrs = append(attrs,
				"length", ext.Length,
				"notes", len(ext.Notes),
				"pageBreaks", len(ext.PageBreaks),
				"revisions", len(ext.Revisions),
			)
		}
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.Extract(ctx, r, opts)
}

// Ensure LoggingWitnessParser implements juxta.WitnessParser.
var _ juxta.WitnessParser = (*LoggingWitnessParser)(nil)

// LoggingWitnessParser wraps a WitnessParser with logging.
type LoggingWitnessParser struct {
	next   juxta.WitnessParser
	logger *slog.Logger
}

// NewLoggingWitnessParser creates a new LoggingWitnessParser.
func NewLoggingWitnessParser(next juxta.WitnessParser, logger *slog.Logger) *LoggingWitnessParser {
	return &LoggingWitnessParser{next: next, logger: logger}
}

// ParseWitnesses delegates to the wrapped parser and logs the result.
func (p *LoggingWitnessParser) ParseWitnesses(r io.Reader) (infos []juxta.WitnessInfo, err error) {
	defer func(begin time.Time) {
		p.logger.Info("parse witnesses",
			"count", len(infos),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseWitnesses(r)
}
