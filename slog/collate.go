package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/juxta"
)

// Ensure LoggingTokenizer implements juxta.Tokenizer.
var _ juxta.Tokenizer = (*LoggingTokenizer)(nil)

// LoggingTokenizer wraps a Tokenizer with logging.
type LoggingTokenizer struct {
	next   juxta.Tokenizer
	logger *slog.Logger
}

// NewLoggingTokenizer creates a new LoggingTokenizer.
func NewLoggingTokenizer(next juxta.Tokenizer, logger *slog.Logger) *LoggingTokenizer {
	return &LoggingTokenizer{next: next, logger: logger}
}

// Tokenize delegates to the wrapped tokenizer and logs the operation.
func (t *LoggingTokenizer) Tokenize(ctx context.Context, set *juxta.ComparisonSet, cfg juxta.CollatorConfig, status juxta.StatusSink) (err error) {
	defer func(begin time.Time) {
		t.logger.Info("tokenize",
			"set", set.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Tokenize(ctx, set, cfg, status)
}

// Ensure LoggingCollator implements juxta.Collator.
var _ juxta.Collator = (*LoggingCollator)(nil)

// LoggingCollator wraps a Collator with logging.
type LoggingCollator struct {
	next   juxta.Collator
	logger *slog.Logger
}

// NewLoggingCollator creates a new LoggingCollator.
func NewLoggingCollator(next juxta.Collator, logger *slog.Logger) *LoggingCollator {
	return &LoggingCollator{next: next, logger: logger}
}

// Collate delegates to the wrapped collator and logs the operation.
func (c *LoggingCollator) Collate(ctx context.Context, set *juxta.ComparisonSet, cfg juxta.CollatorConfig, status juxta.StatusSink) (err error) {
	defer func(begin time.Time) {
		c.logger.Info("collate",
			"set", set.ID,
			"filterCase", cfg.FilterCase,
			"filterPunctuation", cfg.FilterPunctuation,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Collate(ctx, set, cfg, status)
}
