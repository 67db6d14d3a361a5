package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/juxta"
	"github.com/fwojciec/juxta/mock"
	juxtaslog "github.com/fwojciec/juxta/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingTokenizer_Tokenize(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Tokenizer{
		TokenizeFn: func(ctx context.Context, set *juxta.ComparisonSet, cfg juxta.CollatorConfig, status juxta.StatusSink) error {
			return nil
		},
	}

	err := juxtaslog.NewLoggingTokenizer(inner, logger).Tokenize(context.Background(),
		&juxta.ComparisonSet{ID: "s1"}, juxta.DefaultCollatorConfig(), nil)

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "msg=tokenize")
	assert.Contains(t, output, "set=s1")
	assert.Contains(t, output, "duration=")
}

func TestLoggingCollator_Collate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Collator{
		CollateFn: func(ctx context.Context, set *juxta.ComparisonSet, cfg juxta.CollatorConfig, status juxta.StatusSink) error {
			return errors.New("out of memory")
		},
	}

	err := juxtaslog.NewLoggingCollator(inner, logger).Collate(context.Background(),
		&juxta.ComparisonSet{ID: "s1"}, juxta.DefaultCollatorConfig(), nil)

	require.Error(t, err)
	output := buf.String()
	assert.Contains(t, output, "msg=collate")
	assert.Contains(t, output, "filterCase=true")
	assert.Contains(t, output, "err=\"out of memory\"")
}
