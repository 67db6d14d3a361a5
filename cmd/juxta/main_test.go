package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/juxta"
	main "github.com/fwojciec/juxta/cmd/juxta"
	"github.com/fwojciec/juxta/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hamlet = `<?xml version="1.0" encoding="UTF-8"?>
<TEI>
  <teiHeader>
    <fileDesc>
      <sourceDesc>
        <listWit>
          <witness xml:id="Q1">Quarto</witness>
          <witness xml:id="F1">Folio</witness>
        </listWit>
      </sourceDesc>
    </fileDesc>
  </teiHeader>
  <text><body><p>To be, or <app><rdg wit="#Q1">not</rdg><rdg wit="#F1">nought</rdg></app> to be</p></body></text>
</TEI>
`

func writeHamlet(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = filepath.Join(dir, "hamlet.xml")
	require.NoError(t, os.WriteFile(file, []byte(hamlet), 0644))
	return dir, file
}

func run(t *testing.T, dbPath string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	m := main.NewMain()
	m.DBPath = dbPath
	var out, errOut bytes.Buffer
	err = m.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, filepath.Join(t.TempDir(), "test.db"), "--help")
		require.NoError(t, err)

		for _, cmd := range []string{"extract", "import", "witnesses", "sets"} {
			assert.Contains(t, stdout, cmd)
		}
		assert.Contains(t, stdout, "Usage:")
		assert.Contains(t, stdout, "Flags:")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, filepath.Join(t.TempDir(), "test.db"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})
}

func TestMain_Run_Extract(t *testing.T) {
	t.Parallel()

	t.Run("prints extraction of selected witness as JSON", func(t *testing.T) {
		t.Parallel()

		_, file := writeHamlet(t)

		stdout, _, err := run(t, filepath.Join(t.TempDir(), "test.db"), "extract", file, "--witness", "F1")

		require.NoError(t, err)
		assert.Contains(t, stdout, `"text": "To be, or nought to be\n"`)
		assert.Contains(t, stdout, `"length": 23`)
	})

	t.Run("does not create the database", func(t *testing.T) {
		t.Parallel()

		_, file := writeHamlet(t)
		dbPath := filepath.Join(t.TempDir(), "test.db")

		_, _, err := run(t, dbPath, "extract", file)

		require.NoError(t, err)
		_, statErr := os.Stat(dbPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("reports malformed markup", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "broken.xml")
		require.NoError(t, os.WriteFile(file, []byte("<TEI><p>open</TEI>"), 0644))

		_, stderr, err := run(t, filepath.Join(t.TempDir(), "test.db"), "extract", file)

		require.Error(t, err)
		assert.Contains(t, stderr, "malformed markup")
	})
}

func TestMain_Run_Import(t *testing.T) {
	t.Parallel()

	t.Run("imports witnesses and lists them", func(t *testing.T) {
		t.Parallel()

		dir, file := writeHamlet(t)
		dbPath := filepath.Join(t.TempDir(), "test.db")

		stdout, _, err := run(t, dbPath, "import", "hamlet", file, "--sources", dir, "--poll", "1ms")
		require.NoError(t, err)
		assert.Contains(t, stdout, `Imported 2 witnesses into "hamlet"`)

		stdout, _, err = run(t, dbPath, "witnesses", "hamlet", "--full")
		require.NoError(t, err)
		assert.Contains(t, stdout, "1. Quarto [Q1]  20 chars")
		assert.Contains(t, stdout, "To be, or not to be")
		assert.Contains(t, stdout, "2. Folio [F1]  23 chars")
		assert.Contains(t, stdout, "To be, or nought to be")
	})

	t.Run("reimport keeps one record per witness", func(t *testing.T) {
		t.Parallel()

		dir, file := writeHamlet(t)
		dbPath := filepath.Join(t.TempDir(), "test.db")

		_, _, err := run(t, dbPath, "import", "hamlet", file, "--sources", dir, "--poll", "1ms")
		require.NoError(t, err)
		_, _, err = run(t, dbPath, "import", "hamlet", file, "--sources", dir, "--poll", "1ms")
		require.NoError(t, err)

		stdout, _, err := run(t, dbPath, "sets")
		require.NoError(t, err)
		assert.Contains(t, stdout, "hamlet  NOT_COLLATED")

		stdout, _, err = run(t, dbPath, "witnesses", "hamlet")
		require.NoError(t, err)
		assert.Contains(t, stdout, "2 total")
	})

	t.Run("collates when a tokenizer and collator are configured", func(t *testing.T) {
		t.Parallel()

		dir, file := writeHamlet(t)
		dbPath := filepath.Join(t.TempDir(), "test.db")

		var calls []string
		m := main.NewMain()
		m.DBPath = dbPath
		m.Tokenizer = &mock.Tokenizer{
			TokenizeFn: func(_ context.Context, _ *juxta.ComparisonSet, _ juxta.CollatorConfig, _ juxta.StatusSink) error {
				calls = append(calls, "tokenize")
				return nil
			},
		}
		m.Collator = &mock.Collator{
			CollateFn: func(_ context.Context, _ *juxta.ComparisonSet, cfg juxta.CollatorConfig, _ juxta.StatusSink) error {
				calls = append(calls, "collate")
				assert.Equal(t, juxta.DefaultCollatorConfig(), cfg)
				return nil
			},
		}
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"--verbose", "import", "hamlet", file, "--sources", dir, "--poll", "1ms"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, []string{"tokenize", "collate"}, calls)
		assert.Contains(t, stderr.String(), "msg=tokenize")
		assert.Contains(t, stderr.String(), "msg=collate")

		out, _, err := run(t, dbPath, "sets")
		require.NoError(t, err)
		assert.Contains(t, out, "hamlet  COLLATED")
	})

	t.Run("rejects files outside the source directory", func(t *testing.T) {
		t.Parallel()

		_, file := writeHamlet(t)

		_, stderr, err := run(t, filepath.Join(t.TempDir(), "test.db"), "import", "hamlet", file, "--sources", t.TempDir())

		require.Error(t, err)
		assert.Contains(t, stderr, "Hint:")
	})
}
