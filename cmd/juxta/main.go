package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/juxta"
	"github.com/fwojciec/juxta/etree"
	"github.com/fwojciec/juxta/fs"
	"github.com/fwojciec/juxta/importer"
	juxtaslog "github.com/fwojciec/juxta/slog"
	"github.com/fwojciec/juxta/sqlite"
	"github.com/fwojciec/juxta/task"
	juxtaxml "github.com/fwojciec/juxta/xml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Tasks runs imports in the background.
	Tasks *task.Manager

	// Tokenizer and Collator run after an import when both are set.
	// Otherwise collation is left to a separate service.
	Tokenizer juxta.Tokenizer
	Collator  juxta.Collator
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close waits for running tasks and closes the database.
func (m *Main) Close() error {
	if m.Tasks != nil {
		m.Tasks.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("juxta"),
		kong.Description("Extract and import witnesses of TEI sources"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'juxta --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.Extractor = juxtaslog.NewLoggingExtractor(juxtaxml.NewExtractor(), logger)

	if cmd == "extract" {
		return kongCtx.Run(deps)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set JUXTA_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	m.Tasks = task.NewManager(task.Config{
		HeavyLimit: cli.HeavyWorkers,
		LightLimit: cli.LightWorkers,
	}, logger)
	defer m.Close()

	sets := sqlite.NewComparisonSetService(m.DB)
	witnesses := sqlite.NewWitnessService(m.DB)
	deps.DB = m.DB
	deps.Sets = sets
	deps.Witnesses = witnesses
	deps.Tasks = m.Tasks

	if cmd == "import" {
		deps.Sources = fs.NewSourceService(cli.Import.Sources)
		deps.Importer = &importer.Importer{
			Sets:       sets,
			Sources:    deps.Sources,
			Witnesses:  witnesses,
			Notes:      sqlite.NewNoteService(m.DB),
			PageBreaks: sqlite.NewPageBreakService(m.DB),
			Revisions:  sqlite.NewRevisionService(m.DB),
			Alignments: sqlite.NewAlignmentService(m.DB),
			Cache:      sqlite.NewCacheService(m.DB),
			Parser:     juxtaslog.NewLoggingWitnessParser(etree.NewWitnessParser(), logger),
			Extractor:  deps.Extractor,

			DeferCollation: true,
		}
		if m.Tokenizer != nil && m.Collator != nil {
			deps.Importer.Tokenizer = juxtaslog.NewLoggingTokenizer(m.Tokenizer, logger)
			deps.Importer.Collator = juxtaslog.NewLoggingCollator(m.Collator, logger)
			deps.Importer.DeferCollation = false
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("JUXTA_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "juxta.db"
	}
	dir := filepath.Join(home, ".juxta")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "juxta.db")
}

// findSet returns the set with the given name or ENOTFOUND.
func findSet(deps *Dependencies, name string) (*juxta.ComparisonSet, error) {
	sets, err := deps.Sets.FindSets(deps.Ctx, juxta.SetFilter{Name: &name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, juxta.Errorf(juxta.ENOTFOUND, "comparison set %q not found", name)
	}
	return sets[0], nil
}
