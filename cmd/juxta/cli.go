package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/juxta"
	"github.com/fwojciec/juxta/fs"
	"github.com/fwojciec/juxta/importer"
	"github.com/fwojciec/juxta/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB        *sqlite.DB
	Sets      juxta.ComparisonSetService
	Witnesses juxta.WitnessService
	Sources   *fs.SourceService
	Extractor juxta.Extractor
	Importer  *importer.Importer
	Tasks     juxta.TaskManager
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose      bool `short:"v" help:"Log service calls to stderr"`
	HeavyWorkers int  `env:"JUXTA_HEAVY_WORKERS" default:"2" help:"Concurrent collation and visualization tasks"`
	LightWorkers int  `env:"JUXTA_LIGHT_WORKERS" default:"10" help:"Concurrent import and other tasks"`

	Extract   ExtractCmd   `cmd:"" help:"Extract annotations and witness text from a TEI file"`
	Import    ImportCmd    `cmd:"" help:"Import the witnesses of a TEI file into a comparison set"`
	Witnesses WitnessesCmd `cmd:"" help:"List the witnesses of a comparison set"`
	Sets      SetsCmd      `cmd:"" help:"List comparison sets"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File      string `arg:"" type:"existingfile" help:"TEI source file"`
	Witness   string `short:"w" help:"Witness id to extract"`
	Group     string `short:"g" help:"Witness group id to extract"`
	Normalize bool   `short:"n" help:"Collapse whitespace runs"`
	Rules     string `env:"JUXTA_RULES" type:"path" help:"Rule set file (.xml, .yaml)"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Set       string        `arg:"" help:"Comparison set name (created if missing)"`
	File      string        `arg:"" type:"existingfile" help:"TEI source file"`
	Sources   string        `env:"JUXTA_SOURCES" default:"." type:"existingdir" help:"Directory sources are resolved against"`
	Normalize bool          `short:"n" help:"Collapse whitespace runs"`
	Rules     string        `env:"JUXTA_RULES" type:"path" help:"Rule set file (.xml, .yaml)"`
	Poll      time.Duration `default:"250ms" help:"Status poll interval"`
}

// WitnessesCmd is the "witnesses" subcommand.
type WitnessesCmd struct {
	Set  string `arg:"" help:"Comparison set name"`
	Full bool   `help:"Show full witness content"`
}

// SetsCmd is the "sets" subcommand.
type SetsCmd struct{}
