package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/juxta"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	rules, err := loadRules(c.Rules)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer f.Close()

	opts := juxta.ExtractOptions{Rules: rules, NormalizeSpace: c.Normalize}
	if c.Witness != "" || c.Group != "" {
		opts.Witness = &juxta.WitnessInfo{ID: c.Witness, GroupID: c.Group}
	}

	ext, err := deps.Extractor.Extract(deps.Ctx, f, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ext)
}
