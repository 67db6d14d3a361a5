package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/juxta"
	"github.com/fwojciec/juxta/etree"
	"github.com/fwojciec/juxta/yaml"
)

// defaultRules hides the TEI header and ends a line after block-level
// elements.
func defaultRules() *juxta.RuleSet {
	return &juxta.RuleSet{
		Excludes: []juxta.TagRule{{Tag: "teiHeader"}},
		LineBreaks: []juxta.TagRule{
			{Tag: "head"},
			{Tag: "p"},
			{Tag: "l"},
			{Tag: "lg"},
			{Tag: "sp"},
			{Tag: "speaker"},
		},
	}
}

// loadRules reads a rule set by file extension, or returns the default
// rules when path is empty.
func loadRules(path string) (*juxta.RuleSet, error) {
	if path == "" {
		return defaultRules(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.LoadRules(f)
	case ".xml":
		return etree.LoadRules(f)
	default:
		return nil, juxta.Errorf(juxta.EINVALID, "unsupported rule set format %q", ext)
	}
}
