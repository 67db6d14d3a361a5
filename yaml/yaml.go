// Package yaml loads extraction rule sets written in YAML:
//
//	namespace: tei
//	excludes:
//	  - tag: tei:teiHeader
//	linebreaks:
//	  - tag: tei:p
//	  - tag: tei:fw
//	    occurrences: [1, 3]
package yaml

import (
	"errors"
	"io"

	"github.com/fwojciec/juxta"
	"gopkg.in/yaml.v3"
)

type ruleSet struct {
	Namespace  string    `yaml:"namespace"`
	Excludes   []tagRule `yaml:"excludes"`
	LineBreaks []tagRule `yaml:"linebreaks"`
}

type tagRule struct {
	Tag         string `yaml:"tag"`
	Occurrences []int  `yaml:"occurrences"`
}

// LoadRules decodes a rule set from r. Unknown keys are rejected.
func LoadRules(r io.Reader) (*juxta.RuleSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw ruleSet
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, juxta.Errorf(juxta.EINVALID, "empty rule set")
		}
		return nil, juxta.Errorf(juxta.EINVALID, "parsing rules: %s", err)
	}

	set := &juxta.RuleSet{
		Namespace:  raw.Namespace,
		Excludes:   convert(raw.Excludes),
		LineBreaks: convert(raw.LineBreaks),
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func convert(rules []tagRule) []juxta.TagRule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]juxta.TagRule, len(rules))
	for i, r := range rules {
		out[i] = juxta.TagRule{Tag: r.Tag, Occurrences: r.Occurrences}
	}
	return out
}
