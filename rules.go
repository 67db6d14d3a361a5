package juxta

// RuleProvider answers how a tag occurrence is treated during extraction.
// Names are qualified ("tei:note") when a default namespace is configured.
// Occurrences count from 1 per qualified name in document order.
type RuleProvider interface {
	IsExcluded(name string, occurrence int) bool
	HasLineBreak(name string, occurrence int) bool

	// DefaultNamespace returns the prefix applied to unprefixed tag
	// names, or "" for none.
	DefaultNamespace() string
}

// TagRule applies to a qualified tag name. An empty Occurrences list
// applies to every occurrence.
type TagRule struct {
	Tag         string `json:"tag"`
	Occurrences []int  `json:"occurrences,omitempty"`
}

func (r TagRule) applies(name string, occurrence int) bool {
	if r.Tag != name {
		return false
	}
	if len(r.Occurrences) == 0 {
		return true
	}
	for _, n := range r.Occurrences {
		if n == occurrence {
			return true
		}
	}
	return false
}

// Ensure RuleSet implements RuleProvider.
var _ RuleProvider = (*RuleSet)(nil)

// RuleSet is an in-memory RuleProvider.
type RuleSet struct {
	Namespace  string    `json:"namespace,omitempty"`
	Excludes   []TagRule `json:"excludes,omitempty"`
	LineBreaks []TagRule `json:"lineBreaks,omitempty"`
}

// Validate returns an error if any rule is malformed.
func (s *RuleSet) Validate() error {
	for _, rules := range [][]TagRule{s.Excludes, s.LineBreaks} {
		for _, r := range rules {
			if r.Tag == "" {
				return Errorf(EINVALID, "rule tag required")
			}
			for _, n := range r.Occurrences {
				if n < 1 {
					return Errorf(EINVALID, "rule %q: occurrence %d must be positive", r.Tag, n)
				}
			}
		}
	}
	return nil
}

// IsExcluded reports whether the occurrence of name is excluded.
func (s *RuleSet) IsExcluded(name string, occurrence int) bool {
	return matchAny(s.Excludes, name, occurrence)
}

// HasLineBreak reports whether closing the occurrence of name ends a line.
func (s *RuleSet) HasLineBreak(name string, occurrence int) bool {
	return matchAny(s.LineBreaks, name, occurrence)
}

// DefaultNamespace returns the configured namespace prefix.
func (s *RuleSet) DefaultNamespace() string {
	return s.Namespace
}

func matchAny(rules []TagRule, name string, occurrence int) bool {
	for _, r := range rules {
		if r.applies(name, occurrence) {
			return true
		}
	}
	return false
}
