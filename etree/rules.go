package etree

import (
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/juxta"
)

// LoadRules reads a rule set document:
//
//	<rules namespace="tei">
//	  <exclude tag="tei:teiHeader"/>
//	  <linebreak tag="tei:p"/>
//	  <linebreak tag="tei:fw" occurrences="1 3"/>
//	</rules>
func LoadRules(r io.Reader) (*juxta.RuleSet, error) {
	root, err := readRoot(r, false)
	if err != nil {
		return nil, err
	}
	if root.Tag != "rules" {
		return nil, juxta.Errorf(juxta.EINVALID, "expected <rules> document, got <%s>", root.Tag)
	}

	set := &juxta.RuleSet{Namespace: root.SelectAttrValue("namespace", "")}
	if set.Excludes, err = tagRules(root.SelectElements("exclude")); err != nil {
		return nil, err
	}
	if set.LineBreaks, err = tagRules(root.SelectElements("linebreak")); err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func tagRules(els []*etree.Element) ([]juxta.TagRule, error) {
	var rules []juxta.TagRule
	for _, el := range els {
		rule := juxta.TagRule{Tag: strings.TrimSpace(el.SelectAttrValue("tag", ""))}
		for _, f := range strings.Fields(el.SelectAttrValue("occurrences", "")) {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, juxta.Errorf(juxta.EINVALID, "rule %q: invalid occurrence %q", rule.Tag, f)
			}
			rule.Occurrences = append(rule.Occurrences, n)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
