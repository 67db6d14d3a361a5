// Package etree reads the small XML documents juxta needs as a whole tree:
// witness lists of parallel segmented sources and extraction rule sets.
package etree

import (
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/juxta"
	"golang.org/x/net/html/charset"
)

// readRoot parses r and returns its document element. Permissive parsing
// tolerates undeclared entities, which full TEI sources often use.
func readRoot(r io.Reader, permissive bool) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = permissive
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, juxta.Errorf(juxta.EINVALID, "parsing XML: %s", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, juxta.Errorf(juxta.EINVALID, "empty XML document")
	}
	return root, nil
}

// allText returns the whitespace-collapsed character data of el and all
// of its descendants.
func allText(el *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return strings.Join(strings.Fields(b.String()), " ")
}
