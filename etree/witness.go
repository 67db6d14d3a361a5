package etree

import (
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/juxta"
)

// Ensure WitnessParser implements juxta.WitnessParser.
var _ juxta.WitnessParser = (*WitnessParser)(nil)

// WitnessParser lists the witnesses declared in the listWit elements of a
// TEI parallel segmented source.
type WitnessParser struct{}

// NewWitnessParser creates a new WitnessParser.
func NewWitnessParser() *WitnessParser {
	return &WitnessParser{}
}

// ParseWitnesses returns one descriptor per distinct witness id, in
// document order. The group id is the id of the nearest enclosing listWit
// that has one, falling back to the witness id. The name is the witness's
// text, falling back to its id.
func (p *WitnessParser) ParseWitnesses(r io.Reader) ([]juxta.WitnessInfo, error) {
	root, err := readRoot(r, true)
	if err != nil {
		return nil, err
	}

	var infos []juxta.WitnessInfo
	seen := make(map[string]bool)
	for _, el := range root.FindElements("//listWit/witness") {
		id := xmlID(el)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		info := juxta.WitnessInfo{ID: id, GroupID: groupID(el), Name: allText(el)}
		if info.GroupID == "" {
			info.GroupID = id
		}
		if info.Name == "" {
			info.Name = id
		}
		infos = append(infos, info)
	}

	if len(infos) == 0 {
		return nil, juxta.Errorf(juxta.EINVALID, "source declares no witnesses")
	}
	return infos, nil
}

func groupID(el *etree.Element) string {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag != "listWit" {
			continue
		}
		if id := xmlID(p); id != "" {
			return id
		}
	}
	return ""
}

func xmlID(el *etree.Element) string {
	if v := el.SelectAttrValue("xml:id", ""); v != "" {
		return v
	}
	return el.SelectAttrValue("id", "")
}
