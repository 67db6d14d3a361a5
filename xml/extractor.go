// Package xml implements juxta.Extractor as a single forward pass over the
// raw token stream of encoding/xml.
package xml

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/juxta"
	"golang.org/x/net/html/charset"
)

// Ensure Extractor implements juxta.Extractor.
var _ juxta.Extractor = (*Extractor)(nil)

// LineBreakMarker is appended to note content where a line-breaking tag
// closes inside the note.
const LineBreakMarker = "<br/>"

// Extractor collects notes, page breaks and revisions from TEI-style
// markup and, when a witness is selected, the text of that witness.
// An Extractor holds no state between calls and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs one pass over r. Cancellation is only observed before the
// pass starts.
func (e *Extractor) Extract(ctx context.Context, r io.Reader, opts juxta.ExtractOptions) (*juxta.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Rules == nil {
		return nil, juxta.Errorf(juxta.EINVALID, "extraction rules required")
	}

	p := newPass(opts)
	if err := p.run(r); err != nil {
		return nil, err
	}
	return p.result(), nil
}

// element is an open element of the document.
type element struct {
	raw        xml.Name
	name       string
	occurrence int
}

// idFrame is pushed for every non-excluded ordinary element.
type idFrame struct {
	id    string
	hasID bool
	start int64
}

// revisionFrame tracks an open add/addSpan/del/delSpan element. The
// content buffer collects text regardless of inclusion.
type revisionFrame struct {
	kind     juxta.RevisionKind
	excluded bool
	start    int64
	content  *strings.Builder
}

// noteFrame tracks an open note; its text never advances the position.
type noteFrame struct {
	note *juxta.Note
	text *strings.Builder
}

// pass is the state of one extraction.
type pass struct {
	rules     juxta.RuleProvider
	normalize bool
	witness   *juxta.WitnessInfo

	pos         int64
	occurrences map[string]int
	index       map[string]juxta.Range

	open      []element
	excluding []string
	ids       []idFrame
	revisions []revisionFrame
	notes     []noteFrame

	// text is nil unless a witness was selected.
	text *strings.Builder

	sawRoot    bool
	charsetErr error
	out        juxta.Extraction
}

func newPass(opts juxta.ExtractOptions) *pass {
	p := &pass{
		rules:       opts.Rules,
		normalize:   opts.NormalizeSpace,
		witness:     opts.Witness,
		occurrences: make(map[string]int),
		index:       make(map[string]juxta.Range),
		out: juxta.Extraction{
			Notes:      []*juxta.Note{},
			PageBreaks: []*juxta.PageBreak{},
			Revisions:  []*juxta.RevisionSpan{},
		},
	}
	if opts.Witness != nil {
		p.text = &strings.Builder{}
	}
	return p
}

func (p *pass) run(r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read markup: %w", err)
	}

	d := xml.NewDecoder(bytes.NewReader(src))
	d.Strict = true
	d.CharsetReader = p.charsetReader
	d.Entity = make(map[string]string)

	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			if p.charsetErr != nil {
				return p.charsetErr
			}
			return markupError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(p.open) == 0 && p.sawRoot {
				return juxta.Errorf(juxta.EINVALID, "malformed markup: element <%s> after document root", rawName(t.Name))
			}
			p.sawRoot = true
			p.startElement(t)
		case xml.EndElement:
			if len(p.open) == 0 || p.open[len(p.open)-1].raw != t.Name {
				return juxta.Errorf(juxta.EINVALID, "malformed markup: unexpected end element </%s>", rawName(t.Name))
			}
			el := p.open[len(p.open)-1]
			p.open = p.open[:len(p.open)-1]
			p.endElement(el)
		case xml.CharData:
			if len(p.open) == 0 {
				if strings.TrimFunc(string(t), isSpace) != "" {
					return juxta.Errorf(juxta.EINVALID, "malformed markup: text outside document root")
				}
				continue
			}
			p.characters(string(t))
		case xml.Directive:
			declareEntities(d.Entity, t)
			if externalSubset.Match(t) {
				blankUndeclared(d.Entity, src)
			}
		}
	}

	if len(p.open) > 0 {
		return juxta.Errorf(juxta.EINVALID, "malformed markup: element <%s> not closed", rawName(p.open[len(p.open)-1].raw))
	}
	if !p.sawRoot {
		return juxta.Errorf(juxta.EINVALID, "malformed markup: no document element")
	}

	p.endDocument()
	return nil
}

func (p *pass) startElement(t xml.StartElement) {
	name := p.qualify(t.Name)
	p.occurrences[name]++
	el := element{raw: t.Name, name: name, occurrence: p.occurrences[name]}
	p.open = append(p.open, el)

	if p.excludingNow() {
		p.excluding = append(p.excluding, name)
		return
	}

	excluded := p.rules.IsExcluded(name, el.occurrence)
	local := t.Name.Local

	if p.witness != nil && isReading(local) {
		if !p.matchesWitness(t.Attr) {
			p.excluding = append(p.excluding, name)
			return
		}
		p.pushID(t.Attr)
		return
	}

	if kind, ok := juxta.ParseRevisionKind(local); ok {
		p.revisions = append(p.revisions, revisionFrame{
			kind:     kind,
			excluded: excluded,
			start:    p.pos,
			content:  &strings.Builder{},
		})
		return
	}

	switch local {
	case "note":
		p.startNote(t.Attr)
	case "pb":
		pb := &juxta.PageBreak{Offset: p.pos}
		if n, ok := attr(t.Attr, "n"); ok {
			pb.Label = n
		}
		p.out.PageBreaks = append(p.out.PageBreaks, pb)
	default:
		if excluded {
			p.excluding = append(p.excluding, name)
			return
		}
		p.pushID(t.Attr)
	}
}

func (p *pass) endElement(el element) {
	if p.excludingNow() {
		p.excluding = p.excluding[:len(p.excluding)-1]
		return
	}

	local := el.raw.Local

	if p.witness != nil && isReading(local) {
		p.closeOrdinary(el)
		return
	}

	if _, ok := juxta.ParseRevisionKind(local); ok {
		p.endRevision()
		return
	}

	switch local {
	case "note":
		p.endNote()
	case "pb":
		// A page break implies a line break.
		if !p.inNote() {
			p.advance("\n")
		}
	default:
		p.closeOrdinary(el)
	}
}

// closeOrdinary closes the identifier scope of el and applies its line
// break, if any.
func (p *pass) closeOrdinary(el element) {
	p.popID()

	if !p.rules.HasLineBreak(el.name, el.occurrence) {
		return
	}
	if p.inNote() {
		p.notes[len(p.notes)-1].text.WriteString(LineBreakMarker)
		return
	}
	if p.included() {
		p.advance("\n")
	}
}

func (p *pass) characters(raw string) {
	if p.excludingNow() {
		return
	}

	var txt string
	if p.normalize {
		txt = normalizeSpace(raw)
	} else {
		txt = stripLineBreaks(raw)
	}

	if p.inNote() {
		p.notes[len(p.notes)-1].text.WriteString(txt)
		return
	}
	if p.included() {
		p.advance(txt)
	}
	if len(p.revisions) > 0 {
		p.revisions[len(p.revisions)-1].content.WriteString(txt)
	}
}

func (p *pass) endDocument() {
	for _, note := range p.out.Notes {
		if note.TargetID == "" {
			continue
		}
		if r, ok := p.lookup(note.TargetID); ok {
			note.Anchor = r
		}
	}
}

func (p *pass) result() *juxta.Extraction {
	out := p.out
	out.Length = p.pos
	if p.text != nil {
		out.Text = p.text.String()
	}
	return &out
}

// advance moves the position past s and appends s to the witness text.
func (p *pass) advance(s string) {
	p.pos += int64(utf8.RuneCountInString(s))
	if p.text != nil {
		p.text.WriteString(s)
	}
}

func (p *pass) excludingNow() bool {
	return len(p.excluding) > 0
}

func (p *pass) inNote() bool {
	return len(p.notes) > 0
}

// included reports whether text at the current point occupies positions:
// true outside revisions and inside revisions that were not excluded.
func (p *pass) included() bool {
	return len(p.revisions) == 0 || !p.revisions[len(p.revisions)-1].excluded
}

func (p *pass) qualify(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	if ns := p.rules.DefaultNamespace(); ns != "" {
		return ns + ":" + n.Local
	}
	return n.Local
}

func (p *pass) pushID(attrs []xml.Attr) {
	id, ok := attr(attrs, "id")
	if ok {
		p.index[id] = juxta.NewRange(p.pos)
	}
	p.ids = append(p.ids, idFrame{id: id, hasID: ok, start: p.pos})
}

func (p *pass) popID() {
	if len(p.ids) == 0 {
		return
	}
	f := p.ids[len(p.ids)-1]
	p.ids = p.ids[:len(p.ids)-1]
	if f.hasID {
		p.index[f.id] = juxta.Range{Start: f.start, End: p.pos}
	}
}

// lookup resolves a note target. TEI pointers carry a leading '#'.
func (p *pass) lookup(target string) (juxta.Range, bool) {
	if r, ok := p.index[target]; ok {
		return r, true
	}
	r, ok := p.index[strings.TrimPrefix(target, "#")]
	return r, ok
}

func (p *pass) endRevision() {
	if len(p.revisions) == 0 {
		return
	}
	f := p.revisions[len(p.revisions)-1]
	p.revisions = p.revisions[:len(p.revisions)-1]
	p.out.Revisions = append(p.out.Revisions, &juxta.RevisionSpan{
		Kind:     f.kind,
		Range:    juxta.Range{Start: f.start, End: p.pos},
		Content:  f.content.String(),
		Included: !f.excluded,
	})
}

func (p *pass) startNote(attrs []xml.Attr) {
	note := &juxta.Note{Anchor: juxta.NewRange(p.pos)}
	if v, ok := attr(attrs, "type"); ok {
		note.Type = v
	}
	if v, ok := attr(attrs, "target"); ok {
		note.TargetID = v
	}
	p.notes = append(p.notes, noteFrame{note: note, text: &strings.Builder{}})
}

func (p *pass) endNote() {
	if len(p.notes) == 0 {
		return
	}
	f := p.notes[len(p.notes)-1]
	p.notes = p.notes[:len(p.notes)-1]

	content := collapseSpace(f.text.String())
	if content == "" {
		return
	}
	f.note.Content = content
	p.out.Notes = append(p.out.Notes, f.note)
}

// matchesWitness checks the wit (or lem) attribute of a reading: a space
// separated list of '#'-prefixed witness or group ids.
func (p *pass) matchesWitness(attrs []xml.Attr) bool {
	v, ok := attr(attrs, "wit")
	if !ok {
		v, ok = attr(attrs, "lem")
		if !ok {
			return false
		}
	}
	for _, id := range strings.Fields(strings.ReplaceAll(v, "#", "")) {
		if p.witness.Matches(id) {
			return true
		}
	}
	return false
}

// isReading reports whether the tag holds the content of an alternative
// reading in a parallel segmented source.
func isReading(local string) bool {
	return local == "rdg" || local == "lem"
}

// attr returns the value of the attribute with the given local name,
// ignoring any prefix. The boolean is false when the attribute is absent.
func attr(attrs []xml.Attr, local string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// charsetReader decodes documents that declare an encoding other than
// UTF-8.
func (p *pass) charsetReader(label string, input io.Reader) (io.Reader, error) {
	r, err := charset.NewReaderLabel(label, input)
	if err != nil {
		p.charsetErr = juxta.Errorf(juxta.EINVALID, "malformed markup: unsupported encoding %q", label)
		return nil, err
	}
	return r, nil
}

func markupError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return juxta.Errorf(juxta.EINVALID, "malformed markup: line %d: %s", syntaxErr.Line, syntaxErr.Msg)
	}
	return fmt.Errorf("read markup: %w", err)
}

var (
	externalSubset = regexp.MustCompile(`^DOCTYPE\s+[^\s\[>]+\s+(?:SYSTEM|PUBLIC)\s`)
	entityRef      = regexp.MustCompile(`&([A-Za-z_:][-A-Za-z0-9._:]*);`)
)

var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%]\S*)\s+(?:"([^"]*)"|'([^']*)'|(SYSTEM|PUBLIC)\s)`)

// declareEntities registers the general entities of a DOCTYPE internal
// subset. External entities resolve to empty content and are never
// fetched; neither is an external DTD.
func declareEntities(entities map[string]string, d xml.Directive) {
	for _, m := range entityDecl.FindAllSubmatch(d, -1) {
		name := string(m[1])
		if _, ok := entities[name]; ok {
			continue
		}
		switch {
		case m[4] != nil:
			entities[name] = ""
		case m[2] != nil:
			entities[name] = string(m[2])
		default:
			entities[name] = string(m[3])
		}
	}
}

// blankUndeclared resolves every entity that may come from an external DTD
// to empty content: the HTML entity names and each name referenced in src.
// Entities already declared keep their values.
func blankUndeclared(entities map[string]string, src []byte) {
	for name := range xml.HTMLEntity {
		if _, ok := entities[name]; !ok {
			entities[name] = ""
		}
	}
	for _, m := range entityRef.FindAllSubmatch(src, -1) {
		name := string(m[1])
		if _, ok := entities[name]; !ok {
			entities[name] = ""
		}
	}
}
