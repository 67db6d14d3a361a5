// Package importer turns a parallel segmented source into the witnesses of
// a comparison set. It coordinates witness discovery, per-witness
// extraction, storage, and the downstream tokenize and collate steps.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/juxta"
)

// Importer imports multi-witness sources into comparison sets.
type Importer struct {
	Sets       juxta.ComparisonSetService
	Sources    juxta.SourceService
	Witnesses  juxta.WitnessService
	Notes      juxta.NoteService
	PageBreaks juxta.PageBreakService
	Revisions  juxta.RevisionService
	Alignments juxta.AlignmentService
	Cache      juxta.CacheService
	Parser     juxta.WitnessParser
	Extractor  juxta.Extractor
	Tokenizer  juxta.Tokenizer
	Collator   juxta.Collator

	Rules          juxta.RuleProvider
	NormalizeSpace bool

	// DeferCollation skips the tokenize and collate steps. The set is
	// left in its current status.
	DeferCollation bool
}

// TaskName returns the task name an import into set runs under.
func TaskName(setID string) string {
	return "import-" + setID
}

// Task wraps an import of sourceID into set as a lightweight task.
func (i *Importer) Task(set *juxta.ComparisonSet, sourceID string) *juxta.Task {
	return &juxta.Task{
		Name: TaskName(set.ID),
		Type: juxta.TaskImport,
		Run: func(ctx context.Context, status juxta.StatusSink) error {
			return i.Import(ctx, set, sourceID, status)
		},
	}
}

// Import replaces the witnesses of set with those extracted from the
// source. A failure in any phase aborts the import; work already done is
// not rolled back. status may be nil.
func (i *Importer) Import(ctx context.Context, set *juxta.ComparisonSet, sourceID string, status juxta.StatusSink) error {
	if status == nil {
		status = discard{}
	}
	if !i.DeferCollation && (i.Tokenizer == nil || i.Collator == nil) {
		return juxta.Errorf(juxta.EINVALID, "collation requested without tokenizer and collator")
	}

	if i.DeferCollation {
		status.SetSteps(3)
	} else {
		status.SetSteps(5)
	}

	src, err := i.readSource(ctx, sourceID)
	if err != nil {
		return err
	}

	existing, err := i.reset(ctx, set)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	status.Step()

	status.SetNote("Extract witness information")
	infos, err := i.Parser.ParseWitnesses(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("identify witnesses: %w", err)
	}
	status.Step()

	if err := i.extractAll(ctx, set, sourceID, src, infos, existing, status); err != nil {
		return err
	}
	status.Step()

	if i.DeferCollation {
		status.SetNote("Import successful")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := i.collate(ctx, set, status); err != nil {
		if serr := i.Sets.UpdateSetStatus(ctx, set.ID, juxta.SetError); serr == nil {
			set.Status = juxta.SetError
		}
		return err
	}

	status.SetNote("Import successful")
	return nil
}

func (i *Importer) readSource(ctx context.Context, id string) ([]byte, error) {
	rc, err := i.Sources.OpenSource(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", id, err)
	}
	return b, nil
}

// reset clears derived data and annotations of the set's current
// witnesses and detaches them. The witness records are returned for reuse.
func (i *Importer) reset(ctx context.Context, set *juxta.ComparisonSet) ([]*juxta.Witness, error) {
	members, err := i.Sets.FindSetWitnesses(ctx, set.ID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	if err := i.Cache.DeleteHeatmap(ctx, set.ID); err != nil {
		return nil, err
	}
	if err := i.Alignments.ClearAlignments(ctx, set.ID); err != nil {
		return nil, err
	}
	for _, w := range members {
		if err := i.clearAnnotations(ctx, w.ID); err != nil {
			return nil, err
		}
	}
	if err := i.Sets.RemoveSetWitnesses(ctx, set.ID); err != nil {
		return nil, err
	}
	return members, nil
}

func (i *Importer) clearAnnotations(ctx context.Context, witnessID string) error {
	if err := i.Notes.DeleteNotes(ctx, witnessID); err != nil {
		return err
	}
	if err := i.PageBreaks.DeletePageBreaks(ctx, witnessID); err != nil {
		return err
	}
	return i.Revisions.DeleteRevisions(ctx, witnessID)
}

func (i *Importer) extractAll(ctx context.Context, set *juxta.ComparisonSet, sourceID string, src []byte,
	infos []juxta.WitnessInfo, existing []*juxta.Witness, status juxta.StatusSink) error {
	m := newMatcher(existing)

	var ids []string
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}
		status.SetNote(fmt.Sprintf("Parse witness %s - '%s'", info.GroupID, info.Name))

		ext, err := i.Extractor.Extract(ctx, bytes.NewReader(src), juxta.ExtractOptions{
			Rules:          i.Rules,
			NormalizeSpace: i.NormalizeSpace,
			Witness:        &info,
		})
		if err != nil {
			return fmt.Errorf("extract witness %s: %w", info.ID, err)
		}

		w, err := i.store(ctx, m, sourceID, info, ext)
		if err != nil {
			return fmt.Errorf("store witness %s: %w", info.ID, err)
		}
		ids = append(ids, w.ID)
	}

	return i.Sets.AddSetWitnesses(ctx, set.ID, ids)
}

// store creates or updates the witness record for one extraction and
// attaches its annotations.
func (i *Importer) store(ctx context.Context, m *matcher, sourceID string, info juxta.WitnessInfo, ext *juxta.Extraction) (*juxta.Witness, error) {
	w, fresh, err := i.resolve(ctx, m, info.Name)
	if err != nil {
		return nil, err
	}

	if w == nil {
		w = &juxta.Witness{Name: info.Name, GroupID: info.GroupID, SourceID: sourceID, Content: ext.Text}
		if err := i.Witnesses.CreateWitness(ctx, w); err != nil {
			return nil, err
		}
	} else {
		if !fresh {
			if err := i.clearAnnotations(ctx, w.ID); err != nil {
				return nil, err
			}
		}
		if w, err = i.Witnesses.UpdateWitnessContent(ctx, w.ID, ext.Text); err != nil {
			return nil, err
		}
	}
	m.claim(w.ID)

	if err := i.Notes.CreateNotes(ctx, w.ID, ext.Notes); err != nil {
		return nil, err
	}
	if err := i.PageBreaks.CreatePageBreaks(ctx, w.ID, ext.PageBreaks); err != nil {
		return nil, err
	}
	if err := i.Revisions.CreateRevisions(ctx, w.ID, ext.Revisions); err != nil {
		return nil, err
	}
	return w, nil
}

// resolve finds the witness to update for name: a former set member
// first, then any stored witness with that name. fresh reports whether
// the witness was already cleared by the reset phase.
func (i *Importer) resolve(ctx context.Context, m *matcher, name string) (w *juxta.Witness, fresh bool, err error) {
	if w := m.member(name); w != nil {
		return w, true, nil
	}

	found, err := i.Witnesses.FindWitnesses(ctx, juxta.WitnessFilter{Name: &name})
	if err != nil {
		return nil, false, err
	}
	for _, w := range found {
		if !m.claimed(w.ID) {
			return w, false, nil
		}
	}
	return nil, false, nil
}

func (i *Importer) collate(ctx context.Context, set *juxta.ComparisonSet, status juxta.StatusSink) error {
	if err := i.Sets.UpdateSetStatus(ctx, set.ID, juxta.SetCollating); err != nil {
		return err
	}
	set.Status = juxta.SetCollating

	cfg, err := i.Sets.FindCollatorConfig(ctx, set.ID)
	if err != nil {
		return err
	}

	status.SetNote("Tokenizing comparison set")
	if err := i.Tokenizer.Tokenize(ctx, set, cfg, status); err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	status.Step()

	status.SetNote("Collating comparison set")
	if err := i.Collator.Collate(ctx, set, cfg, status); err != nil {
		return fmt.Errorf("collate: %w", err)
	}
	status.Step()

	if err := i.Sets.UpdateSetStatus(ctx, set.ID, juxta.SetCollated); err != nil {
		return err
	}
	set.Status = juxta.SetCollated
	return nil
}

// matcher tracks former set members and the witnesses already written by
// the current import, so two witnesses sharing a name never collapse into
// one record.
type matcher struct {
	members []*juxta.Witness
	used    map[string]bool
}

func newMatcher(members []*juxta.Witness) *matcher {
	return &matcher{members: members, used: make(map[string]bool)}
}

func (m *matcher) member(name string) *juxta.Witness {
	for _, w := range m.members {
		if w.Name == name && !m.used[w.ID] {
			return w
		}
	}
	return nil
}

func (m *matcher) claim(id string) { m.used[id] = true }

func (m *matcher) claimed(id string) bool { return m.used[id] }

type discard struct{}

func (discard) SetSteps(int)   {}
func (discard) Step()          {}
func (discard) SetNote(string) {}
