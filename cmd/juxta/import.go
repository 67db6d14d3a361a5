package main

import (
	"fmt"

	"github.com/fwojciec/juxta"
	"github.com/fwojciec/juxta/task"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	rules, err := loadRules(c.Rules)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		return err
	}

	sourceID, err := deps.Sources.SourceID(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: Set --sources or JUXTA_SOURCES to a directory containing the file")
		return err
	}

	set, err := findSet(deps, c.Set)
	if juxta.ErrorCode(err) == juxta.ENOTFOUND {
		set = &juxta.ComparisonSet{Name: c.Set}
		err = deps.Sets.CreateSet(deps.Ctx, set)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		return err
	}

	deps.Importer.Rules = rules
	deps.Importer.NormalizeSpace = c.Normalize

	t := deps.Importer.Task(set, sourceID)
	if !deps.Tasks.Submit(t) {
		fmt.Fprintf(deps.Stderr, "error: an import into %q is already running\n", c.Set)
		return juxta.Errorf(juxta.ECONFLICT, "import into %q already running", c.Set)
	}

	final, err := task.Await(deps.Ctx, deps.Tasks, t.Name, c.Poll, func(s juxta.TaskSnapshot) {
		if s.Note != "" {
			fmt.Fprintf(deps.Stdout, "  [%3d%%] %s\n", s.Progress, s.Note)
		}
	})
	if err != nil {
		deps.Tasks.Cancel(t.Name)
		fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		return err
	}

	switch final.Status {
	case juxta.TaskComplete:
		members, err := deps.Sets.FindSetWitnesses(deps.Ctx, set.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Imported %d witnesses into %q (%s)\n", len(members), set.Name, set.ID)
		return nil
	case juxta.TaskCanceled:
		fmt.Fprintln(deps.Stderr, "error: import canceled")
		return juxta.Errorf(juxta.EINTERNAL, "import canceled")
	default:
		fmt.Fprintf(deps.Stderr, "error: import failed: %s\n", final.Note)
		return juxta.Errorf(juxta.EINTERNAL, "import failed: %s", final.Note)
	}
}
