package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/fwojciec/juxta"
)

// Run executes the witnesses command.
func (c *WitnessesCmd) Run(deps *Dependencies) error {
	set, err := findSet(deps, c.Set)
	if err != nil {
		if juxta.ErrorCode(err) == juxta.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: comparison set %q not found. Use 'juxta sets' to see available sets.\n", c.Set)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		}
		return err
	}

	witnesses, err := deps.Sets.FindSetWitnesses(deps.Ctx, set.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		return err
	}

	if len(witnesses) == 0 {
		fmt.Fprintf(deps.Stdout, "Set %q has no witnesses. Use 'juxta import %s <file>' to add some.\n", set.Name, set.Name)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Witnesses of %s (%s, %d total):\n\n", set.Name, set.Status, len(witnesses))
	for i, w := range witnesses {
		fmt.Fprintf(deps.Stdout, "  %d. %s [%s]  %d chars  %s\n", i+1, w.Name, w.GroupID,
			utf8.RuneCountInString(w.Content), w.ID)
		if c.Full {
			fmt.Fprintf(deps.Stdout, "\n%s\n\n", w.Content)
		}
	}

	return nil
}
