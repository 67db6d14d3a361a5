package main

import (
	"fmt"

	"github.com/fwojciec/juxta"
)

// Run executes the sets command.
func (c *SetsCmd) Run(deps *Dependencies) error {
	sets, err := deps.Sets.FindSets(deps.Ctx, juxta.SetFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", juxta.ErrorMessage(err))
		return err
	}

	if len(sets) == 0 {
		fmt.Fprintln(deps.Stdout, "No comparison sets found. Use 'juxta import' to create one.")
		return nil
	}

	for _, s := range sets {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", s.ID, s.Name, s.Status)
	}

	return nil
}
