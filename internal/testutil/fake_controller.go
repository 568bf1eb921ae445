// Package testutil provides fake collaborators for tests.
package testutil

import "github.com/frudas24/displayshift/internal/display"

// FakeController implements display.Controller from canned data and
// records every batch it is asked to apply.
type FakeController struct {
	OutputsList []display.Output
	OutputsErr  error
	Applied     [][]display.Command
	ApplyErr    error
}

// Ensure FakeController implements the interface.
var _ display.Controller = (*FakeController)(nil)

// Outputs returns the canned output list.
func (f *FakeController) Outputs() ([]display.Output, error) {
	if f.OutputsErr != nil {
		return nil, f.OutputsErr
	}
	return f.OutputsList, nil
}

// Apply records the batch.
func (f *FakeController) Apply(batch []display.Command) error {
	if f.ApplyErr != nil {
		return f.ApplyErr
	}
	f.Applied = append(f.Applied, batch)
	return nil
}
