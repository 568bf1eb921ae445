package testutil

import "github.com/frudas24/displayshift/internal/hook"

// HookCall records a single hook execution.
type HookCall struct {
	Path string
	Args []string
}

// FakeRunner implements hook.Runner and records calls. Exit statuses
// come from StatusFor when set, otherwise from the Status map keyed by
// script path, otherwise zero.
type FakeRunner struct {
	Calls     []HookCall
	Status    map[string]int
	StatusFor func(path string, args ...string) int
	Err       error
}

// Ensure FakeRunner implements the interface.
var _ hook.Runner = (*FakeRunner)(nil)

// Run records the call and returns the configured status.
func (f *FakeRunner) Run(path string, args ...string) (int, error) {
	f.Calls = append(f.Calls, HookCall{Path: path, Args: args})
	if f.Err != nil {
		return 0, f.Err
	}
	if f.StatusFor != nil {
		return f.StatusFor(path, args...), nil
	}
	return f.Status[path], nil
}
