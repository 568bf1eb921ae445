// Package engine applies stored profiles to the display hardware.
package engine

import (
	"fmt"
	"log"

	"github.com/frudas24/displayshift/internal/display"
	"github.com/frudas24/displayshift/internal/layout"
	"github.com/frudas24/displayshift/internal/profile"
)

// Result describes the outcome of an apply.
type Result int

const (
	// ResultApplied means the layout was issued to the hardware.
	ResultApplied Result = iota
	// ResultUnchanged means the stored layout already matched the live
	// state and nothing was issued.
	ResultUnchanged
	// ResultNoLayout means the profile has no config record to apply.
	ResultNoLayout
)

// Engine turns a selected profile into display-control commands.
type Engine struct {
	store *profile.Store
	ctrl  display.Controller
}

// New returns an engine applying profiles from the store through the
// controller.
func New(store *profile.Store, ctrl display.Controller) *Engine {
	return &Engine{store: store, ctrl: ctrl}
}

// Apply loads the named profile's layout and issues it as one batch.
//
// Unless force is set, a layout equal to the current snapshot is not
// reapplied. On success the profile post-switch hook runs first, then
// the global one; hook failures are logged and never undo the applied
// layout.
func (e *Engine) Apply(name string, force bool) (Result, error) {
	stored, err := e.store.ReadLayout(name)
	if err != nil {
		return 0, err
	}
	if len(stored) == 0 {
		return ResultNoLayout, nil
	}

	if !force {
		outputs, err := e.ctrl.Outputs()
		if err != nil {
			return 0, err
		}
		if layout.Snapshot(outputs).Equal(stored) {
			return ResultUnchanged, nil
		}
	}

	if err := e.ctrl.Apply(stored.Commands()); err != nil {
		return 0, fmt.Errorf("apply %s: %w", name, err)
	}

	e.runHooks(name)
	return ResultApplied, nil
}

// Save records the current layout under the given name along with the
// fingerprint the hardware had when it was taken.
func (e *Engine) Save(name, fp string) error {
	outputs, err := e.ctrl.Outputs()
	if err != nil {
		return err
	}
	return e.store.Write(name, fp, layout.Snapshot(outputs))
}

// runHooks fires the post-switch hooks after a successful apply.
func (e *Engine) runHooks(name string) {
	if e.store.HasProfileHook(name) {
		if status, err := e.store.RunProfileHook(name); err != nil {
			log.Printf("postswitch %s: %v", name, err)
		} else if status != 0 {
			log.Printf("postswitch %s: exit status %d", name, status)
		}
	}
	if e.store.HasGlobalHook() {
		if status, err := e.store.RunGlobalHook(name); err != nil {
			log.Printf("postswitch global: %v", err)
		} else if status != 0 {
			log.Printf("postswitch global: exit status %d", status)
		}
	}
}
