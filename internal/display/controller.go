package display

import "errors"

// ErrApplyUnsupported is returned by backends that can enumerate
// outputs but cannot change their configuration.
var ErrApplyUnsupported = errors.New("applying layouts is not supported on this backend")

// Controller enumerates outputs and applies batched layout changes.
type Controller interface {
	// Outputs lists every output known to the backend, connected or
	// not, with the active geometry for outputs that have one.
	Outputs() ([]Output, error)
	// Apply issues all commands as a single batched operation so that
	// outputs never settle in a mixed layout.
	Apply(batch []Command) error
}
