// Package display is the boundary to the display-control interface.
package display

// Output describes a single display connector as reported by the
// display-control interface.
type Output struct {
	Name      string
	Connected bool
	// Mode is the active resolution ("1920x1080"), empty when the
	// output has no active mode.
	Mode string
	// Pos is the active offset ("0x0"), empty when the output has no
	// active mode.
	Pos string
}

// Command is a single per-output change inside a batch apply.
type Command struct {
	Output string
	// Off disables the output; Mode/Pos are ignored when set.
	Off  bool
	Mode string
	Pos  string
}

// Active reports whether the output is connected with a live mode.
func (o Output) Active() bool {
	return o.Connected && o.Mode != ""
}
