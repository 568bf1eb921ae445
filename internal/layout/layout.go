// Package layout models per-output directives and their on-disk text form.
package layout

import (
	"fmt"
	"strings"

	"github.com/frudas24/displayshift/internal/display"
)

// Directive is one per-output instruction inside a layout.
type Directive struct {
	Output string
	// Off disables the output; Mode/Pos are empty when set.
	Off  bool
	Mode string
	Pos  string
}

// Layout is an ordered sequence of per-output directives.
type Layout []Directive

// Snapshot describes the live state of every output as a layout,
// using the same text form the profile store persists.
func Snapshot(outputs []display.Output) Layout {
	l := make(Layout, 0, len(outputs))
	for _, o := range outputs {
		if !o.Active() {
			l = append(l, Directive{Output: o.Name, Off: true})
			continue
		}
		l = append(l, Directive{Output: o.Name, Mode: o.Mode, Pos: o.Pos})
	}
	return l
}

// Encode renders the layout in the persisted text form: an "output"
// line followed by either "off" or "mode"/"pos" lines per output.
func (l Layout) Encode() string {
	var b strings.Builder
	for _, d := range l {
		fmt.Fprintf(&b, "output %s\n", d.Output)
		if d.Off {
			b.WriteString("off\n")
			continue
		}
		fmt.Fprintf(&b, "mode %s\n", d.Mode)
		fmt.Fprintf(&b, "pos %s\n", d.Pos)
	}
	return b.String()
}

// Equal reports whether two layouts are the same directive sequence.
// Comparison is by encoded text so it matches the persisted form.
func (l Layout) Equal(other Layout) bool {
	return l.Encode() == other.Encode()
}

// Commands translates the layout into a display-control batch.
func (l Layout) Commands() []display.Command {
	batch := make([]display.Command, 0, len(l))
	for _, d := range l {
		batch = append(batch, display.Command{
			Output: d.Output,
			Off:    d.Off,
			Mode:   d.Mode,
			Pos:    d.Pos,
		})
	}
	return batch
}

// Decode parses the persisted text form back into a layout.
func Decode(text string) (Layout, error) {
	var l Layout
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "output":
			if value == "" {
				return nil, fmt.Errorf("layout: output line without a name")
			}
			l = append(l, Directive{Output: value})
		case "off":
			if err := expectCurrent(l, line); err != nil {
				return nil, err
			}
			l[len(l)-1].Off = true
		case "mode":
			if err := expectCurrent(l, line); err != nil {
				return nil, err
			}
			l[len(l)-1].Mode = value
		case "pos":
			if err := expectCurrent(l, line); err != nil {
				return nil, err
			}
			l[len(l)-1].Pos = value
		default:
			return nil, fmt.Errorf("layout: unknown directive %q", key)
		}
	}
	return l, nil
}

// expectCurrent ensures a directive line follows an output line.
func expectCurrent(l Layout, line string) error {
	if len(l) == 0 {
		return fmt.Errorf("layout: %q before any output line", line)
	}
	return nil
}
