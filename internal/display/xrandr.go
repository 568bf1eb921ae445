package display

import (
	"encoding/hex"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// XRandR drives an X display through the xrandr binary.
type XRandR struct {
	// Path is the xrandr binary, resolved through PATH when relative.
	Path string
}

// NewXRandR returns an xrandr-backed controller.
func NewXRandR(path string) *XRandR {
	if path == "" {
		path = "xrandr"
	}
	return &XRandR{Path: path}
}

// Ensure XRandR implements the interface.
var _ Controller = (*XRandR)(nil)

// outputLine matches an output header in xrandr query output.
var outputLine = regexp.MustCompile(`^(\S+) (connected|disconnected)\b(.*)$`)

// geometryField matches an active geometry like 1920x1080+0+0.
var geometryField = regexp.MustCompile(`\b(\d+x\d+)\+(\d+)\+(\d+)\b`)

// Outputs runs a query and parses the per-output state.
func (x *XRandR) Outputs() ([]Output, error) {
	raw, err := x.query("-q")
	if err != nil {
		return nil, err
	}
	return ParseOutputs(raw), nil
}

// EDIDs runs a verbose query and returns the raw EDID blob per output.
// Outputs without an EDID block are absent from the map.
func (x *XRandR) EDIDs() (map[string][]byte, error) {
	raw, err := x.query("-q", "--verbose")
	if err != nil {
		return nil, err
	}
	return ParseEDIDs(raw), nil
}

// Apply issues the whole batch as one xrandr invocation.
func (x *XRandR) Apply(batch []Command) error {
	if len(batch) == 0 {
		return nil
	}
	args := make([]string, 0, len(batch)*6)
	for _, c := range batch {
		args = append(args, "--output", c.Output)
		if c.Off {
			args = append(args, "--off")
			continue
		}
		args = append(args, "--mode", c.Mode, "--pos", c.Pos)
	}
	out, err := exec.Command(x.Path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("xrandr apply failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// query runs xrandr with the given arguments and returns stdout.
func (x *XRandR) query(args ...string) (string, error) {
	out, err := exec.Command(x.Path, args...).Output()
	if err != nil {
		return "", fmt.Errorf("xrandr query failed: %w", err)
	}
	return string(out), nil
}

// ParseOutputs extracts per-output state from xrandr query output.
func ParseOutputs(raw string) []Output {
	var outputs []Output
	for _, line := range strings.Split(raw, "\n") {
		m := outputLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		o := Output{Name: m[1], Connected: m[2] == "connected"}
		if g := geometryField.FindStringSubmatch(m[3]); g != nil {
			o.Mode = g[1]
			o.Pos = g[2] + "x" + g[3]
		}
		outputs = append(outputs, o)
	}
	return outputs
}

// ParseEDIDs extracts hex EDID blocks from xrandr verbose output.
func ParseEDIDs(raw string) map[string][]byte {
	edids := make(map[string][]byte)
	current := ""
	inBlock := false
	var hexText strings.Builder

	flush := func() {
		if !inBlock {
			return
		}
		inBlock = false
		if current == "" {
			hexText.Reset()
			return
		}
		blob, err := hex.DecodeString(hexText.String())
		hexText.Reset()
		if err == nil && len(blob) > 0 {
			edids[current] = blob
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if m := outputLine.FindStringSubmatch(line); m != nil {
			flush()
			current = m[1]
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "EDID:" {
			flush()
			inBlock = true
			continue
		}
		if inBlock {
			if isHexLine(trimmed) {
				hexText.WriteString(trimmed)
				continue
			}
			flush()
		}
	}
	flush()
	return edids
}

// isHexLine reports whether a line is a non-empty run of hex digits.
func isHexLine(s string) bool {
	if s == "" || len(s)%2 != 0 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
