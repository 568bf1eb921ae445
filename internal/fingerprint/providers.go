package fingerprint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/frudas24/displayshift/internal/display"
)

// XRandREDID reads EDID blobs from a verbose xrandr query. It is the
// preferred method because it sees exactly what the X server sees.
type XRandREDID struct {
	X *display.XRandR
}

// Name identifies the method in debug logs.
func (p XRandREDID) Name() string { return "xrandr-edid" }

// Identities returns the EDID blob per output.
func (p XRandREDID) Identities(_ []display.Output) (map[string][]byte, error) {
	return p.X.EDIDs()
}

// SysfsEDID reads EDID blobs from the kernel DRM connector tree. It is
// the fallback when the X server does not expose EDID properties.
type SysfsEDID struct {
	// Root is the connector tree, /sys/class/drm when empty.
	Root string
}

// Name identifies the method in debug logs.
func (p SysfsEDID) Name() string { return "sysfs-edid" }

// Identities scans card*-<connector> directories for edid files.
func (p SysfsEDID) Identities(_ []display.Output) (map[string][]byte, error) {
	root := p.Root
	if root == "" {
		root = "/sys/class/drm"
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	ids := make(map[string][]byte)
	for _, e := range entries {
		connector := connectorName(e.Name())
		if connector == "" {
			continue
		}
		blob, err := os.ReadFile(filepath.Join(root, e.Name(), "edid"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if len(blob) > 0 {
			ids[connector] = blob
		}
	}
	return ids, nil
}

// connectorName maps a sysfs entry like card0-HDMI-A-1 to its
// connector name, or empty when the entry is not a connector.
func connectorName(entry string) string {
	if !strings.HasPrefix(entry, "card") {
		return ""
	}
	rest := entry[len("card"):]
	i := strings.Index(rest, "-")
	if i < 0 || i == 0 {
		return ""
	}
	for _, r := range rest[:i] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return rest[i+1:]
}

// Presence synthesizes identities from connection state alone. It is
// the last resort on backends without EDID access; plugging the same
// connectors always yields the same fingerprint, but two different
// monitors on one connector are indistinguishable.
type Presence struct{}

// Name identifies the method in debug logs.
func (p Presence) Name() string { return "presence" }

// Identities marks every connected output with an empty blob so the
// fingerprint uses the synthesized "connected" entry.
func (p Presence) Identities(outputs []display.Output) (map[string][]byte, error) {
	ids := make(map[string][]byte)
	for _, o := range outputs {
		if o.Connected {
			ids[o.Name] = nil
		}
	}
	return ids, nil
}
