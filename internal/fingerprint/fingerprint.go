// Package fingerprint derives a stable identity for the connected displays.
package fingerprint

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/frudas24/displayshift/internal/display"
)

// ErrNoIdentityData means no acquisition method produced identity data;
// callers must treat the current configuration as unknown.
var ErrNoIdentityData = errors.New("no display identity data available")

// Provider is one identity acquisition method. It returns a blob per
// output name; outputs it cannot identify are absent from the map.
type Provider interface {
	Name() string
	Identities(outputs []display.Output) (map[string][]byte, error)
}

// Compute builds the fingerprint string for the connected outputs.
//
// Providers are tried in order; the first one returning identity data
// for any connected output supplies blobs for the whole fingerprint.
// Entries are sorted by output name so the result does not depend on
// the enumeration order of the underlying interface. Connected outputs
// the winning provider has no blob for contribute a synthesized
// "connected" identity.
func Compute(outputs []display.Output, providers ...Provider) (string, error) {
	names := connectedNames(outputs)
	if len(names) == 0 {
		return "", ErrNoIdentityData
	}

	for _, p := range providers {
		ids, err := p.Identities(outputs)
		if err != nil {
			debugf("fingerprint: %s failed: %v", p.Name(), err)
			continue
		}
		if !anyIdentity(names, ids) {
			debugf("fingerprint: %s yielded no data", p.Name())
			continue
		}
		debugf("fingerprint: using %s", p.Name())
		return join(names, ids), nil
	}
	return "", ErrNoIdentityData
}

// connectedNames returns the sorted names of connected outputs.
func connectedNames(outputs []display.Output) []string {
	var names []string
	for _, o := range outputs {
		if o.Connected {
			names = append(names, o.Name)
		}
	}
	sort.Strings(names)
	return names
}

// anyIdentity reports whether ids covers any listed output.
func anyIdentity(names []string, ids map[string][]byte) bool {
	for _, n := range names {
		if _, ok := ids[n]; ok {
			return true
		}
	}
	return false
}

// join renders sorted name=identity entries as a single line.
func join(names []string, ids map[string][]byte) string {
	entries := make([]string, 0, len(names))
	for _, n := range names {
		blob := ids[n]
		if len(blob) == 0 {
			entries = append(entries, n+"=connected")
			continue
		}
		entries = append(entries, fmt.Sprintf("%s=%s", n, hex.EncodeToString(blob)))
	}
	return strings.Join(entries, ";")
}
