// Package match selects the stored profile for the current hardware.
package match

import (
	"github.com/frudas24/displayshift/internal/profile"
)

// Verdict classifies how the selector treated a considered profile.
type Verdict int

const (
	// VerdictSkipped means the fingerprint did not match.
	VerdictSkipped Verdict = iota
	// VerdictBlocked means the block hook vetoed the profile.
	VerdictBlocked
	// VerdictMatched means the profile was selected.
	VerdictMatched
)

// Selection is the outcome of a successful scan.
type Selection struct {
	Name string
	// Fallback is set when the selection is the configured default
	// rather than a fingerprint match.
	Fallback bool
}

// Selector scans the store for a profile matching a fingerprint.
type Selector struct {
	store *profile.Store
	// fallback is applied when nothing matches; empty disables it.
	fallback string
	// report receives one event per considered profile; may be nil.
	report func(name string, v Verdict)
}

// New returns a selector over the store with an optional fallback
// profile and an optional per-profile report callback.
func New(store *profile.Store, fallback string, report func(string, Verdict)) *Selector {
	return &Selector{store: store, fallback: fallback, report: report}
}

// Select scans profiles in enumeration order and returns the first one
// whose recorded fingerprint equals current. Blocked profiles are
// skipped before their fingerprint is compared. When nothing matches,
// the configured fallback is returned without any gate or fingerprint
// check; the second return is false only when there is no fallback
// either.
func (s *Selector) Select(current string) (Selection, bool, error) {
	names, err := s.store.Names()
	if err != nil {
		return Selection{}, false, err
	}

	for _, name := range names {
		if s.store.Blocked(name) {
			s.emit(name, VerdictBlocked)
			continue
		}
		fp, err := s.store.ReadFingerprint(name)
		if err != nil {
			return Selection{}, false, err
		}
		// An empty record means the profile is unmatchable, and an
		// empty current fingerprint means the hardware is unknown.
		if fp == "" || current == "" || fp != current {
			s.emit(name, VerdictSkipped)
			continue
		}
		s.emit(name, VerdictMatched)
		return Selection{Name: name}, true, nil
	}

	if s.fallback != "" {
		return Selection{Name: s.fallback, Fallback: true}, true, nil
	}
	return Selection{}, false, nil
}

// emit reports a per-profile event when a callback is configured.
func (s *Selector) emit(name string, v Verdict) {
	if s.report != nil {
		s.report(name, v)
	}
}
