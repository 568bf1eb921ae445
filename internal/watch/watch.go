// Package watch reruns detection when the display hardware changes.
package watch

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/frudas24/displayshift/internal/fingerprint"
)

// Watcher polls the hardware fingerprint and fires a callback when it
// changes. The first successful poll always fires so a freshly started
// watcher settles the layout immediately.
type Watcher struct {
	interval time.Duration
	detect   func() (string, error)
	onChange func(fp string)
}

// New returns a watcher polling at the interval, reading fingerprints
// through detect and reporting changes through onChange.
func New(interval time.Duration, detect func() (string, error), onChange func(string)) *Watcher {
	return &Watcher{interval: interval, detect: detect, onChange: onChange}
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last := ""
	seen := false
	for {
		fp, err := w.detect()
		switch {
		case errors.Is(err, fingerprint.ErrNoIdentityData):
			// Unknown hardware; keep the last applied layout.
		case err != nil:
			log.Printf("watch: %v", err)
		case !seen || fp != last:
			last = fp
			seen = true
			w.onChange(fp)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
