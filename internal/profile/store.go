// Package profile persists named display profiles on the filesystem.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frudas24/displayshift/internal/hook"
	"github.com/frudas24/displayshift/internal/layout"
)

const (
	// setupFile holds the fingerprint recorded at save time.
	setupFile = "setup"
	// configFile holds the layout recorded at save time.
	configFile = "config"
	// blockFile is the optional block predicate script.
	blockFile = "block"
	// postswitchFile is the optional post-switch hook script.
	postswitchFile = "postswitch"
)

// Store reads and writes profile directories under a single root.
// A profile is a directory holding a setup record, a config record,
// and optional block/postswitch scripts; a postswitch script in the
// root itself is the global hook.
type Store struct {
	dir   string
	hooks hook.Runner
}

// New returns a store rooted at dir running hooks through the runner.
func New(dir string, hooks hook.Runner) *Store {
	return &Store{dir: dir, hooks: hooks}
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

// Names lists the stored profile names, sorted so enumeration order is
// stable within a run.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile store: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFingerprint returns the recorded fingerprint, or empty when the
// profile has no setup record and therefore cannot match.
func (s *Store) ReadFingerprint(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name, setupFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("profile %s: %w", name, err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}

// ReadLayout returns the recorded layout, or nil when the profile has
// no config record and therefore cannot be applied.
func (s *Store) ReadLayout(name string) (layout.Layout, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name, configFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	l, err := layout.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	return l, nil
}

// Write creates or overwrites a profile with the given fingerprint and
// layout. The setup record is written before the config record.
func (s *Store) Write(name, fp string, l layout.Layout) error {
	dir := filepath.Join(s.dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("profile %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, setupFile), []byte(fp+"\n"), 0o644); err != nil {
		return fmt.Errorf("profile %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(l.Encode()), 0o644); err != nil {
		return fmt.Errorf("profile %s: %w", name, err)
	}
	return nil
}

// Remove deletes a profile directory.
func (s *Store) Remove(name string) error {
	dir := filepath.Join(s.dir, name)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("profile %s: %w", name, err)
	}
	return os.RemoveAll(dir)
}

// HasBlockHook reports whether the profile carries a block predicate.
func (s *Store) HasBlockHook(name string) bool {
	return fileExists(filepath.Join(s.dir, name, blockFile))
}

// RunBlockHook executes the block predicate with the profile name and
// returns its exit status.
func (s *Store) RunBlockHook(name string) (int, error) {
	return s.hooks.Run(filepath.Join(s.dir, name, blockFile), name)
}

// HasProfileHook reports whether the profile carries a post-switch hook.
func (s *Store) HasProfileHook(name string) bool {
	return fileExists(filepath.Join(s.dir, name, postswitchFile))
}

// RunProfileHook executes the profile post-switch hook.
func (s *Store) RunProfileHook(name string) (int, error) {
	return s.hooks.Run(filepath.Join(s.dir, name, postswitchFile), name)
}

// HasGlobalHook reports whether the store carries a global post-switch hook.
func (s *Store) HasGlobalHook() bool {
	return fileExists(filepath.Join(s.dir, postswitchFile))
}

// RunGlobalHook executes the global post-switch hook with the profile name.
func (s *Store) RunGlobalHook(name string) (int, error) {
	return s.hooks.Run(filepath.Join(s.dir, postswitchFile), name)
}

// Blocked runs the block gate for a profile. A profile with no block
// hook is never blocked; otherwise exit status zero means blocked and
// any non-zero status means not blocked. The convention is inverted on
// purpose; existing block scripts depend on it.
func (s *Store) Blocked(name string) bool {
	if !s.HasBlockHook(name) {
		return false
	}
	status, err := s.RunBlockHook(name)
	if err != nil {
		return false
	}
	return status == 0
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
