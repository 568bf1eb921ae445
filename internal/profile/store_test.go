package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/frudas24/displayshift/internal/layout"
	"github.com/frudas24/displayshift/internal/testutil"
)

// TestWriteRead_RoundTrip verifies saving a profile preserves its
// fingerprint and layout.
func TestWriteRead_RoundTrip(t *testing.T) {
	store := New(t.TempDir(), &testutil.FakeRunner{})
	l := layout.Layout{
		{Output: "eDP-1", Mode: "1920x1080", Pos: "0x0"},
		{Output: "HDMI-1", Off: true},
	}

	if err := store.Write("mobile", "eDP-1=01", l); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	fp, err := store.ReadFingerprint("mobile")
	if err != nil {
		t.Fatalf("ReadFingerprint failed: %v", err)
	}
	if fp != "eDP-1=01" {
		t.Fatalf("expected fingerprint eDP-1=01, got %q", fp)
	}

	got, err := store.ReadLayout("mobile")
	if err != nil {
		t.Fatalf("ReadLayout failed: %v", err)
	}
	if !got.Equal(l) {
		t.Fatalf("expected %+v, got %+v", l, got)
	}
}

// TestWrite_OnDiskLayout verifies the setup and config file contents.
func TestWrite_OnDiskLayout(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, &testutil.FakeRunner{})
	l := layout.Layout{{Output: "eDP-1", Mode: "1920x1080", Pos: "0x0"}}

	if err := store.Write("mobile", "eDP-1=01", l); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	setup, err := os.ReadFile(filepath.Join(dir, "mobile", "setup"))
	if err != nil {
		t.Fatalf("read setup failed: %v", err)
	}
	if string(setup) != "eDP-1=01\n" {
		t.Fatalf("unexpected setup contents: %q", setup)
	}
	config, err := os.ReadFile(filepath.Join(dir, "mobile", "config"))
	if err != nil {
		t.Fatalf("read config failed: %v", err)
	}
	if string(config) != "output eDP-1\nmode 1920x1080\npos 0x0\n" {
		t.Fatalf("unexpected config contents: %q", config)
	}
}

// TestReadFingerprint_Missing verifies a profile without a setup
// record reads as empty and is therefore unmatchable.
func TestReadFingerprint_Missing(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "broken"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	store := New(dir, &testutil.FakeRunner{})

	fp, err := store.ReadFingerprint("broken")
	if err != nil {
		t.Fatalf("ReadFingerprint failed: %v", err)
	}
	if fp != "" {
		t.Fatalf("expected empty fingerprint, got %q", fp)
	}
}

// TestReadLayout_Missing verifies a profile without a config record
// reads as nil and is therefore unapplyable.
func TestReadLayout_Missing(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "broken"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	store := New(dir, &testutil.FakeRunner{})

	l, err := store.ReadLayout("broken")
	if err != nil {
		t.Fatalf("ReadLayout failed: %v", err)
	}
	if l != nil {
		t.Fatalf("expected nil layout, got %+v", l)
	}
}

// TestNames_SortedAndDirsOnly verifies enumeration is stable and skips
// plain files in the store root.
func TestNames_SortedAndDirsOnly(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, &testutil.FakeRunner{})
	for _, name := range []string{"mobile", "docked", "beamer"} {
		if err := store.Write(name, "fp", nil); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "postswitch"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write global hook failed: %v", err)
	}

	names, err := store.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	want := []string{"beamer", "docked", "mobile"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

// TestNames_MissingStore verifies a missing store root lists nothing.
func TestNames_MissingStore(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "absent"), &testutil.FakeRunner{})
	names, err := store.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}
}

// TestBlocked_ExitZeroBlocks verifies the inverted block convention: a
// block hook exiting zero blocks the profile.
func TestBlocked_ExitZeroBlocks(t *testing.T) {
	dir := t.TempDir()
	runner := &testutil.FakeRunner{}
	store := New(dir, runner)
	writeHook(t, filepath.Join(dir, "docked", "block"))

	if !store.Blocked("docked") {
		t.Fatalf("expected exit status 0 to block the profile")
	}
	if len(runner.Calls) != 1 {
		t.Fatalf("expected 1 hook call, got %d", len(runner.Calls))
	}
	call := runner.Calls[0]
	if len(call.Args) != 1 || call.Args[0] != "docked" {
		t.Fatalf("expected hook argument [docked], got %v", call.Args)
	}
}

// TestBlocked_NonZeroDoesNotBlock verifies a non-zero block hook never
// prevents a match.
func TestBlocked_NonZeroDoesNotBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docked", "block")
	runner := &testutil.FakeRunner{Status: map[string]int{path: 1}}
	store := New(dir, runner)
	writeHook(t, path)

	if store.Blocked("docked") {
		t.Fatalf("expected non-zero exit status not to block")
	}
}

// TestBlocked_RunnerErrorDoesNotBlock verifies a block hook that fails
// to run is treated like a non-zero exit: the profile stays eligible.
func TestBlocked_RunnerErrorDoesNotBlock(t *testing.T) {
	dir := t.TempDir()
	runner := &testutil.FakeRunner{Err: errors.New("exec format error")}
	store := New(dir, runner)
	writeHook(t, filepath.Join(dir, "docked", "block"))

	if store.Blocked("docked") {
		t.Fatalf("expected a hook that cannot run not to block")
	}
	if len(runner.Calls) != 1 {
		t.Fatalf("expected the hook to be attempted once, got %d calls", len(runner.Calls))
	}
}

// TestBlocked_NoHook verifies a profile without a block hook is never
// blocked and no hook runs.
func TestBlocked_NoHook(t *testing.T) {
	dir := t.TempDir()
	runner := &testutil.FakeRunner{}
	store := New(dir, runner)
	if err := store.Write("docked", "fp", nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if store.Blocked("docked") {
		t.Fatalf("expected profile without block hook to be unblocked")
	}
	if len(runner.Calls) != 0 {
		t.Fatalf("expected no hook calls, got %v", runner.Calls)
	}
}

// TestHooks_PresenceAndPaths verifies profile and global hook discovery.
func TestHooks_PresenceAndPaths(t *testing.T) {
	dir := t.TempDir()
	runner := &testutil.FakeRunner{}
	store := New(dir, runner)
	writeHook(t, filepath.Join(dir, "docked", "postswitch"))
	writeHook(t, filepath.Join(dir, "postswitch"))

	if !store.HasProfileHook("docked") {
		t.Fatalf("expected profile hook to be present")
	}
	if store.HasProfileHook("mobile") {
		t.Fatalf("expected no profile hook for mobile")
	}
	if !store.HasGlobalHook() {
		t.Fatalf("expected global hook to be present")
	}

	if _, err := store.RunProfileHook("docked"); err != nil {
		t.Fatalf("RunProfileHook failed: %v", err)
	}
	if _, err := store.RunGlobalHook("docked"); err != nil {
		t.Fatalf("RunGlobalHook failed: %v", err)
	}
	if len(runner.Calls) != 2 {
		t.Fatalf("expected 2 hook calls, got %d", len(runner.Calls))
	}
	if runner.Calls[0].Path != filepath.Join(dir, "docked", "postswitch") {
		t.Fatalf("unexpected profile hook path: %s", runner.Calls[0].Path)
	}
	if runner.Calls[1].Path != filepath.Join(dir, "postswitch") {
		t.Fatalf("unexpected global hook path: %s", runner.Calls[1].Path)
	}
}

// TestRemove verifies profile deletion.
func TestRemove(t *testing.T) {
	store := New(t.TempDir(), &testutil.FakeRunner{})
	if err := store.Write("mobile", "fp", nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := store.Remove("mobile"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	names, err := store.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty store, got %v", names)
	}

	if err := store.Remove("mobile"); err == nil {
		t.Fatalf("expected error removing a missing profile")
	}
}

// writeHook creates an executable hook file, with parent directories.
func writeHook(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write hook failed: %v", err)
	}
}
