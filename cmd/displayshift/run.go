// Package main starts the displayshift tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/frudas24/displayshift/internal/config"
	"github.com/frudas24/displayshift/internal/display"
	"github.com/frudas24/displayshift/internal/engine"
	"github.com/frudas24/displayshift/internal/fingerprint"
	"github.com/frudas24/displayshift/internal/hook"
	"github.com/frudas24/displayshift/internal/match"
	"github.com/frudas24/displayshift/internal/notify"
	"github.com/frudas24/displayshift/internal/profile"
	"github.com/frudas24/displayshift/internal/watch"
)

// errNoMatch means no profile matched and no default was configured.
var errNoMatch = errors.New("no matching profile found")

// tool bundles the wired components for one invocation.
type tool struct {
	cfg       config.Config
	ctrl      display.Controller
	providers []fingerprint.Provider
	store     *profile.Store
	engine    *engine.Engine
}

// run wires the tool and dispatches the requested workflow.
func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.dir != "" {
		cfg.StoreDir = opts.dir
	}
	if opts.defProfile != "" {
		cfg.DefaultProfile = opts.defProfile
	}
	if opts.listen != "" {
		cfg.ListenAddr = opts.listen
	}
	if opts.interval > 0 {
		cfg.IntervalSeconds = opts.interval
	}

	fingerprint.SetDebugLogging(opts.debug)
	if opts.debug {
		log.Printf("debug: enabled")
		log.Printf("store dir: %s", cfg.StoreDir)
	}

	ctrl := display.NewController(cfg.XRandRPath)
	store := profile.New(cfg.StoreDir, hook.ExecRunner{})
	t := &tool{
		cfg:       cfg,
		ctrl:      ctrl,
		providers: identityProviders(ctrl),
		store:     store,
		engine:    engine.New(store, ctrl),
	}

	switch {
	case opts.fingerprint:
		return t.printFingerprint()
	case opts.save != "":
		return t.save(opts.save)
	case opts.load != "":
		return t.load(opts.load)
	case opts.remove != "":
		return t.remove(opts.remove)
	case opts.list:
		return t.list()
	case opts.watch:
		return t.watchLoop()
	default:
		return t.change(opts.force)
	}
}

// identityProviders builds the fingerprint method chain for a backend.
// An xrandr backend prefers its own EDID view, then the kernel's;
// other backends fall back to connection presence.
func identityProviders(ctrl display.Controller) []fingerprint.Provider {
	if xr, ok := ctrl.(*display.XRandR); ok {
		return []fingerprint.Provider{
			fingerprint.XRandREDID{X: xr},
			fingerprint.SysfsEDID{},
		}
	}
	return []fingerprint.Provider{fingerprint.Presence{}}
}

// detect computes the fingerprint of the current hardware.
func (t *tool) detect() (string, error) {
	outputs, err := t.ctrl.Outputs()
	if err != nil {
		return "", err
	}
	return fingerprint.Compute(outputs, t.providers...)
}

// printFingerprint prints the current fingerprint.
func (t *tool) printFingerprint() error {
	fp, err := t.detect()
	if err != nil {
		return err
	}
	fmt.Println(fp)
	return nil
}

// save records the current fingerprint and layout under a name.
func (t *tool) save(name string) error {
	fp, err := t.detect()
	if err != nil {
		return err
	}
	if err := t.engine.Save(name, fp); err != nil {
		return err
	}
	log.Printf("saved: %s", name)
	return nil
}

// load applies a named profile unconditionally.
func (t *tool) load(name string) error {
	res, err := t.engine.Apply(name, true)
	if err != nil {
		return err
	}
	if res == engine.ResultNoLayout {
		return fmt.Errorf("profile %s has no layout to apply", name)
	}
	log.Printf("loaded: %s", name)
	return nil
}

// remove deletes a named profile.
func (t *tool) remove(name string) error {
	if err := t.store.Remove(name); err != nil {
		return err
	}
	log.Printf("removed: %s", name)
	return nil
}

// list prints all profile names, marking the one that matches the
// current hardware.
func (t *tool) list() error {
	current, err := t.detect()
	if err != nil && !errors.Is(err, fingerprint.ErrNoIdentityData) {
		return err
	}
	names, err := t.store.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fp, err := t.store.ReadFingerprint(name)
		if err != nil {
			return err
		}
		if fp != "" && fp == current {
			fmt.Printf("%s (detected)\n", name)
			continue
		}
		fmt.Println(name)
	}
	return nil
}

// change runs the full detect-and-apply flow once.
func (t *tool) change(force bool) error {
	_, err := t.changeOnce(force)
	return err
}

// changeOnce detects, selects, and applies; it returns the applied
// selection for callers that publish switch events.
func (t *tool) changeOnce(force bool) (match.Selection, error) {
	fp, err := t.detect()
	if err != nil {
		if !errors.Is(err, fingerprint.ErrNoIdentityData) {
			return match.Selection{}, err
		}
		// Unknown hardware: nothing can match, the default may still apply.
		log.Printf("fingerprint: %v", err)
		fp = ""
	}

	selector := match.New(t.store, t.cfg.DefaultProfile, reportProfile)
	sel, ok, err := selector.Select(fp)
	if err != nil {
		return match.Selection{}, err
	}
	if !ok {
		return match.Selection{}, errNoMatch
	}
	if sel.Fallback {
		log.Printf("falling back to default: %s", sel.Name)
	}

	res, err := t.engine.Apply(sel.Name, force)
	if err != nil {
		return match.Selection{}, err
	}
	switch res {
	case engine.ResultUnchanged:
		log.Printf("%s: layout already active", sel.Name)
	case engine.ResultNoLayout:
		if sel.Fallback {
			// A default without a layout applies nothing; the run
			// must still end as a no-match.
			return match.Selection{}, fmt.Errorf("default profile %s has no layout: %w", sel.Name, errNoMatch)
		}
		log.Printf("%s: no layout recorded, nothing to apply", sel.Name)
	default:
		log.Printf("switched to %s", sel.Name)
	}
	return sel, nil
}

// reportProfile prints per-profile selection feedback.
func reportProfile(name string, v match.Verdict) {
	switch v {
	case match.VerdictBlocked:
		fmt.Printf("%s (blocked)\n", name)
	case match.VerdictMatched:
		fmt.Printf("%s (detected)\n", name)
	default:
		fmt.Println(name)
	}
}

// watchLoop polls for hardware changes and reapplies profiles until
// interrupted, optionally serving state and events over HTTP.
func (t *tool) watchLoop() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var mu sync.Mutex
	state := notify.State{}
	readState := func() notify.State {
		mu.Lock()
		defer mu.Unlock()
		return state
	}

	var broadcaster *notify.Server
	errCh := make(chan error, 1)
	if t.cfg.ListenAddr != "" {
		broadcaster = notify.NewServer(readState)
		mux := http.NewServeMux()
		broadcaster.RegisterRoutes(mux)
		server := &http.Server{Addr: t.cfg.ListenAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		log.Printf("listen addr: %s", t.cfg.ListenAddr)
	}

	onChange := func(fp string) {
		sel, err := t.changeOnce(false)
		if err != nil {
			log.Printf("watch: %v", err)
			return
		}
		mu.Lock()
		state = notify.State{Fingerprint: fp, Profile: sel.Name}
		mu.Unlock()
		if broadcaster != nil {
			broadcaster.Broadcast(notify.Event{
				Profile:     sel.Name,
				Fingerprint: fp,
				Fallback:    sel.Fallback,
			})
		}
	}

	interval := time.Duration(t.cfg.IntervalSeconds) * time.Second
	watcher := watch.New(interval, t.detect, onChange)
	log.Printf("watching for hardware changes every %s", interval)

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- watcher.Run(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case err := <-watchErr:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}
