// Package main starts the displayshift tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
)

// options holds the parsed command line.
type options struct {
	save        string
	load        string
	remove      string
	change      bool
	force       bool
	fingerprint bool
	list        bool
	watch       bool
	defProfile  string
	dir         string
	listen      string
	interval    int
	debug       bool
}

// main is the entrypoint for the displayshift tool.
func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		if errors.Is(err, errNoMatch) {
			log.Printf("%v", err)
			os.Exit(1)
		}
		logFatal(err)
	}
}

// parseFlags parses arguments and validates that exactly one action
// was requested.
func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("displayshift", flag.ContinueOnError)
	fs.StringVar(&opts.save, "save", "", "Save the current setup as the named profile")
	fs.StringVar(&opts.load, "load", "", "Apply the named profile unconditionally")
	fs.StringVar(&opts.remove, "remove", "", "Delete the named profile")
	fs.BoolVar(&opts.change, "change", false, "Detect the current setup and apply the matching profile")
	fs.BoolVar(&opts.force, "force", false, "Apply even when the layout is already active")
	fs.BoolVar(&opts.fingerprint, "fingerprint", false, "Print the current fingerprint and exit")
	fs.BoolVar(&opts.list, "list", false, "List saved profiles, marking the detected one")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and reapply when the hardware changes")
	fs.StringVar(&opts.defProfile, "default", "", "Fallback profile when no fingerprint matches")
	fs.StringVar(&opts.dir, "dir", "", "Profile store directory")
	fs.StringVar(&opts.listen, "listen", "", "Serve watch-mode state and events on this address")
	fs.IntVar(&opts.interval, "interval", 0, "Watch polling interval in seconds")
	fs.BoolVar(&opts.debug, "debug", false, "Enable verbose debug logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	actions := 0
	for _, set := range []bool{
		opts.save != "",
		opts.load != "",
		opts.remove != "",
		opts.change,
		opts.fingerprint,
		opts.list,
		opts.watch,
	} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return options{}, errors.New("exactly one of -save, -load, -remove, -change, -fingerprint, -list, -watch is required")
	}
	return opts, nil
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}
