package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"

	"github.com/richinsley/goshadernoise/diag"
	"github.com/richinsley/goshadernoise/options"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Procedural noise effect viewer/recorder")
		flag.PrintDefaults()
		return
	}

	sink := diag.Stderr()

	preset := options.DefaultPreset()
	if *opts.Preset != "" {
		var err error
		preset, err = options.LoadPreset(*opts.Preset)
		if err != nil {
			sink.Fatalf("Error loading preset: %v", err)
			return
		}
	}

	switch *opts.Mode {
	case options.ModeWindow, options.ModeSnapshot, options.ModeRecord:
	default:
		sink.Fatalf("Unknown mode %q", *opts.Mode)
		return
	}

	if err := run(context.Background(), sink, opts, preset); err != nil {
		sink.Fatalf("%v", err)
	}
}
