// The hive command plays an interactive two-player match on the terminal.
//
// Commands at the prompt: "Q 0 0" places the queen on cell (0, 0);
// "0 0 1 -1" moves the piece at (0, 0) to (1, -1); "hints" toggles the
// legal-destination listing; "quit" ends the session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/janpfeifer/must"
	"github.com/onehive/hive/internal/config"
	"github.com/onehive/hive/internal/parameters"
	"github.com/onehive/hive/internal/state"
	"github.com/onehive/hive/internal/ui/cli"
	"k8s.io/klog/v2"
)

var (
	flagConfig = flag.String("config", "", "Path to an optional YAML configuration file.")
	flagPlayers = flag.String("players", "",
		"Player configuration, e.g. \"first=Ada,second=Grace,start=second\". "+
			"Overrides the names from --config.")
	flagColor = flag.Bool("color", true, "Colored board and banners.")
	flagClear = flag.Bool("clear", false, "Clear the screen before each action.")
	flagHints = flag.Bool("hints", true, "List the legal destinations of every selectable piece.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	cfg := must.M1(config.Load(*flagConfig))
	applyFlagOverrides(cfg)

	params := parameters.Parse(*flagPlayers)
	firstName := must.M1(parameters.PopOr(params, "first", cfg.Players.First))
	secondName := must.M1(parameters.PopOr(params, "second", cfg.Players.Second))
	startName := must.M1(parameters.PopOr(params, "start", "first"))
	must.M(parameters.CheckExhausted(params))

	starting := state.PlayerFirst
	if startName == "second" {
		starting = state.PlayerSecond
	} else if startName != "first" {
		klog.Exitf("Invalid --players start=%q, use \"first\" or \"second\"", startName)
	}

	// Control+C unwinds the match loop instead of killing the process, so the
	// final board stays on screen.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	match := state.NewMatchStartedBy(starting, firstName, secondName)
	ui := cli.New(match, cfg.Display.Color, cfg.Display.ClearScreen, cfg.Display.Hints)
	if err := ui.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nInterrupted.")
			return
		}
		klog.Exitf("Failed to run match: %+v", err)
	}
}

// applyFlagOverrides lets display flags given on the command line win over
// the config file.
func applyFlagOverrides(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			cfg.Display.Color = *flagColor
		case "clear":
			cfg.Display.ClearScreen = *flagClear
		case "hints":
			cfg.Display.Hints = *flagHints
		}
	})
}
