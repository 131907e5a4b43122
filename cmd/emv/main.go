// Command emv opens the terminal in raw mode, draws the welcome screen and
// echoes decoded input on the bottom row until the quit key is pressed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lixenwraith/emv/config"
	"github.com/lixenwraith/emv/terminal"
)

var (
	configFlag = flag.String("config", config.DefaultPath(), "Path to YAML config file")
	deviceFlag = flag.String("device", "", "Terminal device (default /dev/tty)")
	bannerFlag = flag.String("banner", "", "Welcome banner, \"-\" to hide")
	quitFlag   = flag.String("quit", "", "Quit key name, e.g. q or ctrl_q")
	mouseFlag  = flag.Bool("mouse", false, "Report mouse events")
	debugFlag  = flag.Bool("debug", false, "Write debug log to logs/emv.log")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emv: %v\n", err)
		os.Exit(2)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "emv: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	if err := terminal.Run(cfg.Options(), func(t *terminal.Terminal) error {
		return editorLoop(t, cfg.Quit())
	}); err != nil {
		slog.Error("terminal session failed", "error", err)
		fmt.Fprintf(os.Stderr, "emv: %v\n", err)
		if errors.Is(err, terminal.ErrDeviceUnavailable) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// applyFlags overrides file settings with flags given on the command line
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device = *deviceFlag
		case "banner":
			cfg.Banner = *bannerFlag
		case "quit":
			cfg.QuitKey = *quitFlag
		case "mouse":
			cfg.Mouse = *mouseFlag
		case "debug":
			cfg.Debug = *debugFlag
		}
	})
}

// editorLoop draws the welcome screen and handles input until quit.
// 'r' or Ctrl-L redraws; every other event is shown on the last row.
func editorLoop(t *terminal.Terminal, quit terminal.Key) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t.RestoreOnSignal(ctx)
	t.WatchResize(ctx, func(g terminal.Geometry) {
		slog.Debug("terminal resized", "rows", g.Rows, "cols", g.Cols)
	})

	r := t.Renderer()
	r.ClearScreen()
	if err := r.Refresh(); err != nil {
		return err
	}

	for ev := range t.Events() {
		slog.Debug("input", "event", ev.String(), "raw", fmt.Sprintf("%q", ev.Raw))

		if ev.Type == terminal.EventKey {
			switch ev.Key {
			case quit:
				r.ClearScreen()
				return r.Flush()
			case terminal.Char('r'), terminal.Ctrl('l'):
				r.ClearScreen()
				if err := r.Refresh(); err != nil {
					return err
				}
				continue
			}
		}

		g := t.Geometry()
		r.HideCursor()
		r.DrawText(g.Rows, ev.String())
		r.MoveCursor(1, 1)
		r.ShowCursor()
		if err := r.Flush(); err != nil {
			return err
		}
	}
	return t.Decoder().Err()
}
