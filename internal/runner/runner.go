// Package runner owns the window, the GL renderer and the frame loop shared
// by the scene executables.
package runner

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gltf-scenes/app"
	"gltf-scenes/config"
	"gltf-scenes/loader"
	"gltf-scenes/platform"
	"gltf-scenes/renderer"
)

// statsEvery is how many frames pass between debug draw statistics.
const statsEvery = 600

// Setup attaches a scene's loads and policy to a fresh viewer.
type Setup func(v *app.Viewer, cfg config.Config)

// Main parses the command line, runs the scene until its window closes and
// exits the process with a non-zero status on failure.
func Main(defaults config.Config, setup Setup) {
	assets := flag.String("assets", "", "directory holding the model folders (default from config)")
	configPath := flag.String("config", "", "TOML file overlaid on the built-in settings")
	level := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(*level))); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *level, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	cfg := defaults
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath, defaults); err != nil {
			log.Error("config", "err", err)
			os.Exit(1)
		}
	}
	if *assets != "" {
		cfg.Assets = *assets
	}

	if err := Run(cfg, setup, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// Run opens the window and drives the viewer until the window closes or
// Escape is pressed.
func Run(cfg config.Config, setup Setup, log *slog.Logger) error {
	wc := platform.DefaultWindowConfig()
	wc.Width, wc.Height = cfg.Window.Width, cfg.Window.Height
	wc.Title = cfg.Window.Title
	wc.Resizable = cfg.Window.Resizable
	wc.Fullscreen = cfg.Window.Fullscreen
	wc.VSync = cfg.Window.VSync
	wc.Samples = cfg.Window.Samples

	window, err := platform.NewWindow(wc)
	if err != nil {
		return err
	}
	defer window.Destroy()

	re, err := renderer.NewRenderEngine(window.GetFramebufferSize, cfg.Lights.ShadowMapSize)
	if err != nil {
		return err
	}
	defer re.Destroy()
	log.Info("renderer ready", "gl", re.Version(), "shadows", re.ShadowsEnabled)

	v := app.NewViewer(cfg, re, loader.New(cfg.Workers, log), log)
	v.Progress.OnChange = func(p *app.ProgressIndicator) {
		window.SetTitle(p.Title(cfg.Window.Title))
	}
	window.SetTitle(v.Progress.Title(cfg.Window.Title))

	window.OnResize(v.OnResize)
	window.SetCursorCallback(v.OnPointerMove)
	window.SetMouseButtonCallback(v.OnMouseButton)
	window.SetScrollCallback(v.OnScroll)

	setup(v, cfg)

	var lastErr string
	for frame := 1; !window.ShouldClose(); frame++ {
		window.PollEvents()
		if window.IsKeyPressed(platform.KeyEscape) {
			break
		}
		if err := v.Frame(); err != nil {
			if err.Error() != lastErr {
				log.Error("render", "err", err)
				lastErr = err.Error()
			}
		}
		if frame%statsEvery == 0 {
			objects, triangles, culled := re.DrawStats()
			log.Debug("frame stats", "frame", frame, "objects", objects, "triangles", triangles, "culled", culled)
		}
		window.SwapBuffers()
	}
	return nil
}
