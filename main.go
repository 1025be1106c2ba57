package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ecomonitor/windflow/config"
	"github.com/ecomonitor/windflow/renderer"
	"github.com/ecomonitor/windflow/source"
	"github.com/ecomonitor/windflow/telemetry"
	"github.com/ecomonitor/windflow/ui"
	"github.com/ecomonitor/windflow/view"
	"github.com/ecomonitor/windflow/viz"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	sourceURL := flag.String("source-url", "", "Wind vector endpoint (empty = use config)")
	synthetic := flag.Bool("synthetic", false, "Use the built-in noise field instead of the HTTP source")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	v := view.New(
		cfg.Source.MinLat, cfg.Source.MaxLat,
		cfg.Source.MinLon, cfg.Source.MaxLon,
		cfg.Screen.Width, cfg.Screen.Height,
	)

	src := buildSource(cfg, *sourceURL, *synthetic, rngSeed)

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	flow := telemetry.NewFlowCollector()
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	if *headless {
		runHeadless(cfg, v, src, flow, perf, om, headlessOptions{
			seed:           rngSeed,
			logStats:       *logStats,
			statsWindowSec: statsWindowSec,
			maxTicks:       *maxTicks,
		})
		return
	}

	runWindow(cfg, v, src, flow, perf, om, windowOptions{
		seed:           rngSeed,
		logStats:       *logStats,
		statsWindowSec: statsWindowSec,
		maxTicks:       *maxTicks,
	})
}

func buildSource(cfg *config.Config, urlOverride string, synthetic bool, seed int64) source.Source {
	if synthetic {
		return source.NewSyntheticSource(seed, cfg.Source.GridSize, 0)
	}
	url := cfg.Source.URL
	if urlOverride != "" {
		url = urlOverride
	}
	timeout := time.Duration(cfg.Source.TimeoutSeconds) * time.Second
	return source.NewHTTPSource(url, cfg.Source.GridSize, timeout)
}

type headlessOptions struct {
	seed           int64
	logStats       bool
	statsWindowSec float64
	maxTicks       int
}

// runHeadless drives the engine without graphics, as fast as the CPU allows.
// Ticks stand in for frames when sizing the stats window.
func runHeadless(cfg *config.Config, v *view.View, src source.Source,
	flow *telemetry.FlowCollector, perf *telemetry.PerfCollector,
	om *telemetry.OutputManager, opts headlessOptions) {

	engine := viz.New(src, v, &viz.NoopCanvas{}, cfg, opts.seed)
	engine.SetCollectors(flow, perf)

	slog.Info("starting headless run",
		"seed", opts.seed,
		"stats_window", opts.statsWindowSec,
		"max_ticks", opts.maxTicks,
	)

	if err := engine.Activate(context.Background()); err != nil {
		slog.Error("activation failed", "error", err)
		os.Exit(1)
	}

	windowTicks := int64(opts.statsWindowSec * float64(cfg.Screen.TargetFPS))
	if windowTicks < 1 {
		windowTicks = 1
	}

	for {
		engine.Update()
		engine.Draw()

		if engine.Tick()%windowTicks == 0 {
			flushStats(engine.Tick(), flow, perf, om, opts.logStats)
		}

		if opts.maxTicks > 0 && int(engine.Tick()) >= opts.maxTicks {
			slog.Info("max ticks reached", "tick", engine.Tick())
			flushStats(engine.Tick(), flow, perf, om, opts.logStats)
			return
		}
	}
}

type windowOptions struct {
	seed           int64
	logStats       bool
	statsWindowSec float64
	maxTicks       int
}

func runWindow(cfg *config.Config, v *view.View, src source.Source,
	flow *telemetry.FlowCollector, perf *telemetry.PerfCollector,
	om *telemetry.OutputManager, opts windowOptions) {

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Wind Flow")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	canvas := renderer.NewTrailCanvas(cfg.Screen.Width, cfg.Screen.Height)
	defer canvas.Unload()

	engine := viz.New(src, v, canvas, cfg, opts.seed)
	engine.SetCollectors(flow, perf)

	panel := ui.NewPanel(20, 20, 240)
	tun := ui.Tunables{
		SpeedFactor: float32(cfg.Particles.SpeedFactor),
		FadeAlpha:   float32(cfg.Derived.FadeAlpha8),
	}

	minZoom := cfg.Particles.MinZoom
	windowTicks := int64(opts.statsWindowSec * float64(cfg.Screen.TargetFPS))
	if windowTicks < 1 {
		windowTicks = 1
	}

	toggleLayer := func() {
		if engine.Active() {
			engine.Deactivate()
			return
		}
		if v.Zoom() < minZoom {
			slog.Warn("wind layer needs a closer view",
				"zoom", v.Zoom(), "min_zoom", minZoom)
			return
		}
		if err := engine.Activate(context.Background()); err != nil {
			slog.Error("activation failed", "error", err)
		}
	}

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			w := int(rl.GetScreenWidth())
			h := int(rl.GetScreenHeight())
			if err := engine.Resize(context.Background(), w, h); err != nil {
				slog.Error("restart after resize failed", "error", err)
			}
		}

		if rl.IsKeyPressed(rl.KeyW) {
			toggleLayer()
		}
		if rl.IsKeyPressed(rl.KeyTab) {
			panel.Toggle()
		}

		engine.Tune(tun.SpeedFactor, uint8(tun.FadeAlpha))
		engine.Update()
		engine.Draw()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{
			R: viz.Background.R, G: viz.Background.G, B: viz.Background.B, A: 255,
		})
		canvas.Blit()
		if panel.Draw(engine.Active(), engine.PoolSize(), &tun) {
			toggleLayer()
		}
		rl.EndDrawing()
		perf.RecordFrame()

		if engine.Active() && engine.Tick()%windowTicks == 0 {
			flushStats(engine.Tick(), flow, perf, om, opts.logStats)
		}

		if opts.maxTicks > 0 && int(engine.Tick()) >= opts.maxTicks {
			break
		}
	}
}

func flushStats(tick int64, flow *telemetry.FlowCollector, perf *telemetry.PerfCollector,
	om *telemetry.OutputManager, logStats bool) {

	flowStats := flow.Flush(tick)
	perfStats := perf.Stats()

	if logStats {
		slog.Info("stats", "tick", tick, "flow", flowStats, "perf", perfStats)
	}
	if err := om.WriteFlow(flowStats); err != nil {
		slog.Error("failed to write flow stats", "error", err)
	}
	if err := om.WritePerf(perfStats, tick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}
