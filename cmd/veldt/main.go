package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/veldt/engine/internal/config"
	"github.com/veldt/engine/internal/core/event"
	coresys "github.com/veldt/engine/internal/core/run"
	"github.com/veldt/engine/internal/data"
	"github.com/veldt/engine/internal/lifecycle"
	"github.com/veldt/engine/internal/perf"
	"github.com/veldt/engine/internal/render"
	"github.com/veldt/engine/internal/scripting"
	"github.com/veldt/engine/internal/stream"
	"github.com/veldt/engine/internal/system"
	"github.com/veldt/engine/internal/telemetry"
	"github.com/veldt/engine/internal/vmath"
	"github.com/veldt/engine/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            veldt engine  v0.1.0           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     world streaming · adaptive quality    \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main engine logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("VELDT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load data tables and scripts
	printSection("data")

	categories, err := data.LoadCategoryTable(cfg.Engine.CategoryFile)
	if err != nil {
		return fmt.Errorf("category table: %w", err)
	}
	printStat("categories", categories.Count())

	engine, err := scripting.NewEngine(cfg.Engine.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	printOK("lua scripting ready")
	fmt.Println()

	// 4. Build the world: registry, budget controller, category managers
	printSection("world")

	bus := event.NewBus()
	worldState := world.NewState(vmath.Vec3{})
	reg := stream.NewRegistry(cfg.Streaming, bus, log)
	ctrl := perf.NewController(cfg.Performance, render.NewFakeRenderer(),
		reg.Classifier().CullDistance(cfg.Streaming.RingCount-1), bus, log)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	placer := &scriptPlacer{engine: engine}

	var managers []*lifecycle.Manager
	for _, name := range categories.Names() {
		tpl := categories.Get(name)
		typ, ok := stream.ParseFeatureType(tpl.Name)
		if !ok {
			log.Warn("unknown category, skipped", zap.String("name", tpl.Name))
			continue
		}
		m := lifecycle.NewManager(typ, spawnConfig(tpl), newFactory(tpl), placer,
			reg, bus, log, rand.New(rand.NewSource(rng.Int63())))
		m.Initialize(worldState.Viewpoint())
		managers = append(managers, m)
		printStat(tpl.Name, m.Count())
	}
	fmt.Println()

	// 5. Assemble systems in phase order
	collector := telemetry.NewCollector(bus)
	runner := coresys.NewRunner()
	runner.Register(system.NewPerfSampleSystem(ctrl, nil))
	runner.Register(system.NewStreamSystem(reg, ctrl, worldState))
	runner.Register(system.NewLifecycleSystem(managers, worldState, func(category string) float64 {
		return engine.DensityScale(category, ctrl.Snapshot().VegetationDensity)
	}))
	runner.Register(system.NewTelemetrySystem(bus, collector, reg, ctrl, worldState, 10*time.Second, log))
	runner.Register(system.NewCleanupSystem(reg))

	// 6. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	printSection("engine ready")
	printReady(fmt.Sprintf("frame loop started (tick: %s)", cfg.Engine.TickRate))
	fmt.Println()

	start := time.Now()
	for {
		select {
		case <-ticker.C:
			// Headless viewpoint driver: a slow wandering circle, enough to
			// exercise rings, relocation and travel-triggered spawning.
			t := time.Since(start).Seconds()
			worldState.SetViewpoint(vmath.Vec3{
				X: math.Cos(t*0.1) * 250,
				Z: math.Sin(t*0.1) * 250,
			})
			worldState.AdvanceFrame()
			runner.Tick(cfg.Engine.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			info := reg.DebugInfo()
			log.Info("final world state",
				zap.Uint64("frames", worldState.Frame()),
				zap.Int("features", info.Total),
				zap.Int("visible", info.Visible),
				zap.String("preset", ctrl.Preset().String()),
			)
			log.Info("engine stopped")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func spawnConfig(tpl *data.CategoryTemplate) lifecycle.SpawningConfig {
	return lifecycle.SpawningConfig{
		MaxEntities:               tpl.MaxEntities,
		MovementThreshold:         tpl.MovementThreshold,
		MinSpawnDistance:          tpl.MinSpawnDistance,
		MaxSpawnDistance:          tpl.MaxSpawnDistance,
		MaxEntityDistance:         tpl.MaxEntityDistance,
		SpawnInterval:             secs(tpl.SpawnIntervalSec),
		MaxAge:                    secs(tpl.MaxAgeSec),
		AggressiveCleanupDistance: tpl.AggressiveCleanupDistance,
		FadedTimeout:              secs(tpl.FadedTimeoutSec),
		SpawnCountPerTrigger:      tpl.SpawnCountPerTrigger,
		InitialFill:               tpl.InitialFill,
		Variants:                  tpl.Variants,
	}
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// scriptPlacer adapts the Lua engine to the lifecycle placer interface.
type scriptPlacer struct {
	engine *scripting.Engine
}

func (p *scriptPlacer) Place(category string, initial bool, viewpoint vmath.Vec3, minRadius, maxRadius float64) (vmath.Vec3, float64, string, bool) {
	res, ok := p.engine.PlaceFeature(scripting.PlacementContext{
		Category:  category,
		Initial:   initial,
		Viewpoint: viewpoint,
		MinRadius: minRadius,
		MaxRadius: maxRadius,
	})
	if !ok {
		return vmath.Vec3{}, 0, "", false
	}
	return res.Position, res.Scale, res.Variant, true
}
