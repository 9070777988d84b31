package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine      EngineConfig      `toml:"engine"`
	Performance PerformanceConfig `toml:"performance"`
	Streaming   StreamingConfig   `toml:"streaming"`
	Logging     LoggingConfig     `toml:"logging"`
}

type EngineConfig struct {
	TickRate     time.Duration `toml:"tick_rate"`
	CategoryFile string        `toml:"category_file"`
	ScriptsDir   string        `toml:"scripts_dir"`
}

type PerformanceConfig struct {
	TargetFPS      float64       `toml:"target_fps"`
	Margin         float64       `toml:"margin"` // fps band around target before any step
	SampleInterval time.Duration `toml:"sample_interval"`
	HistorySize    int           `toml:"history_size"`
	MinSamples     int           `toml:"min_samples"` // no adaptive action before this many samples
}

type StreamingConfig struct {
	RingCount          int           `toml:"ring_count"`
	BaseRenderDistance float64       `toml:"base_render_distance"`
	BaseCullDistance   float64       `toml:"base_cull_distance"`
	RingGrowth         float64       `toml:"ring_growth"` // render/cull budget multiplier per ring
	HardCullMultiplier float64       `toml:"hard_cull_multiplier"`
	FadeStartFraction  float64       `toml:"fade_start_fraction"` // fraction of render distance where fading begins
	OpacityFloor       float64       `toml:"opacity_floor"`
	UpdateInterval     time.Duration `toml:"update_interval"` // min wall-clock gap between stream passes
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.clamp()
	return cfg, nil
}

// Default returns the built-in configuration, already clamped.
func Default() *Config {
	cfg := defaults()
	cfg.clamp()
	return cfg
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			TickRate:     16 * time.Millisecond,
			CategoryFile: "data/yaml/category_list.yaml",
			ScriptsDir:   "scripts",
		},
		Performance: PerformanceConfig{
			TargetFPS:      60,
			Margin:         5,
			SampleInterval: time.Second,
			HistorySize:    30,
			MinSamples:     5,
		},
		Streaming: StreamingConfig{
			RingCount:          4,
			BaseRenderDistance: 300,
			BaseCullDistance:   400,
			RingGrowth:         1.5,
			HardCullMultiplier: 2.5,
			FadeStartFraction:  0.7,
			OpacityFloor:       0.1,
			UpdateInterval:     16 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// clamp repairs inverted or negative tunables instead of trusting raw input.
// Worst case after clamping is a conservative streaming setup, never a
// broken one.
func (c *Config) clamp() {
	s := &c.Streaming
	if s.RingCount < 1 {
		s.RingCount = 1
	}
	if s.BaseRenderDistance < 1 {
		s.BaseRenderDistance = 1
	}
	// Cull must stay strictly beyond render for every ring. Both scale by
	// the same growth factor, so repairing the base pair repairs all rings.
	minSep := s.BaseRenderDistance * 0.1
	if s.BaseCullDistance < s.BaseRenderDistance+minSep {
		s.BaseCullDistance = s.BaseRenderDistance + minSep
	}
	if s.RingGrowth < 1 {
		s.RingGrowth = 1
	}
	if s.HardCullMultiplier < 1 {
		s.HardCullMultiplier = 1
	}
	if s.FadeStartFraction <= 0 || s.FadeStartFraction >= 1 {
		s.FadeStartFraction = 0.7
	}
	if s.OpacityFloor < 0 {
		s.OpacityFloor = 0
	}
	if s.OpacityFloor > 1 {
		s.OpacityFloor = 1
	}
	if s.UpdateInterval <= 0 {
		s.UpdateInterval = 16 * time.Millisecond
	}

	p := &c.Performance
	if p.TargetFPS <= 0 {
		p.TargetFPS = 60
	}
	if p.Margin < 0 {
		p.Margin = 0
	}
	if p.SampleInterval <= 0 {
		p.SampleInterval = time.Second
	}
	if p.HistorySize < 1 {
		p.HistorySize = 30
	}
	if p.MinSamples < 1 {
		p.MinSamples = 1
	}
	if p.MinSamples > p.HistorySize {
		p.MinSamples = p.HistorySize
	}

	if c.Engine.TickRate <= 0 {
		c.Engine.TickRate = 16 * time.Millisecond
	}
}
