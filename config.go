package main

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/paulmach/orb"
)

// Config is the planner configuration, read from a TOML file
type Config struct {
	Server    ServerConfig   `toml:"server"`
	BSP       BSPConfig      `toml:"bsp"`
	Obstacles ObstacleConfig `toml:"obstacles"`
	Render    RenderConfig   `toml:"render"`
}

// ServerConfig controls the HTTP host
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// BSPConfig describes the scene to partition
type BSPConfig struct {
	MinX    float64 `toml:"min_x"`
	MinY    float64 `toml:"min_y"`
	MaxX    float64 `toml:"max_x"`
	MaxY    float64 `toml:"max_y"`
	MinSize float64 `toml:"min_size"` // Smallest side a partition cell may have
	Seed    int64   `toml:"seed"`
}

// ObstacleConfig points at a directory of GeoJSON no-fly zones
type ObstacleConfig struct {
	Dir string `toml:"dir"`
}

// RenderConfig controls drawing output
type RenderConfig struct {
	SimplifyTolerance float64 `toml:"simplify_tolerance"`
}

// Bound returns the scene rectangle
func (c BSPConfig) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{c.MinX, c.MinY}, Max: orb.Point{c.MaxX, c.MaxY}}
}

// DefaultConfig returns a 100x100 scene served on :8080
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		BSP: BSPConfig{
			MaxX:    100,
			MaxY:    100,
			MinSize: 10,
			Seed:    1,
		},
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.BSP.MaxX <= c.BSP.MinX || c.BSP.MaxY <= c.BSP.MinY {
		return errors.New("bsp bounds must have positive width and height")
	}
	if !(c.BSP.MinSize > 0) {
		return errors.New("bsp min_size must be positive")
	}
	if c.Render.SimplifyTolerance < 0 {
		return errors.New("render simplify_tolerance must not be negative")
	}
	return nil
}
