package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultThreshold = 0.1
	DefaultRidge     = 0.05
	DefaultRho       = 1.0
	DefaultNu        = 1.0
	DefaultMaxIter   = 500
	DefaultDegree    = 2
)

type Config struct {
	System     string             `yaml:"system"`
	Optimizer  string             `yaml:"optimizer"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Seed       int64              `yaml:"seed"`
	NoiseLevel float64            `yaml:"noise,omitempty"`
	InitState  []float64          `yaml:"init_state,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	Library    LibraryConfig      `yaml:"library"`
	Fit        FitConfig          `yaml:"fit"`
	Sweep      SweepConfig        `yaml:"sweep"`
}

type LibraryConfig struct {
	Degree    int  `yaml:"degree"`
	Trig      bool `yaml:"trig"`
	Harmonics int  `yaml:"harmonics"`
}

type FitConfig struct {
	Threshold float64 `yaml:"threshold"`
	Ridge     float64 `yaml:"ridge"`
	Rho       float64 `yaml:"rho"`
	Nu        float64 `yaml:"nu"`
	Kernel    string  `yaml:"kernel"`
	MaxIter   int     `yaml:"max_iter"`
	Parallel  bool    `yaml:"parallel"`
}

type SweepConfig struct {
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Points   int     `yaml:"points"`
	LogScale bool    `yaml:"log_scale"`
	Workers  int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		System:    "lorenz",
		Optimizer: "strridge",
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		Library: LibraryConfig{
			Degree:    DefaultDegree,
			Harmonics: 1,
		},
		Fit: FitConfig{
			Threshold: DefaultThreshold,
			Ridge:     DefaultRidge,
			Rho:       DefaultRho,
			Nu:        DefaultNu,
			Kernel:    "soft",
			MaxIter:   DefaultMaxIter,
		},
		Sweep: SweepConfig{
			Min:      1e-3,
			Max:      1.0,
			Points:   20,
			LogScale: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
