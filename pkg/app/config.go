package app

import (
	"context"
	"fmt"
	"mlfqbench/models"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

const (
	ModeConcurrent = "concurrent"
	ModeSequential = "sequential"

	DefaultConfigPath = "./config.yml"
)

type ConfigType struct {
	// Mode is either concurrent (default) or sequential
	Mode string `yaml:"mode"`

	Workloads []models.WorkloadDefinition `yaml:"workloads"`
	Sizing    models.Sizing               `yaml:"sizing"`

	// ProgramDir is searched for workload executables before the directory
	// of the running binary and PATH
	ProgramDir string `yaml:"programDir"`
	// WorkDir holds the I/O work files. Defaults to the current directory
	WorkDir string `yaml:"workDir"`
	// OutputDir receives one JSON report per workload when set
	OutputDir string `yaml:"outputDir"`

	Tracing struct {
		Enabled    bool   `yaml:"enabled"`
		OutputFile string `yaml:"outputFile"`
	} `yaml:"tracing"`

	Log struct {
		NoColor bool `yaml:"noColor"`
	} `yaml:"log"`
}

var Config = DefaultConfig()

// DefaultSizing returns the workload sizes used when no configuration overrides them.
func DefaultSizing() models.Sizing {
	return models.Sizing{
		MaxPrime:        15000,
		PrimeIterations: 50,
		OuterIterations: 3_000_000,
		InnerIterations: 5,
		DiffusionRounds: 10,
		IOIterations:    200,
		IOBufferSize:    64,
		IOByteWrites:    500,
		ComputeSteps:    100,
		WorkFile:        "iotest.txt",
	}
}

func DefaultConfig() ConfigType {
	return ConfigType{
		Mode:   ModeConcurrent,
		Sizing: DefaultSizing(),
		Workloads: []models.WorkloadDefinition{
			{Name: "CPU-bound", Program: "cpubound", Profile: "primes"},
			{Name: "I/O-bound", Program: "iobound", Profile: "cycle"},
		},
		WorkDir: ".",
	}
}

// LoadConfig loads the configuration from the given path into Config.
// If the path is nil, it will load the configuration from ./config.yml.
// A missing default file leaves the built-in defaults in place.
func LoadConfig(path *string) error {
	explicit := path != nil && *path != ""
	location := DefaultConfigPath
	if explicit {
		location = *path
	}

	cfg, err := ReadConfig(context.Background(), location, explicit)
	if err != nil {
		return err
	}

	Config = *cfg
	return nil
}

// ReadConfig reads and normalizes a configuration. When required is false a
// missing file yields the defaults.
func ReadConfig(ctx context.Context, location string, required bool) (*ConfigType, error) {
	cfg := DefaultConfig()
	URL := url.Normalize(location, file.Scheme)

	fs := afs.New()
	exists, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check config %s: %w", location, err)
	}

	if !exists {
		if required {
			return nil, fmt.Errorf("config file %s does not exist", location)
		}
		return &cfg, nil
	}

	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", location, err)
	}

	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", location, err)
	}

	cfg.Normalize()
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s. details: %w", location, err)
	}

	return &cfg, nil
}

// Normalize fills every unset field with its default.
func (c *ConfigType) Normalize() {
	defaults := DefaultConfig()

	if c.Mode == "" {
		c.Mode = defaults.Mode
	}
	if c.WorkDir == "" {
		c.WorkDir = defaults.WorkDir
	}
	if len(c.Workloads) == 0 {
		c.Workloads = defaults.Workloads
	}
	for i := range c.Workloads {
		if c.Workloads[i].Name == "" {
			c.Workloads[i].Name = c.Workloads[i].Program + "/" + c.Workloads[i].Profile
		}
	}

	s := &c.Sizing
	d := defaults.Sizing
	fill := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&s.MaxPrime, d.MaxPrime)
	fill(&s.PrimeIterations, d.PrimeIterations)
	fill(&s.OuterIterations, d.OuterIterations)
	fill(&s.InnerIterations, d.InnerIterations)
	fill(&s.DiffusionRounds, d.DiffusionRounds)
	fill(&s.IOIterations, d.IOIterations)
	fill(&s.IOBufferSize, d.IOBufferSize)
	fill(&s.IOByteWrites, d.IOByteWrites)
	fill(&s.ComputeSteps, d.ComputeSteps)
	if s.WorkFile == "" {
		s.WorkFile = d.WorkFile
	}
}

// Validate returns an error describing the first invalid setting.
func (c *ConfigType) Validate() error {
	switch c.Mode {
	case ModeConcurrent, ModeSequential:
	default:
		return fmt.Errorf("unknown mode: %s", c.Mode)
	}

	s := c.Sizing
	sizes := []struct {
		name  string
		value int
	}{
		{"maxPrime", s.MaxPrime},
		{"primeIterations", s.PrimeIterations},
		{"outerIterations", s.OuterIterations},
		{"innerIterations", s.InnerIterations},
		{"diffusionRounds", s.DiffusionRounds},
		{"ioIterations", s.IOIterations},
		{"ioBufferSize", s.IOBufferSize},
		{"ioByteWrites", s.IOByteWrites},
		{"computeSteps", s.ComputeSteps},
	}
	for _, size := range sizes {
		if size.value < 0 {
			return fmt.Errorf("sizing.%s must be >= 0, got %d", size.name, size.value)
		}
	}
	if s.MaxPrime < 2 {
		return fmt.Errorf("sizing.maxPrime must be >= 2, got %d", s.MaxPrime)
	}
	if strings.ContainsAny(s.WorkFile, `/\`) {
		return fmt.Errorf("sizing.workFile must be a plain file name, got %s", s.WorkFile)
	}

	for _, w := range c.Workloads {
		if w.Program == "" {
			return fmt.Errorf("workload %s has no program", w.Name)
		}
	}

	return nil
}

// EnabledWorkloads returns the workloads that are not disabled.
func (c *ConfigType) EnabledWorkloads() []models.WorkloadDefinition {
	var enabled []models.WorkloadDefinition
	for _, w := range c.Workloads {
		if !w.Disabled {
			enabled = append(enabled, w)
		}
	}
	return enabled
}
