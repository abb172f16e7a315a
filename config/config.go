// Package config loads the janitorr YAML configuration file and applies
// defaults. Command line flags may override individual members after
// loading; validation runs once at startup and any failure is fatal.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"golift.io/janitorr"
	"golift.io/janitorr/diskmon"
)

// Defaults used when members are omitted from the file.
const (
	DefaultMaxSizeMB    = 10
	DefaultRotations    = 5
	DefaultThresholdPct = 90
	DefaultKeep         = 5
)

// Custom errors returned by this package.
var (
	ErrNoLogDir  = errors.New("no log directory provided")
	ErrNoAppRoot = errors.New("no app root provided")
)

// Config is the top-level configuration file layout.
type Config struct {
	Rotate RotateConfig `yaml:"rotate"`
	Disk   DiskConfig   `yaml:"disk"`
	Deploy DeployConfig `yaml:"deploy"`
}

// RotateConfig drives the rotation sweep.
type RotateConfig struct {
	LogDir       string `yaml:"log_dir"`
	ArchiveDir   string `yaml:"archive_dir"`
	MaxSizeMB    int64  `yaml:"max_size_mb"`
	MaxRotations int    `yaml:"max_rotations"`
	Compress     bool   `yaml:"compress"`
}

// DiskConfig drives the filesystem threshold check.
type DiskConfig struct {
	ThresholdPercent int    `yaml:"threshold_percent"`
	NotifyTarget     string `yaml:"notify_target"` // stdout or log.
}

// DeployConfig drives release deploys and rollbacks.
type DeployConfig struct {
	AppRoot      string `yaml:"app_root"`
	KeepReleases int    `yaml:"keep_releases"`
	Service      string `yaml:"service"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Rotate: RotateConfig{
			MaxSizeMB:    DefaultMaxSizeMB,
			MaxRotations: DefaultRotations,
		},
		Disk: DiskConfig{
			ThresholdPercent: DefaultThresholdPct,
			NotifyTarget:     "stdout",
		},
		Deploy: DeployConfig{
			KeepReleases: DefaultKeep,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults untouched.
func Load(path string) (Config, error) {
	config := Default()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return config, nil
}

// Policy converts the rotate section into an engine policy.
func (c RotateConfig) Policy() janitorr.Policy {
	return janitorr.Policy{
		MaxSizeBytes: c.MaxSizeMB * 1024 * 1024,
		MaxRotations: c.MaxRotations,
	}
}

// ValidateRotate checks the members the rotate command needs.
func (c Config) ValidateRotate() error {
	if c.Rotate.LogDir == "" {
		return ErrNoLogDir
	}

	if c.Rotate.ArchiveDir == "" {
		return janitorr.ErrNoArchiveDir
	}

	if err := c.Rotate.Policy().Validate(); err != nil {
		return fmt.Errorf("rotate policy: %w", err)
	}

	return nil
}

// ValidateDisk checks the members the disk command needs.
func (c Config) ValidateDisk() error {
	if pct := c.Disk.ThresholdPercent; pct < 0 || pct > 100 {
		return fmt.Errorf("%w: %d", diskmon.ErrBadThreshold, pct)
	}

	return nil
}

// ValidateDeploy checks the members the deploy and rollback commands need.
func (c Config) ValidateDeploy() error {
	if c.Deploy.AppRoot == "" {
		return ErrNoAppRoot
	}

	return nil
}
