package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golift.io/janitorr"
	"golift.io/janitorr/config"
	"golift.io/janitorr/diskmon"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	cfg := config.Default()
	assert.Equal(int64(config.DefaultMaxSizeMB), cfg.Rotate.MaxSizeMB)
	assert.Equal(config.DefaultRotations, cfg.Rotate.MaxRotations)
	assert.Equal(config.DefaultThresholdPct, cfg.Disk.ThresholdPercent)
	assert.Equal("stdout", cfg.Disk.NotifyTarget)
	assert.Equal(config.DefaultKeep, cfg.Deploy.KeepReleases)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	// Empty path returns the defaults untouched.
	cfg, err := config.Load("")
	assert.Nil(err)
	assert.Equal(config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "janitorr.yaml")
	file := `
rotate:
  log_dir: /var/log/app
  archive_dir: /var/log/app/archive
  max_size_mb: 25
  compress: true
disk:
  threshold_percent: 85
`
	assert.Nil(os.WriteFile(path, []byte(file), 0o600))

	cfg, err = config.Load(path)
	assert.Nil(err)
	assert.Equal("/var/log/app", cfg.Rotate.LogDir)
	assert.Equal(int64(25), cfg.Rotate.MaxSizeMB)
	assert.True(cfg.Rotate.Compress)
	assert.Equal(85, cfg.Disk.ThresholdPercent)
	// Untouched members keep their defaults.
	assert.Equal(config.DefaultRotations, cfg.Rotate.MaxRotations)
	assert.Equal(config.DefaultKeep, cfg.Deploy.KeepReleases)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	assert.Nil(os.WriteFile(path, []byte("rotate: [not, a, map]"), 0o600))

	_, err = config.Load(path)
	assert.NotNil(err)
}

func TestPolicyConversion(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	policy := config.RotateConfig{MaxSizeMB: 10, MaxRotations: 5}.Policy()
	assert.Equal(int64(10*1024*1024), policy.MaxSizeBytes)
	assert.Equal(5, policy.MaxRotations)
}

func TestValidateRotate(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	cfg := config.Default()
	assert.ErrorIs(cfg.ValidateRotate(), config.ErrNoLogDir)

	cfg.Rotate.LogDir = "/var/log/app"
	assert.ErrorIs(cfg.ValidateRotate(), janitorr.ErrNoArchiveDir)

	cfg.Rotate.ArchiveDir = "/var/log/app/archive"
	assert.Nil(cfg.ValidateRotate())

	cfg.Rotate.MaxSizeMB = -1
	assert.ErrorIs(cfg.ValidateRotate(), janitorr.ErrBadMaxSize)

	cfg.Rotate.MaxSizeMB = 10
	cfg.Rotate.MaxRotations = -1
	assert.ErrorIs(cfg.ValidateRotate(), janitorr.ErrBadRotations)
}

func TestValidateDisk(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	cfg := config.Default()
	assert.Nil(cfg.ValidateDisk())

	cfg.Disk.ThresholdPercent = -1
	assert.ErrorIs(cfg.ValidateDisk(), diskmon.ErrBadThreshold)

	cfg.Disk.ThresholdPercent = 101
	assert.ErrorIs(cfg.ValidateDisk(), diskmon.ErrBadThreshold)
}

func TestValidateDeploy(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	cfg := config.Default()
	assert.ErrorIs(cfg.ValidateDeploy(), config.ErrNoAppRoot)

	cfg.Deploy.AppRoot = "/opt/myapp"
	assert.Nil(cfg.ValidateDeploy())
}
