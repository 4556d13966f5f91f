// -----------------------------------------------------------------------
// Engine configuration: the plain struct other components are constructed
// from. Loading this from TOML/env/flags is a surface-layer concern and
// lives outside this module; callers build a Config value themselves.
// -----------------------------------------------------------------------

package common

import (
	"os"
	"path/filepath"
	"time"
)

// Config carries the tunables for the batch engine and its ambient
// services (logging). Zero value is not ready to use; call Defaults()
// and override as needed.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Engine  EngineConfig  `toml:"engine"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // trace, debug, info, warn, error
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // time.Format layout
}

// EngineConfig controls the batch orchestration engine described in the
// specification: pool sizing, temp storage, and job retention.
type EngineConfig struct {
	// WorkerCount bounds the number of jobs processed concurrently.
	WorkerCount int `toml:"worker_count"`

	// TempDir is the base directory for scratch files produced by
	// operation handlers and for the default ConfigStore location.
	TempDir string `toml:"temp_dir"`

	// MaxFileSizeBytes is an advisory cap; handlers may use it to reject
	// oversized inputs early. Zero means unbounded.
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes"`

	// CleanupMaxAge is how long a terminal job record survives before the
	// janitor evicts it.
	CleanupMaxAge time.Duration `toml:"cleanup_max_age"`

	// CleanupInterval is how often the janitor sweeps the job store.
	CleanupInterval time.Duration `toml:"cleanup_interval"`

	// StopOnError forces a job to stop at the first failing file instead
	// of continuing through the remaining input files.
	StopOnError bool `toml:"stop_on_error"`

	// ShutdownGrace bounds how long the worker pool waits for in-flight
	// tasks to notice cancellation during Shutdown.
	ShutdownGrace time.Duration `toml:"shutdown_grace"`
}

// Defaults returns a Config with info-level stdout logging and an Engine
// section of four workers, <os temp dir>/batchpdf, and a 24h retention
// window.
func Defaults() Config {
	return Config{
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		Engine: EngineConfig{
			WorkerCount:      4,
			TempDir:          filepath.Join(os.TempDir(), "batchpdf"),
			MaxFileSizeBytes: 0,
			CleanupMaxAge:    24 * time.Hour,
			CleanupInterval:  10 * time.Minute,
			StopOnError:      false,
			ShutdownGrace:    5 * time.Second,
		},
	}
}

// ConfigStoreDir returns the directory saved parameter presets are
// persisted to.
func (c EngineConfig) ConfigStoreDir() string {
	return filepath.Join(c.TempDir, "batch_configs")
}
