package types

import (
	"errors"
	"time"
)

// Config selects the store backend and where it keeps its files.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// BusyTimeout bounds how long a statement waits on a locked database
	// file. Zero means DefaultBusyTimeout.
	BusyTimeout time.Duration `json:"busy_timeout,omitempty" yaml:"busy_timeout,omitempty"`
}

// BackendSQLite is the only store backend.
const BackendSQLite = "sqlite"

// DefaultBusyTimeout applies when Config.BusyTimeout is zero.
const DefaultBusyTimeout = 5 * time.Second

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrBusyTimeoutNegative = errors.New("busy timeout must not be negative")
)

// Validate reports the first problem with c as a sentinel error.
func (c Config) Validate() error {
	switch {
	case c.Backend == "":
		return ErrBackendEmpty
	case c.Backend != BackendSQLite:
		return ErrBackendUnknown
	case c.BusyTimeout < 0:
		return ErrBusyTimeoutNegative
	}
	return nil
}

// EffectiveBusyTimeout returns BusyTimeout, or DefaultBusyTimeout when unset.
func (c Config) EffectiveBusyTimeout() time.Duration {
	if c.BusyTimeout == 0 {
		return DefaultBusyTimeout
	}
	return c.BusyTimeout
}
