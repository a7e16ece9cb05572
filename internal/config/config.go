// Package config handles application configuration and setup
package config

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateDriverConfig converts the program options into the driver
// configuration. The memory dump of a halted machine is written to
// diagnostics.
func CreateDriverConfig(opts options.Program, diagnostics io.Writer) (driver.Config, error) {
	policy, err := driver.ParsePolicy(opts.Policy)
	if err != nil {
		return driver.Config{}, fmt.Errorf("parsing policy: %w", err)
	}

	return driver.Config{
		TickRate:    opts.TickRate,
		MaxTicks:    opts.Ticks,
		Policy:      policy,
		Release:     opts.Release,
		Running:     opts.Run,
		Breakpoints: opts.BreakpointValues,
		Diagnostics: diagnostics,
	}, nil
}
