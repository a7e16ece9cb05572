// Package options contains the program options.
package options

import (
	"github.com/retroenv/retrogolib/arch"
)

// Front end names.
const (
	UIWindow   = "window"
	UITerminal = "terminal"
	UIHeadless = "headless"
)

// Failure policy names.
const (
	PolicyHalt = "halt"
	PolicySkip = "skip"
)

// Defaults of the execution options.
const (
	DefaultOffset        = 0x200
	DefaultTickRate      = 10
	DefaultHeadlessTicks = 1000
)

// Parameters contains file path and raw value options.
type Parameters struct {
	Input       string // positional argument, empty runs the demo program
	Offset      string `flag:"o" usage:"load offset of the program" default:"0x200"`
	Breakpoints string `flag:"break" usage:"comma separated breakpoint addresses"`
}

// Flags contains behavior options.
type Flags struct {
	UI      string `flag:"ui" usage:"front end: window, terminal, headless" default:"window"`
	Policy  string `flag:"policy" usage:"unsupported instruction policy: halt, skip" default:"halt"`
	Run     bool   `flag:"run" usage:"start running instead of paused"`
	Source  bool   `flag:"source" usage:"treat input as assembly source"`
	Release bool   `flag:"release" usage:"exit silently without memory dump on failure"`
	Debug   bool   `flag:"debug" usage:"enable debug logging"`
	Quiet   bool   `flag:"q" usage:"quiet mode"`
}

// Execution contains the pacing options and the parsed raw parameters.
type Execution struct {
	TickRate int `flag:"rate" usage:"instructions executed per second" default:"10"`
	Ticks    int `flag:"ticks" usage:"stop after this many instructions, 0 for unlimited"`

	LoadOffset       uint16
	BreakpointValues []uint16
	System           arch.System
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Execution
}
